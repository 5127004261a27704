package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opdss/report/contracts/locker"
	"github.com/redis/go-redis/v9"
)

var ErrTimeout = errors.New("try lock time out")
var ErrFailure = errors.New("get lock failure")

const delLua = `if redis.call("get",KEYS[1]) == ARGV[1] then return redis.call("del",KEYS[1]) end return 0`

var _ locker.Locker = (*Locker)(nil)

// Locker 基于redis实现的分布式锁
type Locker struct {
	client       *redis.Client
	unlockScript *redis.Script
	key          string
	token        string
	deadline     time.Time
}

func NewLocker(key string, rdb *redis.Client) *Locker {
	return &Locker{
		client:       rdb,
		key:          key,
		token:        uuid.New().String(),
		unlockScript: redis.NewScript(delLua),
	}
}

// Lock 非阻塞锁
func (l *Locker) Lock(exp time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), exp)
	defer cancel()
	ok, err := l.client.SetNX(ctx, l.key, l.token, exp).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrFailure
	}
	l.deadline = time.Now().Add(exp)
	return nil
}

// TryLock 自旋锁, 锁的过期时间与等待时间相同
func (l *Locker) TryLock(wait time.Duration) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	var ok bool
	for {
		ok, err = l.client.SetNX(ctx, l.key, l.token, wait).Result()
		if err == nil && ok {
			l.deadline = time.Now().Add(wait)
			return nil
		}
		delay := time.Millisecond * 10
		if err != nil {
			delay = time.Millisecond * 50
		}
		select {
		case <-ctx.Done():
			// 最后一次 SetNX 可能因为 ctx 到期失败, 仍然算超时
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return ErrTimeout
		case <-time.After(delay):
		}
	}
}

func (l *Locker) Unlock() error {
	if l.deadline.IsZero() {
		return nil
	}
	ctx, cancel := context.WithDeadline(context.Background(), l.deadline)
	defer cancel()
	l.deadline = time.Time{}
	return l.unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
