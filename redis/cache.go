package redis

import (
	"context"
	"errors"
	"time"

	"github.com/opdss/report/contracts/locker"
	"github.com/redis/go-redis/v9"
)

type CacheConfig struct {
	Enabled  bool          `help:"是否缓存生成的报表" default:"false"`
	Prefix   string        `help:"缓存key前缀" default:"report:"`
	TTL      time.Duration `help:"缓存时间" default:"5m"`
	LockWait time.Duration `help:"等待其他实例生成报表的时间" default:"30s"`
}

// Cache 缓存编码后的报表
type Cache struct {
	client *redis.Client
	config CacheConfig
}

func NewCache(client *redis.Client, conf CacheConfig) *Cache {
	return &Cache{client: client, config: conf}
}

// Get 返回缓存内容, 不存在时 ok 为 false
func (c *Cache) Get(ctx context.Context, key string) (b []byte, ok bool, err error) {
	b, err = c.client.Get(ctx, c.config.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, b []byte) error {
	return c.client.Set(ctx, c.config.Prefix+key, b, c.config.TTL).Err()
}

// Locker 生成 key 对应报表时使用的锁
func (c *Cache) Locker(key string) locker.Locker {
	return NewLocker(c.config.Prefix+"lock:"+key, c.client)
}

// LockWait 等锁时间
func (c *Cache) LockWait() time.Duration {
	return c.config.LockWait
}
