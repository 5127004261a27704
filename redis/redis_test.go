package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := NewRedis(zap.NewNop(), Config{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(zap.NewNop(), Config{Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "10.0.0.1:6380", Config{Host: "10.0.0.1", Port: 6380}.Addr())
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	cache := NewCache(client, CacheConfig{Prefix: "report:", TTL: time.Minute, LockWait: time.Second})
	assert.Equal(t, time.Second, cache.LockWait())

	b, ok, err := cache.Get(ctx, "xlsx")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)

	require.NoError(t, cache.Set(ctx, "xlsx", []byte("report bytes")))
	assert.Equal(t, time.Minute, mr.TTL("report:xlsx"))

	b, ok, err = cache.Get(ctx, "xlsx")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "report bytes", string(b))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "xlsx")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheGetError(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCache(client, CacheConfig{Prefix: "report:", TTL: time.Minute})
	mr.SetError("server down")

	_, ok, err := cache.Get(context.Background(), "xlsx")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestLockerTryLock(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCache(client, CacheConfig{Prefix: "report:"})

	first := cache.Locker("xlsx")
	require.NoError(t, first.TryLock(time.Second))
	assert.True(t, mr.Exists("report:lock:xlsx"))

	second := cache.Locker("xlsx")
	assert.ErrorIs(t, second.TryLock(100*time.Millisecond), ErrTimeout)
	assert.ErrorIs(t, second.Lock(time.Second), ErrFailure)

	require.NoError(t, first.Unlock())
	assert.False(t, mr.Exists("report:lock:xlsx"))
	require.NoError(t, second.TryLock(time.Second))
	require.NoError(t, second.Unlock())
}

func TestLockerUnlockKeepsOtherToken(t *testing.T) {
	mr, client := newTestClient(t)

	first := NewLocker("report:lock:xlsx", client)
	require.NoError(t, first.Lock(5*time.Second))

	// 锁过期后被另一个实例拿到
	mr.FastForward(10 * time.Second)
	second := NewLocker("report:lock:xlsx", client)
	require.NoError(t, second.Lock(5*time.Second))

	require.NoError(t, first.Unlock())
	value, err := mr.Get("report:lock:xlsx")
	require.NoError(t, err)
	assert.Equal(t, second.token, value)

	require.NoError(t, second.Unlock())
	assert.False(t, mr.Exists("report:lock:xlsx"))
}

func TestUnlockWithoutLock(t *testing.T) {
	l := NewLocker("report:lock:test", nil)
	assert.NoError(t, l.Unlock())
	assert.NotEmpty(t, l.token)
}
