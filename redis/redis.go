package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Host           string        `help:"redis主机" default:"127.0.0.1"`
	Port           int           `help:"redis端口" default:"6379"`
	Password       string        `help:"redis密码" default:""`
	Db             int           `help:"redis数据库" default:"0"`
	MaxActiveConns int           `help:"最大的活动连接数量" default:"0"`
	DialTimeout    time.Duration `help:"连接超时" default:"0"`
	ReadTimeout    time.Duration `help:"读超时" default:"0"`
	WriteTimeout   time.Duration `help:"写超时" default:"0"`
	Cache          CacheConfig   `help:"报表缓存"`
}

func (conf Config) Addr() string {
	return fmt.Sprintf("%s:%d", conf.Host, conf.Port)
}

// NewRedis 创建客户端并检查连接
func NewRedis(logger *zap.Logger, conf Config) (*redis.Client, error) {
	opts := redis.Options{
		Addr:     conf.Addr(),
		Password: conf.Password,
		DB:       conf.Db,
	}
	if conf.MaxActiveConns > 0 {
		opts.MaxActiveConns = conf.MaxActiveConns
	}
	if conf.DialTimeout > 0 {
		opts.DialTimeout = conf.DialTimeout
	}
	if conf.ReadTimeout > 0 {
		opts.ReadTimeout = conf.ReadTimeout
	}
	if conf.WriteTimeout > 0 {
		opts.WriteTimeout = conf.WriteTimeout
	}

	client := redis.NewClient(&opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("init redis connection error: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", opts.Addr), zap.Int("db", conf.Db))
	return client, nil
}
