package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ai-portal-go/internal/config"
	"ai-portal-go/pkg/log"
)

var RDB *redis.Client

const redisPingTimeout = 5 * time.Second

// NewRedisClient 按配置创建客户端，不做连通性检查。
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// PingRedis 在超时时间内检查 Redis 是否可用。
func PingRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("连接 Redis 失败: %w", err)
	}
	return nil
}

// InitRedis 初始化全局 RDB，Redis 不可用时退出进程。
// 令牌黑名单、限流计数和 Kafka 重试计数都依赖它。
func InitRedis(cfg config.RedisConfig) {
	client := NewRedisClient(cfg)
	if err := PingRedis(context.Background(), client); err != nil {
		log.Fatal("Redis 初始化失败", err)
	}
	RDB = client
	log.Infof("Redis 连接成功: %s db=%d", cfg.Addr, cfg.DB)
}
