package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/response"
)

// RateCounter 在固定窗口内累加计数并返回当前值。
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisRateCounter struct {
	client *redis.Client
}

// NewRedisRateCounter 创建基于 Redis INCR 的计数器。
func NewRedisRateCounter(client *redis.Client) RateCounter {
	return &redisRateCounter{client: client}
}

func (r *redisRateCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit 按客户端 IP 限制每分钟请求数。计数器出错时放行请求。
func RateLimit(counter RateCounter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perMinute <= 0 {
			c.Next()
			return
		}

		minute := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), minute)
		count, err := counter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			log.Warnf("[RateLimit] 计数失败，放行请求: ip=%s, error: %v", c.ClientIP(), err)
			c.Next()
			return
		}
		if count > int64(perMinute) {
			c.Header("Retry-After", "60")
			response.Abort(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
