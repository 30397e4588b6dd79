// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"ai-portal-go/internal/config"
	"ai-portal-go/pkg/events"
	"ai-portal-go/pkg/log"
)

const maxAttempts = 3

// EventHandler 处理一条活动事件，使消费者与具体的落库实现解耦。
type EventHandler interface {
	Handle(ctx context.Context, evt events.ActivityEvent) error
}

// Producer 将活动事件写入 Kafka。
type Producer struct {
	writer *kafka.Writer
}

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) *Producer {
	p := &Producer{writer: &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}}
	log.Info("Kafka 生产者初始化成功")
	return p
}

// Publish 发送一条活动事件，未设置 EventID 时自动生成。
func (p *Producer) Publish(ctx context.Context, evt events.ActivityEvent) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", evt.UserID)),
		Value: value,
	})
}

// Close 关闭底层 Writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// attemptCounter 记录每条消息的失败次数。
type attemptCounter interface {
	Incr(ctx context.Context, eventID string) (int64, error)
	Reset(ctx context.Context, eventID string)
}

type redisAttemptCounter struct {
	rdb *redis.Client
}

func attemptsKey(eventID string) string {
	return fmt.Sprintf("kafka:attempts:%s", eventID)
}

func (c redisAttemptCounter) Incr(ctx context.Context, eventID string) (int64, error) {
	key := attemptsKey(eventID)
	attempts, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = c.rdb.Expire(ctx, key, 24*time.Hour).Err()
	return attempts, nil
}

func (c redisAttemptCounter) Reset(ctx context.Context, eventID string) {
	_ = c.rdb.Del(ctx, attemptsKey(eventID)).Err()
}

// retryBackoff 是同一条消息两次重试之间的基础间隔，按尝试次数线性增长。
var retryBackoff = 200 * time.Millisecond

// process 处理一条消息并返回是否应提交 offset。
// 失败时在本地按退避间隔重试，累计失败 maxAttempts 次后提交放弃；
// 只有 ctx 在重试期间被取消才不提交，留待下次启动重投。
// 失败次数同时记在 Redis 中，进程重启后重投的消息会继续累计。
func process(ctx context.Context, value []byte, handler EventHandler, counter attemptCounter) bool {
	var evt events.ActivityEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(value))
		return true
	}

	var local int64
	for {
		err := handler.Handle(ctx, evt)
		if err == nil {
			counter.Reset(ctx, evt.EventID)
			return true
		}
		log.Errorf("处理活动事件失败: event=%s, type=%s, error: %v", evt.EventID, evt.ActivityType, err)

		local++
		attempts, incErr := counter.Incr(ctx, evt.EventID)
		if incErr != nil || attempts < local {
			attempts = local
		}
		if attempts >= maxAttempts {
			log.Errorf("活动事件多次失败(>=%d)，提交 offset 终止重试: event=%s", maxAttempts, evt.EventID)
			counter.Reset(ctx, evt.EventID)
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(attempts) * retryBackoff):
		}
	}
}

// StartConsumer 启动 Kafka 消费者，把活动事件交给 handler 落库，ctx 取消后退出。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, rdb *redis.Client, handler EventHandler) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	counter := redisAttemptCounter{rdb: rdb}

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("Kafka 消费者收到停止信号")
			} else {
				log.Error("从 Kafka 读取消息失败", err)
			}
			break
		}

		if process(ctx, m.Value, handler, counter) {
			if err := r.CommitMessages(ctx, m); err != nil {
				log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Errorf("关闭 Kafka 消费者失败: %v", err)
	}
}
