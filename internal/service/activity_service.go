// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/events"
	"ai-portal-go/pkg/log"
)

// notFound 将记录不存在转换为业务层的 NotFound 错误，其他错误原样返回。
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}

// ClientMeta 是请求来源信息，随活动一起记录。
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ActivityPublisher 将活动事件投递到消息队列。
type ActivityPublisher interface {
	Publish(ctx context.Context, evt events.ActivityEvent) error
}

// ActivityService 负责记录用户活动。
type ActivityService interface {
	// Record 记录一条活动；启用消息队列时异步落库，投递失败则直接写库。
	Record(ctx context.Context, userID uint, activityType, data string, meta ClientMeta) error
	// Handle 将一条活动事件写入数据库，供 Kafka 消费者调用。
	Handle(ctx context.Context, evt events.ActivityEvent) error
}

type activityService struct {
	activityRepo repository.ActivityRepository
	publisher    ActivityPublisher
	now          func() time.Time
}

// NewActivityService 创建一个新的 ActivityService 实例，publisher 为 nil 时直接写库。
func NewActivityService(activityRepo repository.ActivityRepository, publisher ActivityPublisher) ActivityService {
	return &activityService{activityRepo: activityRepo, publisher: publisher, now: time.Now}
}

func (s *activityService) Record(ctx context.Context, userID uint, activityType, data string, meta ClientMeta) error {
	if activityType == "" {
		return apperr.Validation("活动类型不能为空")
	}
	evt := events.ActivityEvent{
		UserID:       userID,
		ActivityType: activityType,
		ActivityData: data,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		OccurredAt:   s.now(),
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, evt)
		if err == nil {
			return nil
		}
		log.Warnf("[ActivityService] 投递活动事件失败，改为直接写库: user=%d, type=%s, error: %v", userID, activityType, err)
	}
	return s.Handle(ctx, evt)
}

func (s *activityService) Handle(_ context.Context, evt events.ActivityEvent) error {
	activity := &model.UserActivity{
		UserID:       evt.UserID,
		ActivityType: evt.ActivityType,
		ActivityData: evt.ActivityData,
		IPAddress:    evt.IPAddress,
		UserAgent:    evt.UserAgent,
		CreatedAt:    evt.OccurredAt,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return err
	}
	return nil
}

// recordQuietly 记录活动，失败只打日志，不影响主流程。
func recordQuietly(ctx context.Context, activities ActivityService, userID uint, activityType, data string, meta ClientMeta) {
	if activities == nil {
		return
	}
	if err := activities.Record(ctx, userID, activityType, data, meta); err != nil {
		log.Errorf("[ActivityService] 记录活动失败: user=%d, type=%s, error: %v", userID, activityType, err)
	}
}
