package repository

import (
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// ActivityRepository 接口定义了用户活动日志的持久化操作。活动只追加不修改。
type ActivityRepository interface {
	Create(activity *model.UserActivity) error
	Since(since time.Time) ([]model.UserActivity, error)
	Recent(limit int) ([]model.UserActivity, error)
	ByUserSince(userID uint, since time.Time) ([]model.UserActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建一个新的 ActivityRepository 实例。
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.UserActivity) error {
	return r.db.Create(activity).Error
}

// Since 返回 since 之后的全部活动，按时间升序。
func (r *activityRepository) Since(since time.Time) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.db.Where("created_at >= ?", since).Order("created_at, id").Find(&activities).Error
	return activities, err
}

// Recent 返回最近的 limit 条活动。
func (r *activityRepository) Recent(limit int) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&activities).Error
	return activities, err
}

func (r *activityRepository) ByUserSince(userID uint, since time.Time) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at, id").Find(&activities).Error
	return activities, err
}
