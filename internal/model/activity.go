package model

import "time"

// UserActivity 定义了 user_activities 表的 ORM 模型。写入后不再修改。
type UserActivity struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	ActivityType string    `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	ActivityData string    `gorm:"type:text" json:"activity_data"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent    string    `gorm:"type:varchar(500)" json:"user_agent"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
