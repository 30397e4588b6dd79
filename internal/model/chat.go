package model

import "time"

// 消息角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatSession 定义了 chat_sessions 表的 ORM 模型。
// SessionID 是对外暴露的 UUID，ID 仅用于 chat_messages 的外键。
type ChatSession struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"session_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"type:varchar(200)" json:"title"`
	ModelType string    `gorm:"type:varchar(50);not null;default:gpt-3.5-turbo" json:"model_type"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage 定义了 chat_messages 表的 ORM 模型，SessionID 指向 chat_sessions.id。
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint      `gorm:"index;not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tokens    int       `gorm:"not null;default:0" json:"tokens"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
