package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationSettings 是用户的通知偏好。
type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// PrivacySettings 是用户的隐私偏好。
type PrivacySettings struct {
	ProfileVisible  bool `json:"profile_visible"`
	ActivityVisible bool `json:"activity_visible"`
}

// AIPreferences 是用户的模型调用偏好。
type AIPreferences struct {
	DefaultModel string  `json:"default_model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

// UserSettings 定义了 user_settings 表的 ORM 模型，每个用户一行。
type UserSettings struct {
	ID            uint                                      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint                                      `gorm:"uniqueIndex;not null" json:"user_id"`
	Theme         string                                    `gorm:"type:varchar(20);not null;default:light" json:"theme"`
	Language      string                                    `gorm:"type:varchar(10);not null;default:zh-CN" json:"language"`
	Notifications datatypes.JSONType[NotificationSettings] `json:"notifications"`
	Privacy       datatypes.JSONType[PrivacySettings]      `json:"privacy"`
	AIPreferences datatypes.JSONType[AIPreferences]        `gorm:"column:ai_preferences" json:"ai_preferences"`
	CreatedAt     time.Time                                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                                 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings 返回新用户的默认设置。
func DefaultUserSettings(userID uint) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Theme:         "light",
		Language:      "zh-CN",
		Notifications: datatypes.NewJSONType(NotificationSettings{Email: true}),
		Privacy:       datatypes.NewJSONType(PrivacySettings{ProfileVisible: true}),
		AIPreferences: datatypes.NewJSONType(AIPreferences{DefaultModel: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 1000}),
	}
}

// SystemSetting 定义了 system_settings 表的 ORM 模型。
type SystemSetting struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"setting_key"`
	SettingValue string    `gorm:"type:text" json:"setting_value"`
	SettingType  string    `gorm:"type:varchar(20);not null;default:string" json:"setting_type"`
	Description  string    `gorm:"type:text" json:"description"`
	IsPublic     bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
