package service

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
)

// Option 是主题或语言选项。
type Option struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	NativeName  string `json:"native_name,omitempty"`
}

// Themes 返回可用的主题。
func Themes() []Option {
	return []Option{
		{ID: "light", Name: "浅色主题", Description: "经典的浅色界面"},
		{ID: "dark", Name: "深色主题", Description: "护眼的深色界面"},
		{ID: "auto", Name: "自动主题", Description: "根据系统设置自动切换"},
	}
}

// Languages 返回可用的界面语言。
func Languages() []Option {
	return []Option{
		{Code: "zh-CN", Name: "简体中文", NativeName: "简体中文"},
		{Code: "en-US", Name: "English", NativeName: "English"},
		{Code: "ja-JP", Name: "日本語", NativeName: "日本語"},
		{Code: "ko-KR", Name: "한국어", NativeName: "한국어"},
	}
}

var (
	validThemes       = map[string]bool{"light": true, "dark": true, "auto": true}
	validLanguages    = map[string]bool{"zh-CN": true, "en-US": true, "ja-JP": true, "ko-KR": true}
	validSettingTypes = map[string]bool{"string": true, "number": true, "boolean": true, "json": true}
)

// NotificationUpdate 是通知偏好的部分更新。
type NotificationUpdate struct {
	Email *bool `json:"email"`
	Push  *bool `json:"push"`
	SMS   *bool `json:"sms"`
}

// PrivacyUpdate 是隐私偏好的部分更新。
type PrivacyUpdate struct {
	ProfileVisible  *bool `json:"profile_visible"`
	ActivityVisible *bool `json:"activity_visible"`
}

// AIPreferencesUpdate 是模型偏好的部分更新。
type AIPreferencesUpdate struct {
	DefaultModel *string  `json:"default_model" binding:"omitempty,min=1,max=50"`
	Temperature  *float64 `json:"temperature" binding:"omitempty,min=0,max=2"`
	MaxTokens    *int     `json:"max_tokens" binding:"omitempty,min=1,max=32000"`
}

// UserSettingsUpdate 是用户设置允许修改的字段，nil 表示不修改。
type UserSettingsUpdate struct {
	Theme         *string              `json:"theme" binding:"omitempty,oneof=light dark auto"`
	Language      *string              `json:"language" binding:"omitempty,oneof=zh-CN en-US ja-JP ko-KR"`
	Notifications *NotificationUpdate  `json:"notifications"`
	Privacy       *PrivacyUpdate       `json:"privacy"`
	AIPreferences *AIPreferencesUpdate `json:"ai_preferences"`
}

// SystemSettingInput 是写入系统设置的参数。
type SystemSettingInput struct {
	SettingValue string  `json:"setting_value"`
	SettingType  string  `json:"setting_type" binding:"omitempty,oneof=string number boolean json"`
	Description  *string `json:"description"`
	IsPublic     *bool   `json:"is_public"`
}

// PublicSetting 是公开系统设置的展示形式。
type PublicSetting struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SettingsService 接口定义了用户设置和系统设置的业务操作。
type SettingsService interface {
	GetUserSettings(userID uint) (*model.UserSettings, error)
	UpdateUserSettings(userID uint, update UserSettingsUpdate) (*model.UserSettings, error)
	PublicSystemSettings() (map[string]PublicSetting, error)
	ListSystemSettings() ([]model.SystemSetting, error)
	UpsertSystemSetting(key string, in SystemSettingInput) (*model.SystemSetting, error)
	DeleteSystemSetting(key string) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService 创建一个新的 SettingsService 实例。
func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// GetUserSettings 返回用户设置，首次读取时写入默认值。
func (s *settingsService) GetUserSettings(userID uint) (*model.UserSettings, error) {
	settings, err := s.settingsRepo.FindUserSettings(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = model.DefaultUserSettings(userID)
	if err := s.settingsRepo.SaveUserSettings(settings); err != nil {
		return nil, fmt.Errorf("创建默认设置失败: %w", err)
	}
	log.Infof("[SettingsService] 已为用户 %d 创建默认设置", userID)
	return settings, nil
}

func validateSettingsUpdate(update UserSettingsUpdate) error {
	if update.Theme != nil && !validThemes[*update.Theme] {
		return apperr.Validation("不支持的主题: %s", *update.Theme)
	}
	if update.Language != nil && !validLanguages[*update.Language] {
		return apperr.Validation("不支持的语言: %s", *update.Language)
	}
	if p := update.AIPreferences; p != nil {
		if p.Temperature != nil && (*p.Temperature < 0 || *p.Temperature > 2) {
			return apperr.Validation("temperature 必须在0-2之间")
		}
		if p.MaxTokens != nil && (*p.MaxTokens < 1 || *p.MaxTokens > 32000) {
			return apperr.Validation("max_tokens 必须在1-32000之间")
		}
		if p.DefaultModel != nil && *p.DefaultModel == "" {
			return apperr.Validation("default_model 不能为空")
		}
	}
	return nil
}

// UpdateUserSettings 按字段合并更新，未提供的字段保持原值。
func (s *settingsService) UpdateUserSettings(userID uint, update UserSettingsUpdate) (*model.UserSettings, error) {
	if err := validateSettingsUpdate(update); err != nil {
		return nil, err
	}
	settings, err := s.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		settings.Theme = *update.Theme
	}
	if update.Language != nil {
		settings.Language = *update.Language
	}
	if u := update.Notifications; u != nil {
		n := settings.Notifications.Data()
		setBool(&n.Email, u.Email)
		setBool(&n.Push, u.Push)
		setBool(&n.SMS, u.SMS)
		settings.Notifications = datatypes.NewJSONType(n)
	}
	if u := update.Privacy; u != nil {
		p := settings.Privacy.Data()
		setBool(&p.ProfileVisible, u.ProfileVisible)
		setBool(&p.ActivityVisible, u.ActivityVisible)
		settings.Privacy = datatypes.NewJSONType(p)
	}
	if u := update.AIPreferences; u != nil {
		a := settings.AIPreferences.Data()
		if u.DefaultModel != nil {
			a.DefaultModel = *u.DefaultModel
		}
		if u.Temperature != nil {
			a.Temperature = *u.Temperature
		}
		if u.MaxTokens != nil {
			a.MaxTokens = *u.MaxTokens
		}
		settings.AIPreferences = datatypes.NewJSONType(a)
	}

	if err := s.settingsRepo.SaveUserSettings(settings); err != nil {
		return nil, fmt.Errorf("保存用户设置失败: %w", err)
	}
	return settings, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func (s *settingsService) PublicSystemSettings() (map[string]PublicSetting, error) {
	settings, err := s.settingsRepo.ListSystem(true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]PublicSetting, len(settings))
	for _, st := range settings {
		out[st.SettingKey] = PublicSetting{Value: st.SettingValue, Type: st.SettingType, Description: st.Description}
	}
	return out, nil
}

func (s *settingsService) ListSystemSettings() ([]model.SystemSetting, error) {
	return s.settingsRepo.ListSystem(false)
}

// UpsertSystemSetting 创建或更新系统设置。
func (s *settingsService) UpsertSystemSetting(key string, in SystemSettingInput) (*model.SystemSetting, error) {
	if key == "" || len(key) > 100 {
		return nil, apperr.Validation("设置键长度必须在1-100之间")
	}
	if in.SettingType != "" && !validSettingTypes[in.SettingType] {
		return nil, apperr.Validation("不支持的设置类型: %s", in.SettingType)
	}

	setting, err := s.settingsRepo.FindSystem(key)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = &model.SystemSetting{SettingKey: key, SettingType: "string"}
	case err != nil:
		return nil, err
	}

	setting.SettingValue = in.SettingValue
	if in.SettingType != "" {
		setting.SettingType = in.SettingType
	}
	if in.Description != nil {
		setting.Description = *in.Description
	}
	if in.IsPublic != nil {
		setting.IsPublic = *in.IsPublic
	}
	if err := s.settingsRepo.SaveSystem(setting); err != nil {
		return nil, fmt.Errorf("保存系统设置失败: %w", err)
	}
	log.Infof("[SettingsService] 系统设置已更新: %s", key)
	return setting, nil
}

func (s *settingsService) DeleteSystemSetting(key string) error {
	setting, err := s.settingsRepo.FindSystem(key)
	if err != nil {
		return notFound(err, "设置不存在")
	}
	return s.settingsRepo.DeleteSystem(setting)
}
