package repository

import (
	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// SettingsRepository 接口定义了用户设置和系统设置的持久化操作。
type SettingsRepository interface {
	FindUserSettings(userID uint) (*model.UserSettings, error)
	SaveUserSettings(settings *model.UserSettings) error
	ListSystem(publicOnly bool) ([]model.SystemSetting, error)
	FindSystem(key string) (*model.SystemSetting, error)
	SaveSystem(setting *model.SystemSetting) error
	DeleteSystem(setting *model.SystemSetting) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建一个新的 SettingsRepository 实例。
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FindUserSettings(userID uint) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveUserSettings 新建或整行更新用户设置。
func (r *settingsRepository) SaveUserSettings(settings *model.UserSettings) error {
	return r.db.Save(settings).Error
}

func (r *settingsRepository) ListSystem(publicOnly bool) ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	db := r.db.Model(&model.SystemSetting{})
	if publicOnly {
		db = db.Where("is_public = ?", true)
	}
	err := db.Order("setting_key").Find(&settings).Error
	return settings, err
}

func (r *settingsRepository) FindSystem(key string) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	if err := r.db.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) SaveSystem(setting *model.SystemSetting) error {
	return r.db.Save(setting).Error
}

func (r *settingsRepository) DeleteSystem(setting *model.SystemSetting) error {
	return r.db.Delete(setting).Error
}
