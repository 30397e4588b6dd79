// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByID(userID uint) (*model.User, error)
	Update(user *model.User) error
	TouchLastLogin(userID uint, at time.Time) error
	CountActive() (int64, error)
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 在数据库中创建一个新的用户记录。
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByUsername 根据用户名从数据库中查找一个用户。
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户。
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据用户 ID 从数据库中查找一个用户。
func (r *userRepository) FindByID(userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新数据库中一个已存在的用户记录。
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// TouchLastLogin 只更新最后登录时间。
func (r *userRepository) TouchLastLogin(userID uint, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// CountActive 统计启用状态的用户数。
func (r *userRepository) CountActive() (int64, error) {
	var total int64
	err := r.db.Model(&model.User{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}

// likeEscaper 转义 LIKE 通配符，使用户输入按字面匹配。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func prefixPattern(q string) string {
	return likeEscaper.Replace(q) + "%"
}
