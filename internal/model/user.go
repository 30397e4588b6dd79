// Package model 定义了与数据库表对应的 Go 结构体。
// 表之间的关联只保存外键 ID，由 repository 按需查询。
package model

import "time"

// 用户角色
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User 定义了 users 表的 ORM 模型。
type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName  string     `gorm:"type:varchar(100)" json:"full_name"`
	Avatar    string     `gorm:"type:varchar(255)" json:"avatar"`
	Role      string     `gorm:"type:varchar(20);not null;default:USER" json:"role"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "users"
}
