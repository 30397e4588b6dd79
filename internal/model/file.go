package model

import "time"

// File 定义了 files 表的 ORM 模型，FilePath 为对象存储中的对象名。
type File struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename      string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName  string    `gorm:"type:varchar(255);not null;index" json:"original_name"`
	FilePath      string    `gorm:"type:varchar(500);not null" json:"-"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	FileType      string    `gorm:"type:varchar(50);not null" json:"file_type"`
	MimeType      string    `gorm:"type:varchar(100)" json:"mime_type"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	IsPublic      bool      `gorm:"not null;default:false" json:"is_public"`
	DownloadCount int64     `gorm:"not null;default:0" json:"download_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (File) TableName() string {
	return "files"
}
