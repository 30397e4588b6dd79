package repository

import (
	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// FileRepository 接口定义了文件元数据的持久化操作。
type FileRepository interface {
	Create(file *model.File) error
	FindByID(id uint) (*model.File, error)
	FindByUser(userID uint, offset, limit int) ([]model.File, int64, error)
	Update(file *model.File) error
	Delete(id uint) error
	IncrementDownloadCount(id uint) error
	SearchByUser(userID uint, q string, limit int) ([]model.File, error)
	NamesWithPrefix(userID uint, prefix string, limit int) ([]string, error)
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建一个新的 FileRepository 实例。
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	return r.db.Create(file).Error
}

func (r *fileRepository) FindByID(id uint) (*model.File, error) {
	var file model.File
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByUser 分页返回用户的文件，按创建时间倒序，同时返回总数。
func (r *fileRepository) FindByUser(userID uint, offset, limit int) ([]model.File, int64, error) {
	var files []model.File
	var total int64

	db := r.db.Model(&model.File{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (r *fileRepository) Update(file *model.File) error {
	return r.db.Save(file).Error
}

func (r *fileRepository) Delete(id uint) error {
	return r.db.Delete(&model.File{}, id).Error
}

// IncrementDownloadCount 原子地将下载次数加一。
func (r *fileRepository) IncrementDownloadCount(id uint) error {
	return r.db.Model(&model.File{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
}

// SearchByUser 按原始文件名或文件类型模糊匹配用户自己的文件。
func (r *fileRepository) SearchByUser(userID uint, q string, limit int) ([]model.File, error) {
	var files []model.File
	pattern := containsPattern(q)
	err := r.db.Where("user_id = ?", userID).
		Where("original_name LIKE ? OR file_type LIKE ?", pattern, pattern).
		Order("id").Limit(limit).Find(&files).Error
	return files, err
}

// NamesWithPrefix 按区分大小写的前缀匹配返回文件名，用于搜索建议。
func (r *fileRepository) NamesWithPrefix(userID uint, prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.Model(&model.File{}).
		Where("user_id = ? AND original_name LIKE BINARY ?", userID, prefixPattern(prefix)).
		Order("id").Limit(limit).Pluck("original_name", &names).Error
	return names, err
}
