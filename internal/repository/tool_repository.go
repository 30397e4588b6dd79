package repository

import (
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// ToolRepository 接口定义了 AI 工具及其使用记录的持久化操作。
type ToolRepository interface {
	Count() (int64, error)
	CreateBatch(tools []model.Tool) error
	List(category string, offset, limit int) ([]model.Tool, error)
	Categories() ([]string, error)
	Hot(limit int) ([]model.Tool, error)
	FindByToolID(toolID string) (*model.Tool, error)
	Related(category string, excludeID uint, limit int) ([]model.Tool, error)
	RecordUsage(usage *model.ToolUsage) error
	UsageByUser(userID uint, offset, limit int) ([]model.ToolUsage, error)
	SearchPublic(q string, limit int) ([]model.Tool, error)
	NamesWithPrefix(prefix string, limit int) ([]string, error)
	UsageSince(since time.Time, userID uint) ([]model.ToolUsageRow, error)
}

type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository 创建一个新的 ToolRepository 实例。
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) visible() *gorm.DB {
	return r.db.Model(&model.Tool{}).Where("is_active = ? AND is_public = ?", true, true)
}

func (r *toolRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.Tool{}).Count(&total).Error
	return total, err
}

func (r *toolRepository) CreateBatch(tools []model.Tool) error {
	return r.db.Create(&tools).Error
}

// List 返回公开且启用的工具，category 为空时不过滤分类。
func (r *toolRepository) List(category string, offset, limit int) ([]model.Tool, error) {
	var tools []model.Tool
	db := r.visible()
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Order("id").Offset(offset).Limit(limit).Find(&tools).Error
	return tools, err
}

func (r *toolRepository) Categories() ([]string, error) {
	var categories []string
	err := r.visible().Distinct().Order("category").Pluck("category", &categories).Error
	return categories, err
}

// Hot 按使用次数倒序返回热门工具。
func (r *toolRepository) Hot(limit int) ([]model.Tool, error) {
	var tools []model.Tool
	err := r.visible().Order("usage_count DESC").Order("id").Limit(limit).Find(&tools).Error
	return tools, err
}

func (r *toolRepository) FindByToolID(toolID string) (*model.Tool, error) {
	var tool model.Tool
	if err := r.db.Where("tool_id = ?", toolID).First(&tool).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

// Related 返回同分类的其他公开工具。
func (r *toolRepository) Related(category string, excludeID uint, limit int) ([]model.Tool, error) {
	var tools []model.Tool
	err := r.visible().Where("category = ? AND id <> ?", category, excludeID).
		Order("usage_count DESC").Limit(limit).Find(&tools).Error
	return tools, err
}

// RecordUsage 在同一事务中写入使用记录并累加工具的使用次数。
func (r *toolRepository) RecordUsage(usage *model.ToolUsage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(usage).Error; err != nil {
			return err
		}
		return tx.Model(&model.Tool{}).Where("id = ?", usage.ToolID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
	})
}

func (r *toolRepository) UsageByUser(userID uint, offset, limit int) ([]model.ToolUsage, error) {
	var usages []model.ToolUsage
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&usages).Error
	return usages, err
}

// SearchPublic 按名称、描述或分类模糊匹配公开工具。
func (r *toolRepository) SearchPublic(q string, limit int) ([]model.Tool, error) {
	var tools []model.Tool
	pattern := containsPattern(q)
	err := r.visible().
		Where("name LIKE ? OR description LIKE ? OR category LIKE ?", pattern, pattern, pattern).
		Order("id").Limit(limit).Find(&tools).Error
	return tools, err
}

// NamesWithPrefix 按区分大小写的前缀匹配返回工具名，用于搜索建议。
func (r *toolRepository) NamesWithPrefix(prefix string, limit int) ([]string, error) {
	var names []string
	err := r.visible().Where("name LIKE BINARY ?", prefixPattern(prefix)).
		Order("id").Limit(limit).Pluck("name", &names).Error
	return names, err
}

// UsageSince 联表返回 since 之后的使用记录及工具名，userID 为 0 时不按用户过滤。
func (r *toolRepository) UsageSince(since time.Time, userID uint) ([]model.ToolUsageRow, error) {
	var rows []model.ToolUsageRow
	db := r.db.Table("tool_usage").
		Select("tools.name AS tool_name, tool_usage.user_id, tool_usage.created_at").
		Joins("JOIN tools ON tools.id = tool_usage.tool_id").
		Where("tool_usage.created_at >= ?", since)
	if userID != 0 {
		db = db.Where("tool_usage.user_id = ?", userID)
	}
	err := db.Order("tool_usage.created_at").Scan(&rows).Error
	return rows, err
}
