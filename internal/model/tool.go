package model

import (
	"time"

	"gorm.io/datatypes"
)

// Tool 定义了 tools 表的 ORM 模型。
type Tool struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ToolID      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"tool_id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"type:varchar(50);not null;index" json:"category"`
	Icon        string         `gorm:"type:varchar(255)" json:"icon"`
	Endpoint    string         `gorm:"type:varchar(255)" json:"endpoint"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	IsPublic    bool           `gorm:"not null;default:true" json:"is_public"`
	Config      datatypes.JSON `json:"config"`
	UsageCount  int64          `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tool) TableName() string {
	return "tools"
}

// ToolUsage 定义了 tool_usage 表的 ORM 模型，ToolID 指向 tools.id。
type ToolUsage struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ToolID     uint           `gorm:"index;not null" json:"tool_id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	UsageData  datatypes.JSON `json:"usage_data"`
	ResultData datatypes.JSON `json:"result_data"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ToolUsage) TableName() string {
	return "tool_usage"
}

// ToolUsageRow 是 tool_usage 与 tools 联表后的一行，用于统计。
type ToolUsageRow struct {
	ToolName  string
	UserID    uint
	CreatedAt time.Time
}
