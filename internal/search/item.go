package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ItemType 标识搜索结果来源的实体类型。
type ItemType string

const (
	TypeTool ItemType = "tool"
	TypeFile ItemType = "file"
	TypeChat ItemType = "chat"
)

const (
	sessionWeight = 0.9
	messageWeight = 0.8

	snippetRunes = 100
)

// Item 是参与打分的候选记录的统一投影。
// Fields 为参与打分的字段，Weight 为打分后的额外系数（0 视为 1）。
type Item struct {
	Type        ItemType
	ID          string
	Title       string
	Description string
	Content     string
	Fields      []string
	Weight      float64
	Metadata    map[string]interface{}
}

// Result 是单条搜索结果。
type Result struct {
	Type        ItemType               `json:"type"`
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Content     string                 `json:"content"`
	Score       float64                `json:"score"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Score 计算该候选记录针对查询词的最终分数。
func (it Item) Score(query string) float64 {
	score := Relevance(query, it.Fields...)
	if it.Weight > 0 {
		score *= it.Weight
	}
	return score
}

func (it Item) toResult(query string) Result {
	return Result{
		Type:        it.Type,
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Content:     it.Content,
		Score:       it.Score(query),
		Metadata:    it.Metadata,
	}
}

// ToolRecord 是工具行在搜索中需要的字段。
type ToolRecord struct {
	ID          uint
	Name        string
	Description string
	Category    string
	UsageCount  int64
	CreatedAt   time.Time
}

// FileRecord 是文件行在搜索中需要的字段。
type FileRecord struct {
	ID            uint
	OriginalName  string
	FileType      string
	FileSize      int64
	DownloadCount int64
	CreatedAt     time.Time
}

// SessionRecord 是聊天会话行在搜索中需要的字段。
type SessionRecord struct {
	SessionID string
	Title     string
	ModelType string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MessageRecord 是聊天消息行在搜索中需要的字段，会话信息通过外键解析后填入。
type MessageRecord struct {
	SessionID    string
	SessionTitle string
	Role         string
	Content      string
	CreatedAt    time.Time
}

// ToolItem 将工具投影为候选记录，按名称和描述打分。
func ToolItem(t ToolRecord) Item {
	return Item{
		Type:        TypeTool,
		ID:          strconv.FormatUint(uint64(t.ID), 10),
		Title:       t.Name,
		Description: t.Description,
		Content:     t.Category,
		Fields:      []string{t.Name, t.Description},
		Metadata: map[string]interface{}{
			"category":    t.Category,
			"usage_count": t.UsageCount,
			"created_at":  formatTime(t.CreatedAt),
		},
	}
}

// FileItem 将文件投影为候选记录，只按原始文件名打分。
func FileItem(f FileRecord) Item {
	return Item{
		Type:        TypeFile,
		ID:          strconv.FormatUint(uint64(f.ID), 10),
		Title:       f.OriginalName,
		Description: fmt.Sprintf("文件类型: %s, 大小: %s", strings.ToUpper(f.FileType), FormatFileSize(f.FileSize)),
		Content:     f.FileType,
		Fields:      []string{f.OriginalName},
		Metadata: map[string]interface{}{
			"file_type":      f.FileType,
			"file_size":      f.FileSize,
			"download_count": f.DownloadCount,
			"created_at":     formatTime(f.CreatedAt),
		},
	}
}

// SessionItem 将聊天会话投影为候选记录，按标题打分并降权。
func SessionItem(s SessionRecord) Item {
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = s.CreatedAt
	}
	return Item{
		Type:        TypeChat,
		ID:          s.SessionID,
		Title:       s.Title,
		Description: "AI模型: " + s.ModelType,
		Content:     s.Title,
		Fields:      []string{s.Title},
		Weight:      sessionWeight,
		Metadata: map[string]interface{}{
			"model_type": s.ModelType,
			"updated_at": formatTime(updated),
		},
	}
}

// MessageItem 将聊天消息投影为候选记录，按内容打分并降权。
func MessageItem(m MessageRecord) Item {
	return Item{
		Type:        TypeChat,
		ID:          m.SessionID,
		Title:       "聊天记录: " + m.SessionTitle,
		Description: Truncate(m.Content, snippetRunes),
		Content:     m.Content,
		Fields:      []string{m.Content},
		Weight:      messageWeight,
		Metadata: map[string]interface{}{
			"role":          m.Role,
			"created_at":    formatTime(m.CreatedAt),
			"session_title": m.SessionTitle,
		},
	}
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize 将字节数格式化为带一位小数的可读大小，例如 "1.5 KB"。
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}
	value := float64(size)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[i])
}

// Truncate 按字符截断文本，超出部分以 "..." 结尾。
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
