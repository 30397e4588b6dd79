// Package analytics 将用户活动和工具使用记录聚合为仪表板所需的统计数据。
//
// 所有函数都是针对调用方已取回记录的纯计算，"now" 由调用方传入。
package analytics

import (
	"time"
)

// 活动类型
const (
	ActivityLogin      = "login"
	ActivityToolUse    = "tool_use"
	ActivityFileUpload = "file_upload"
)

const (
	day = 24 * time.Hour

	// VisitWindow 是访问量、工具使用统计和个人统计的回溯窗口。
	VisitWindow = 30 * day
	// ActiveWindow 是活跃用户的回溯窗口。
	ActiveWindow = 7 * day
	// RecentLimit 是最近活动列表的条数。
	RecentLimit = 10
)

// Activity 是一条用户活动记录的只读投影。
type Activity struct {
	ID         uint
	UserID     uint
	Type       string
	Data       string
	OccurredAt time.Time
}

// ToolUsage 是一条工具使用记录的只读投影，工具名已由调用方解析。
type ToolUsage struct {
	ToolName   string
	UserID     uint
	OccurredAt time.Time
}

// within 判断 t 是否落在 [now-window, now] 内。
func within(t, now time.Time, window time.Duration) bool {
	return !t.Before(now.Add(-window)) && !t.After(now)
}

// countByTool 统计窗口内每个工具的使用次数。
func countByTool(usages []ToolUsage, now time.Time, window time.Duration) map[string]int {
	counts := make(map[string]int)
	for _, u := range usages {
		if within(u.OccurredAt, now, window) {
			counts[u.ToolName]++
		}
	}
	return counts
}
