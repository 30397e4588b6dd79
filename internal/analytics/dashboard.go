package analytics

import (
	"math"
	"sort"
	"time"
)

// DashboardInput 是全站仪表板统计的输入。
// Activities 至少应覆盖 VisitWindow 以及最近 RecentLimit 条活动。
type DashboardInput struct {
	Now        time.Time
	TotalUsers int64
	Activities []Activity
	ToolUsages []ToolUsage
}

// RecentActivity 是最近活动列表中的一项。
type RecentActivity struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Type      string `json:"type"`
	Data      string `json:"data"`
	CreatedAt string `json:"created_at"`
}

// DashboardStats 是全站仪表板统计结果。
type DashboardStats struct {
	TotalVisits      int              `json:"total_visits"`
	TotalUsers       int64            `json:"total_users"`
	ActiveUsers      int              `json:"active_users"`
	ConversionRate   float64          `json:"conversion_rate"`
	ToolUsageStats   map[string]int   `json:"tool_usage_stats"`
	RecentActivities []RecentActivity `json:"recent_activities"`
}

// Dashboard 计算全站仪表板统计：
// 30 天内登录次数、7 天内活跃用户数、活跃用户占比、30 天内各工具使用次数和最近 10 条活动。
func Dashboard(in DashboardInput) DashboardStats {
	visits := 0
	active := make(map[uint]struct{})
	for _, a := range in.Activities {
		if a.Type == ActivityLogin && within(a.OccurredAt, in.Now, VisitWindow) {
			visits++
		}
		if within(a.OccurredAt, in.Now, ActiveWindow) {
			active[a.UserID] = struct{}{}
		}
	}

	return DashboardStats{
		TotalVisits:      visits,
		TotalUsers:       in.TotalUsers,
		ActiveUsers:      len(active),
		ConversionRate:   ConversionRate(len(active), in.TotalUsers),
		ToolUsageStats:   countByTool(in.ToolUsages, in.Now, VisitWindow),
		RecentActivities: Recent(in.Activities, RecentLimit),
	}
}

// ConversionRate 返回 active/total*100 保留两位小数，total 为 0 时返回 0。
func ConversionRate(active int, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(active) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// Recent 按发生时间倒序返回最多 n 条活动，时间相同的保持输入顺序。
func Recent(activities []Activity, n int) []RecentActivity {
	sorted := make([]Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]RecentActivity, 0, len(sorted))
	for _, a := range sorted {
		out = append(out, RecentActivity{
			ID:        a.ID,
			UserID:    a.UserID,
			Type:      a.Type,
			Data:      a.Data,
			CreatedAt: a.OccurredAt.Format(time.RFC3339),
		})
	}
	return out
}

// UserStatsInput 是个人统计的输入，记录应已按用户过滤。
type UserStatsInput struct {
	Now        time.Time
	JoinedAt   time.Time
	Activities []Activity
	ToolUsages []ToolUsage
}

// UserStats 是个人统计结果。
type UserStats struct {
	TotalActivities   int            `json:"total_activities"`
	ActivityBreakdown map[string]int `json:"activity_breakdown"`
	ToolUsage         map[string]int `json:"tool_usage"`
	MostActiveDay     *string        `json:"most_active_day"`
	JoinDays          int            `json:"join_days"`
}

// ComputeUserStats 计算用户 30 天内的活动分布、工具使用、最活跃的一天以及注册天数。
func ComputeUserStats(in UserStatsInput) UserStats {
	windowed := make([]Activity, 0, len(in.Activities))
	breakdown := make(map[string]int)
	for _, a := range in.Activities {
		if !within(a.OccurredAt, in.Now, VisitWindow) {
			continue
		}
		windowed = append(windowed, a)
		breakdown[a.Type]++
	}

	joinDays := 0
	if !in.JoinedAt.IsZero() && in.Now.After(in.JoinedAt) {
		joinDays = int(in.Now.Sub(in.JoinedAt) / day)
	}

	return UserStats{
		TotalActivities:   len(windowed),
		ActivityBreakdown: breakdown,
		ToolUsage:         countByTool(in.ToolUsages, in.Now, VisitWindow),
		MostActiveDay:     MostActiveDay(windowed),
		JoinDays:          joinDays,
	}
}

// MostActiveDay 返回活动最多的 UTC 日期，与 Trends 的分桶一致，
// 次数相同时取最先出现的日期；没有活动时返回 nil。
func MostActiveDay(activities []Activity) *string {
	if len(activities) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range activities {
		d := a.OccurredAt.UTC().Format(dateLayout)
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}

	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return &best
}
