package service

import (
	"time"

	"ai-portal-go/internal/analytics"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
)

// DashboardService 接口定义了仪表板统计的业务操作。
type DashboardService interface {
	Stats() (*analytics.DashboardStats, error)
	UserStats(user *model.User) (*analytics.UserStats, error)
	Trends(days int) (*analytics.TrendReport, error)
}

type dashboardService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	toolRepo     repository.ToolRepository
	now          func() time.Time
}

// NewDashboardService 创建一个新的 DashboardService 实例。
func NewDashboardService(userRepo repository.UserRepository, activityRepo repository.ActivityRepository, toolRepo repository.ToolRepository) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		toolRepo:     toolRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func toActivities(rows []model.UserActivity) []analytics.Activity {
	out := make([]analytics.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.Activity{
			ID:         r.ID,
			UserID:     r.UserID,
			Type:       r.ActivityType,
			Data:       r.ActivityData,
			OccurredAt: r.CreatedAt,
		})
	}
	return out
}

func toToolUsages(rows []model.ToolUsageRow) []analytics.ToolUsage {
	out := make([]analytics.ToolUsage, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.ToolUsage{ToolName: r.ToolName, UserID: r.UserID, OccurredAt: r.CreatedAt})
	}
	return out
}

// Stats 取回 30 天内的活动和最近活动后交给 analytics 聚合。
func (s *dashboardService) Stats() (*analytics.DashboardStats, error) {
	now := s.now()
	since := now.Add(-analytics.VisitWindow)

	windowed, err := s.activityRepo.Since(since)
	if err != nil {
		return nil, err
	}
	recent, err := s.activityRepo.Recent(analytics.RecentLimit)
	if err != nil {
		return nil, err
	}
	usages, err := s.toolRepo.UsageSince(since, 0)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountActive()
	if err != nil {
		return nil, err
	}

	// 最近活动可能早于窗口，按 ID 去重后合并
	seen := make(map[uint]struct{}, len(windowed))
	for _, a := range windowed {
		seen[a.ID] = struct{}{}
	}
	for _, a := range recent {
		if _, ok := seen[a.ID]; !ok {
			windowed = append(windowed, a)
		}
	}

	stats := analytics.Dashboard(analytics.DashboardInput{
		Now:        now,
		TotalUsers: totalUsers,
		Activities: toActivities(windowed),
		ToolUsages: toToolUsages(usages),
	})
	return &stats, nil
}

func (s *dashboardService) UserStats(user *model.User) (*analytics.UserStats, error) {
	now := s.now()
	since := now.Add(-analytics.VisitWindow)

	activities, err := s.activityRepo.ByUserSince(user.ID, since)
	if err != nil {
		return nil, err
	}
	usages, err := s.toolRepo.UsageSince(since, user.ID)
	if err != nil {
		return nil, err
	}

	stats := analytics.ComputeUserStats(analytics.UserStatsInput{
		Now:        now,
		JoinedAt:   user.CreatedAt,
		Activities: toActivities(activities),
		ToolUsages: toToolUsages(usages),
	})
	return &stats, nil
}

func (s *dashboardService) Trends(days int) (*analytics.TrendReport, error) {
	if err := analytics.ValidateTrendDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	since := analytics.TrendWindowStart(now, days)

	activities, err := s.activityRepo.Since(since)
	if err != nil {
		return nil, err
	}
	usages, err := s.toolRepo.UsageSince(since, 0)
	if err != nil {
		return nil, err
	}
	return analytics.Trends(now, days, toActivities(activities), toToolUsages(usages))
}
