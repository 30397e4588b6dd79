package analytics

import (
	"time"

	"ai-portal-go/pkg/apperr"
)

const (
	MinTrendDays = 1
	MaxTrendDays = 365

	dateLayout = "2006-01-02"
)

// DailyCount 是某一天的计数。
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TrendReport 是按天聚合的登录和工具使用趋势。
type TrendReport struct {
	DailyVisits    []DailyCount `json:"daily_visits"`
	DailyToolUsage []DailyCount `json:"daily_tool_usage"`
	Period         string       `json:"period"`
}

// ValidateTrendDays 校验趋势统计的天数。
func ValidateTrendDays(days int) error {
	if days < MinTrendDays || days > MaxTrendDays {
		return apperr.Validation("天数必须在%d-%d之间", MinTrendDays, MaxTrendDays)
	}
	return nil
}

// TrendWindowStart 返回趋势窗口第一天的 UTC 零点，调用方据此取回记录。
func TrendWindowStart(now time.Time, days int) time.Time {
	today := truncateDay(now.UTC())
	return today.AddDate(0, 0, -(days - 1))
}

// Trends 统计以 now 所在 UTC 日期结尾、共 days 天的每日登录次数和工具使用次数。
// 两个序列都按日期升序，每天一项，没有记录的日期计数为 0。
func Trends(now time.Time, days int, activities []Activity, usages []ToolUsage) (*TrendReport, error) {
	if err := ValidateTrendDays(days); err != nil {
		return nil, err
	}

	start := TrendWindowStart(now, days)
	visits := newSeries(start, days)
	toolUse := newSeries(start, days)

	for _, a := range activities {
		if a.Type == ActivityLogin {
			visits.add(a.OccurredAt, now)
		}
	}
	for _, u := range usages {
		toolUse.add(u.OccurredAt, now)
	}

	end := start.AddDate(0, 0, days-1)
	return &TrendReport{
		DailyVisits:    visits.counts,
		DailyToolUsage: toolUse.counts,
		Period:         start.Format(dateLayout) + " to " + end.Format(dateLayout),
	}, nil
}

type series struct {
	start  time.Time
	counts []DailyCount
}

func newSeries(start time.Time, days int) *series {
	s := &series{start: start, counts: make([]DailyCount, days)}
	for i := range s.counts {
		s.counts[i].Date = start.AddDate(0, 0, i).Format(dateLayout)
	}
	return s
}

// add 将 t 计入其 UTC 日期对应的桶，窗口外或晚于 now 的记录忽略。
func (s *series) add(t, now time.Time) {
	if t.After(now) {
		return
	}
	idx := int(truncateDay(t.UTC()).Sub(s.start) / day)
	if idx < 0 || idx >= len(s.counts) {
		return
	}
	s.counts[idx].Count++
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
