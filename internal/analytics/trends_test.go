package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-portal-go/pkg/apperr"
)

func TestTrendsValidation(t *testing.T) {
	for _, days := range []int{0, -1, 366, 400} {
		_, err := Trends(now, days, nil, nil)
		assert.True(t, apperr.IsValidation(err), "days=%d", days)
	}
	for _, days := range []int{1, 30, 365} {
		_, err := Trends(now, days, nil, nil)
		assert.NoError(t, err, "days=%d", days)
	}
}

func TestTrendsSeries(t *testing.T) {
	activities := []Activity{
		{Type: ActivityLogin, OccurredAt: daysAgo(0)},
		{Type: ActivityLogin, OccurredAt: daysAgo(0).Add(-time.Hour)},
		{Type: ActivityLogin, OccurredAt: daysAgo(3)},
		{Type: ActivityToolUse, OccurredAt: daysAgo(3)},
		{Type: ActivityLogin, OccurredAt: daysAgo(30)},
		{Type: ActivityLogin, OccurredAt: now.Add(time.Hour)},
	}
	usages := []ToolUsage{
		{ToolName: "a", OccurredAt: daysAgo(1)},
		{ToolName: "b", OccurredAt: daysAgo(29)},
	}

	report, err := Trends(now, 30, activities, usages)
	require.NoError(t, err)

	require.Len(t, report.DailyVisits, 30)
	require.Len(t, report.DailyToolUsage, 30)
	assert.Equal(t, "2024-05-17 to 2024-06-15", report.Period)
	assert.Equal(t, "2024-05-17", report.DailyVisits[0].Date)
	assert.Equal(t, "2024-06-15", report.DailyVisits[29].Date)

	for i := 1; i < len(report.DailyVisits); i++ {
		assert.Less(t, report.DailyVisits[i-1].Date, report.DailyVisits[i].Date)
	}

	assert.Equal(t, 2, report.DailyVisits[29].Count)
	assert.Equal(t, 1, report.DailyVisits[26].Count)
	assert.Equal(t, 1, report.DailyToolUsage[28].Count)
	assert.Equal(t, 1, report.DailyToolUsage[0].Count)

	total := 0
	for _, d := range report.DailyVisits {
		total += d.Count
	}
	assert.Equal(t, 3, total)
}

func TestTrendWindowStart(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), TrendWindowStart(now, 1))
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), TrendWindowStart(now, 7))
}
