package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateWaitTime(t *testing.T) {
	cases := []struct {
		total int64
		want  string
	}{
		{0, "N/A"},
		{1, "1-2 Weeks"},
		{499, "1-2 Weeks"},
		{500, "2-3 Weeks"},
		{999, "2-3 Weeks"},
		{1000, "3-4 Weeks"},
		{25000, "3-4 Weeks"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, EstimateWaitTime(tc.total), "total=%d", tc.total)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(0, nil, now)

	assert.EqualValues(t, 0, stats.TotalSignups)
	assert.Equal(t, "N/A", stats.EstimatedWaitTime)
	assert.Zero(t, stats.NewThisWeek)
	assert.Zero(t, stats.WeeklyGrowth)
	require.Len(t, stats.Daily, 7)
	require.Len(t, stats.WeeklyTrend, 8)
	assert.Equal(t, "Mon", stats.Daily[0].Day)
	assert.Equal(t, "2026-03-09", stats.Daily[0].Date)
	assert.Equal(t, "Sun", stats.Daily[6].Day)
	assert.Equal(t, "2026-01-18", stats.WeeklyTrend[0].WeekStart)
	assert.Equal(t, "2026-03-08", stats.WeeklyTrend[7].WeekStart)
}

func TestComputeStats_Windows(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) time.Time { return now.Add(-d) }

	signups := []time.Time{
		at(time.Hour),         // today
		at(2 * time.Hour),     // today
		at(25 * time.Hour),    // yesterday
		at(6*day + time.Hour), // six calendar days back
		at(8 * day),           // last week
		at(9 * day),           // last week
		at(10 * day),          // last week
		at(20 * day),          // third week back
		now.Add(time.Hour),    // future, ignored
	}

	stats := ComputeStats(120, signups, now)

	assert.EqualValues(t, 120, stats.TotalSignups)
	assert.Equal(t, "1-2 Weeks", stats.EstimatedWaitTime)
	assert.Equal(t, 4, stats.NewThisWeek)
	assert.Equal(t, 3, stats.LastWeekSignups)
	assert.InDelta(t, 33.3, stats.WeeklyGrowth, 0.001)
	assert.InDelta(t, 0.6, stats.AvgDailySignups, 0.001)

	assert.Equal(t, 2, stats.Daily[6].Signups)
	assert.Equal(t, 1, stats.Daily[5].Signups)
	assert.Equal(t, 1, stats.Daily[0].Signups)

	assert.Equal(t, 4, stats.WeeklyTrend[7].Signups)
	assert.Equal(t, 3, stats.WeeklyTrend[6].Signups)
	assert.Equal(t, 1, stats.WeeklyTrend[5].Signups)

	sum := 0
	for _, w := range stats.WeeklyTrend {
		sum += w.Signups
	}
	assert.Equal(t, 8, sum)
}

func TestComputeStats_NegativeGrowth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	signups := []time.Time{
		now.Add(-time.Hour),
		now.Add(-8 * day),
		now.Add(-9 * day),
		now.Add(-10 * day),
		now.Add(-11 * day),
	}

	stats := ComputeStats(5, signups, now)

	assert.InDelta(t, -75.0, stats.WeeklyGrowth, 0.001)
}

func TestComputeStats_SignupAtNowCountsInCurrentWeek(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	signups := []time.Time{now, now.Add(-week)}

	stats := ComputeStats(2, signups, now)

	require.Len(t, stats.WeeklyTrend, weeklyTrendWeeks)
	assert.Equal(t, 2, stats.NewThisWeek)
	assert.Equal(t, stats.NewThisWeek, stats.WeeklyTrend[weeklyTrendWeeks-1].Signups)

	trendTotal := 0
	for _, w := range stats.WeeklyTrend {
		trendTotal += w.Signups
	}
	assert.Equal(t, 2, trendTotal)
}
