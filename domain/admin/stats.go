package admin

import (
	"math"
	"time"

	"github.com/akeren/waitlist-api/pkg/constants"
)

const (
	day  = 24 * time.Hour
	week = 7 * day

	dailyWindowDays  = 7
	weeklyTrendWeeks = 8
)

// statsWindow is how far back ComputeStats needs individual signup times.
const statsWindow = weeklyTrendWeeks * week

// ComputeStats aggregates signup times (any order) relative to now. Weeks are
// rolling 7-day windows ending at now; daily buckets are UTC calendar days.
func ComputeStats(total int64, signups []time.Time, now time.Time) *StatsResponse {
	now = now.UTC()
	oneWeekAgo := now.Add(-week)
	twoWeeksAgo := now.Add(-2 * week)

	stats := &StatsResponse{
		TotalSignups:      total,
		EstimatedWaitTime: EstimateWaitTime(total),
		Daily:             make([]DailySignups, dailyWindowDays),
		WeeklyTrend:       make([]WeeklySignups, weeklyTrendWeeks),
		GeneratedAt:       now.Format(constants.SignupDateFormat),
	}

	for i := range stats.Daily {
		d := now.Add(-time.Duration(dailyWindowDays-1-i) * day)
		stats.Daily[i] = DailySignups{Day: d.Format("Mon"), Date: d.Format("2006-01-02")}
	}

	weekStarts := make([]time.Time, weeklyTrendWeeks)
	for i := range weekStarts {
		weekStarts[i] = now.Add(-time.Duration(weeklyTrendWeeks-i) * week)
		stats.WeeklyTrend[i] = WeeklySignups{WeekStart: weekStarts[i].Format("2006-01-02")}
	}

	todayIndex := dailyWindowDays - 1
	currentWeek := weeklyTrendWeeks - 1
	today := truncateToDay(now)

	for _, s := range signups {
		s = s.UTC()
		if s.After(now) {
			continue
		}

		switch {
		case !s.Before(oneWeekAgo):
			stats.NewThisWeek++
		case !s.Before(twoWeeksAgo):
			stats.LastWeekSignups++
		}

		if offset := int(today.Sub(truncateToDay(s)) / day); offset >= 0 && offset <= todayIndex {
			stats.Daily[todayIndex-offset].Signups++
		}

		// The newest bucket ends at now inclusive, matching NewThisWeek.
		for i, start := range weekStarts {
			if !s.Before(start) && (i == currentWeek || s.Before(start.Add(week))) {
				stats.WeeklyTrend[i].Signups++
				break
			}
		}
	}

	if stats.LastWeekSignups > 0 {
		growth := float64(stats.NewThisWeek-stats.LastWeekSignups) / float64(stats.LastWeekSignups) * 100
		stats.WeeklyGrowth = round1(growth)
	}
	stats.AvgDailySignups = round1(float64(stats.NewThisWeek) / dailyWindowDays)

	return stats
}

// EstimateWaitTime maps the total signup count onto a coarse wait estimate.
func EstimateWaitTime(total int64) string {
	switch {
	case total <= 0:
		return "N/A"
	case total >= 1000:
		return "3-4 Weeks"
	case total >= 500:
		return "2-3 Weeks"
	default:
		return "1-2 Weeks"
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
