package admin

import "fmt"

// PlaceholderToken is returned on every successful login. It carries no
// session state and is never checked by any endpoint.
const PlaceholderToken = "placeholder-admin-session-token-12345"

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func NewLoginResponse(username string) *LoginResponse {
	return &LoginResponse{
		Message: fmt.Sprintf("Admin '%s' logged in successfully.", username),
		Token:   PlaceholderToken,
	}
}

type DailySignups struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Signups int    `json:"signups"`
}

type WeeklySignups struct {
	WeekStart string `json:"week_start"`
	Signups   int    `json:"signups"`
}

type StatsResponse struct {
	TotalSignups      int64           `json:"total_signups"`
	NewThisWeek       int             `json:"new_this_week"`
	LastWeekSignups   int             `json:"last_week_signups"`
	WeeklyGrowth      float64         `json:"weekly_growth"`
	AvgDailySignups   float64         `json:"avg_daily_signups"`
	EstimatedWaitTime string          `json:"estimated_wait_time"`
	Daily             []DailySignups  `json:"daily"`
	WeeklyTrend       []WeeklySignups `json:"weekly_trend"`
	GeneratedAt       string          `json:"generated_at"`
}
