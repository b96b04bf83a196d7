package constants

import "time"

// SignupDateFormat is the wire format of waitlist signup timestamps (YYYY-MM-DD HH:MM:SS, UTC).
const SignupDateFormat = "2006-01-02 15:04:05"

// StatsCacheKey holds the cached admin statistics payload.
const StatsCacheKey = "waitlist:stats"

const (
	DefaultRequestTimeout   = 30 * time.Second
	DefaultEmailSendTimeout = 5 * time.Second
	DefaultStatsCacheTTL    = time.Minute

	DefaultMaxRequestBodyBytes int64 = 1 << 20
	DefaultHSTSMaxAge          int64 = 31536000
)

// DefaultCORSAllowedOrigins are the two known frontends.
var DefaultCORSAllowedOrigins = []string{
	"http://localhost:3000",
	"https://waitfront.vercel.app",
}
