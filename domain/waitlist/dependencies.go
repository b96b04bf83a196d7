package waitlist

//go:generate mockgen -source=dependencies.go -destination=mock_dependencies.go -package=waitlist

import "context"

// Notifier delivers the best-effort welcome email. It must not block the
// signup beyond its own send timeout and never reports failure.
type Notifier interface {
	NotifySignup(ctx context.Context, recipient string)
}

// StatsInvalidator drops cached admin statistics after a new signup.
type StatsInvalidator interface {
	Delete(ctx context.Context, key string) error
}
