package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
)

// Message is a single outbound HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers one message through a provider and returns its message id.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) (string, error)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

const (
	outcomeSent        = "sent"
	outcomeSkipped     = "skipped"
	outcomeFailed      = "failed"
	outcomeCircuitOpen = "circuit_open"
)

type NotifierConfig struct {
	// Sender may be nil, in which case every notification is skipped.
	Sender  Sender
	From    string
	Timeout time.Duration
	Breaker circuitbreaker.CircuitBreaker
	Logger  Logger
	// Registerer is optional; counters are still maintained when nil.
	Registerer prometheus.Registerer
}

// Notifier sends the waitlist welcome email on a best-effort basis.
type Notifier struct {
	sender  Sender
	from    string
	timeout time.Duration
	breaker circuitbreaker.CircuitBreaker
	logger  Logger
	emails  *prometheus.CounterVec
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewLoggerWithJSONOutput()
	}
	if cfg.Breaker == nil {
		cfg.Breaker = circuitbreaker.NewCircuitBreaker(nil)
	}

	emails := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_confirmation_emails_total",
			Help: "Waitlist confirmation emails by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	if cfg.Registerer != nil {
		cfg.Registerer.MustRegister(emails)
	}

	return &Notifier{
		sender:  cfg.Sender,
		from:    cfg.From,
		timeout: cfg.Timeout,
		breaker: cfg.Breaker,
		logger:  cfg.Logger,
		emails:  emails,
	}
}

// Enabled reports whether a provider is configured.
func (n *Notifier) Enabled() bool {
	return n.sender != nil
}

// NotifySignup sends the welcome email to recipient. It never fails the caller:
// every error, including a provider panic, is logged and dropped.
func (n *Notifier) NotifySignup(ctx context.Context, recipient string) {
	redacted := log.RedactEmail(recipient)

	if n.sender == nil {
		n.logger.Info("Email provider not configured; skipping confirmation email", "recipient", redacted)
		n.emails.WithLabelValues("none", outcomeSkipped).Inc()
		return
	}

	provider := n.sender.Name()

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Confirmation email panicked", "provider", provider, "recipient", redacted, "panic", fmt.Sprint(r))
			n.emails.WithLabelValues(provider, outcomeFailed).Inc()
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := NewWelcomeMessage(n.from, recipient)

	var messageID string
	err := n.breaker.Call(func() error {
		id, sendErr := n.sender.Send(sendCtx, msg)
		messageID = id
		return sendErr
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		n.logger.Warn("Email provider circuit open; skipping confirmation email", "provider", provider, "recipient", redacted)
		n.emails.WithLabelValues(provider, outcomeCircuitOpen).Inc()
	case err != nil:
		n.logger.Error("Failed to send confirmation email", "provider", provider, "recipient", redacted, "error", err)
		n.emails.WithLabelValues(provider, outcomeFailed).Inc()
	default:
		n.logger.Info("Confirmation email sent", "provider", provider, "recipient", redacted, "message_id", messageID)
		n.emails.WithLabelValues(provider, outcomeSent).Inc()
	}
}
