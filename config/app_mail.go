package config

import (
	"context"
	"net/http"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/prometheus/client_golang/prometheus"
)

// NewSender picks the provider named by EMAIL_PROVIDER. It returns a nil
// Sender, not an error, when the provider is disabled or lacks credentials.
func NewSender(ctx context.Context, logger *log.Logger, cfg *EmailConfig) mailer.Sender {
	if cfg.SenderEmail == "" && cfg.Provider != EmailProviderNone {
		logger.Warn("SENDER_EMAIL not set; confirmation emails disabled")
		return nil
	}

	switch cfg.Provider {
	case EmailProviderResend:
		if cfg.ResendAPIKey == "" {
			logger.Warn("RESEND_API_KEY not set; confirmation emails disabled")
			return nil
		}
		sender, err := mailer.NewResendSender(cfg.ResendAPIKey, &http.Client{Timeout: cfg.SendTimeout}, cfg.ResendBaseURL)
		if err != nil {
			logger.Error("Failed to configure Resend sender; confirmation emails disabled", "error", err)
			return nil
		}
		return sender

	case EmailProviderSES:
		sender, err := mailer.NewSESSender(ctx, mailer.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			logger.Error("Failed to configure SES sender; confirmation emails disabled", "error", err)
			return nil
		}
		return sender

	default:
		logger.Info("Email provider disabled (EMAIL_PROVIDER=none)")
		return nil
	}
}

func NewNotifier(ctx context.Context, logger *log.Logger, cfg *EmailConfig, reg prometheus.Registerer) *mailer.Notifier {
	sender := NewSender(ctx, logger, cfg)

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: cfg.BreakerThreshold,
		RecoveryTimeout:  cfg.BreakerCooldown,
		SuccessThreshold: 1,
		OnStateChange: func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Email provider circuit state changed", "from", from.String(), "to", to.String())
		},
	})

	notifier := mailer.NewNotifier(mailer.NotifierConfig{
		Sender:     sender,
		From:       mailer.FormatFrom(cfg.SenderName, cfg.SenderEmail),
		Timeout:    cfg.SendTimeout,
		Breaker:    breaker,
		Logger:     logger,
		Registerer: reg,
	})

	if notifier.Enabled() {
		logger.Info("Confirmation emails enabled", "provider", sender.Name(), "timeout", cfg.SendTimeout)
	}

	return notifier
}
