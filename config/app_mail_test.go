package config

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender(t *testing.T) {
	ctx := context.Background()

	t.Run("resend without key", func(t *testing.T) {
		cfg := &EmailConfig{Provider: EmailProviderResend, SenderEmail: "hello@luminary.test"}
		assert.Nil(t, NewSender(ctx, testLogger(), cfg))
	})

	t.Run("no sender address", func(t *testing.T) {
		cfg := &EmailConfig{Provider: EmailProviderResend, ResendAPIKey: "re_test"}
		assert.Nil(t, NewSender(ctx, testLogger(), cfg))
	})

	t.Run("resend configured", func(t *testing.T) {
		cfg := &EmailConfig{
			Provider:     EmailProviderResend,
			ResendAPIKey: "re_test",
			SenderEmail:  "hello@luminary.test",
			SendTimeout:  time.Second,
		}
		sender := NewSender(ctx, testLogger(), cfg)
		require.NotNil(t, sender)
		assert.Equal(t, "resend", sender.Name())
	})

	t.Run("ses configured", func(t *testing.T) {
		cfg := &EmailConfig{
			Provider:           EmailProviderSES,
			SenderEmail:        "hello@luminary.test",
			AWSRegion:          "eu-west-1",
			AWSAccessKeyID:     "AKIDEXAMPLE",
			AWSSecretAccessKey: "secret",
		}
		sender := NewSender(ctx, testLogger(), cfg)
		require.NotNil(t, sender)
		assert.Equal(t, "ses", sender.Name())
	})

	t.Run("disabled", func(t *testing.T) {
		assert.Nil(t, NewSender(ctx, testLogger(), &EmailConfig{Provider: EmailProviderNone}))
	})
}

func TestNewNotifier_RegistersEmailCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := &EmailConfig{Provider: EmailProviderNone, SenderName: "Luminary Labs", SendTimeout: time.Second, BreakerThreshold: 5, BreakerCooldown: time.Minute}

	notifier := NewNotifier(context.Background(), testLogger(), cfg, reg)
	require.NotNil(t, notifier)
	assert.False(t, notifier.Enabled())

	notifier.NotifySignup(context.Background(), "a@x.com")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "waitlist_confirmation_emails_total")
}
