package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers through the Resend transactional email API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender builds a sender; baseURL is only set by tests.
func NewResendSender(apiKey string, httpClient *http.Client, baseURL string) (*ResendSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("resend: api key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := resend.NewCustomClient(httpClient, apiKey)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &ResendSender{client: client}, nil
}

func (s *ResendSender) Name() string {
	return "resend"
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: send: %w", err)
	}
	if sent == nil {
		return "", nil
	}

	return sent.Id, nil
}
