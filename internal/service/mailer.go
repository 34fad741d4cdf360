package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Mailer delivers the plaintext API key to a new subscriber. Delivery is
// best-effort; failures never roll back key issuance.
type Mailer interface {
	SendAPIKey(ctx context.Context, to, secret string) error
}

// MailerService posts messages to the configured outbound mailer endpoint.
type MailerService struct {
	client *resty.Client
	url    string
	logger zerolog.Logger
}

// NewMailerService creates a new MailerService with a scoped logger.
func NewMailerService(url string, logger zerolog.Logger) *MailerService {
	client := resty.New().SetTimeout(10 * time.Second)
	return &MailerService{
		client: client,
		url:    url,
		logger: logger.With().Str("service", "MailerService").Logger(),
	}
}

func (m *MailerService) SendAPIKey(ctx context.Context, to, secret string) error {
	if m.url == "" {
		return fmt.Errorf("mailer endpoint not configured")
	}
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"to":      to,
			"subject": "Your API key",
			"text":    "Thanks for subscribing. Your API key is:\n\n" + secret + "\n\nKeep it secret; it cannot be recovered if lost.",
		}).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("send key email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mailer responded with status %d", resp.StatusCode())
	}
	m.logger.Info().Str("to", to).Msg("API key email sent")
	return nil
}
