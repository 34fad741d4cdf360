package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Upstream index document
	IndexSourceURL string `envconfig:"INDEX_SOURCE_URL" required:"true"`

	// Stripe settings
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripePriceID       string `envconfig:"STRIPE_PRICE_ID"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	PublicBaseURL       string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	// Outbound notification settings
	MailerURL        string `envconfig:"MAILER_URL"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`

	// Refresh scheduler settings
	BaseRefreshCron   string `envconfig:"BASE_REFRESH_CRON" default:"0 */5 * * * *"`
	MarketRefreshCron string `envconfig:"MARKET_REFRESH_CRON" default:"*/15 * * * * *"`
	FetchTimeoutSec   int    `envconfig:"FETCH_TIMEOUT_SEC" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
