package service

import (
	"context"
	"errors"

	"indexapi/internal/model"
	"indexapi/internal/repository"

	"github.com/rs/zerolog"
)

// ErrNoAlertTarget is returned when a subscribe request carries neither an
// email nor a Telegram chat id.
var ErrNoAlertTarget = errors.New("provide email or telegramChatId")

// AlertService manages alert subscriptions.
type AlertService struct {
	alerts repository.AlertRepository
	logger zerolog.Logger
}

// NewAlertService creates a new AlertService with a scoped logger.
func NewAlertService(alerts repository.AlertRepository, logger zerolog.Logger) *AlertService {
	return &AlertService{alerts: alerts, logger: logger.With().Str("service", "AlertService").Logger()}
}

// Subscribe records an alert subscription for the given key hash.
func (s *AlertService) Subscribe(ctx context.Context, keyHash, email, telegramChatID string) error {
	if email == "" && telegramChatID == "" {
		return ErrNoAlertTarget
	}
	sub := &model.AlertSubscription{KeyHash: keyHash}
	if email != "" {
		sub.Email = &email
	}
	if telegramChatID != "" {
		sub.TelegramChatID = &telegramChatID
	}
	if err := s.alerts.Insert(ctx, sub); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store alert subscription")
		return err
	}
	return nil
}
