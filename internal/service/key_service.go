package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"indexapi/internal/model"
	"indexapi/internal/repository"

	"github.com/rs/zerolog"
)

// HashToken returns the deterministic SHA-256 hex digest of a token. Only
// this digest is ever stored or compared; the raw token stays with the user.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// KeyService mints and resolves API keys.
type KeyService struct {
	keys   repository.KeyRepository
	logger zerolog.Logger
}

// NewKeyService creates a new KeyService with a scoped logger.
func NewKeyService(keys repository.KeyRepository, logger zerolog.Logger) *KeyService {
	return &KeyService{keys: keys, logger: logger.With().Str("service", "KeyService").Logger()}
}

// Mint generates a fresh high-entropy secret, stores its hash as an active
// key record and returns the plaintext secret. The secret is returned exactly
// once and never persisted.
func (s *KeyService) Mint(ctx context.Context, email, plan, customerID, subscriptionID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	rec := &model.KeyRecord{
		TokenHash:            HashToken(secret),
		Plan:                 plan,
		Status:               model.KeyStatusActive,
		Email:                email,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
	}
	if err := s.keys.Insert(ctx, rec); err != nil {
		return "", fmt.Errorf("store key record: %w", err)
	}
	s.logger.Info().Str("plan", plan).Str("stripe_customer_id", customerID).Msg("Minted new API key")
	return secret, nil
}

// Deactivate marks every key for the customer/subscription pair inactive.
// Unknown pairs are a no-op.
func (s *KeyService) Deactivate(ctx context.Context, customerID, subscriptionID string) error {
	if err := s.keys.UpdateStatusBySubscription(ctx, customerID, subscriptionID, model.KeyStatusInactive); err != nil {
		return err
	}
	s.logger.Info().Str("stripe_customer_id", customerID).Str("stripe_subscription_id", subscriptionID).
		Msg("Deactivated API keys for subscription")
	return nil
}
