package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"indexapi/internal/config"
	"indexapi/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrCheckoutNotConfigured is returned when no Stripe price is configured.
var ErrCheckoutNotConfigured = errors.New("stripe price not configured")

// StripeService manages Stripe integration: checkout sessions and the
// webhook-driven key lifecycle.
type StripeService struct {
	cfg    *config.Config
	keySvc *KeyService
	events repository.WebhookEventRepository
	mailer Mailer
	logger zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, keySvc *KeyService, events repository.WebhookEventRepository, mailer Mailer, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, keySvc: keySvc, events: events, mailer: mailer, logger: lg}
}

// CreateCheckoutSession creates a Stripe Checkout session for the pro plan.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, email string) (string, error) {
	if s.cfg.StripePriceID == "" {
		return "", ErrCheckoutNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		CustomerEmail:      stripe.String(email),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(s.cfg.StripePriceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(stripe.CheckoutSessionModeSubscription),
		SuccessURL:         stripe.String(s.cfg.PublicBaseURL + "/?checkout=success"),
		CancelURL:          stripe.String(s.cfg.PublicBaseURL + "/?checkout=cancel"),
	}
	params.Context = ctx
	sess, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies and processes Stripe webhook events. The signature
// is checked against the raw, unparsed body; events failing verification are
// rejected with 400 and produce no side effect.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	if err := s.ProcessEvent(r.Context(), event); err != nil {
		// Stripe retries on 5xx, which is what we want for storage hiccups.
		s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to process Stripe event")
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// ProcessEvent applies a verified billing event. Unrecognized event types are
// acknowledged and ignored.
func (s *StripeService) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring Stripe event")
		return nil
	}
}

func (s *StripeService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return fmt.Errorf("invalid checkout.session payload: %w", err)
	}

	first, err := s.events.MarkProcessed(ctx, event.ID, string(event.Type))
	if err != nil {
		return err
	}
	if !first {
		s.logger.Warn().Str("event_id", event.ID).Msg("Duplicate checkout event, key already minted")
		return nil
	}

	var customerID, subscriptionID string
	if cs.Customer != nil {
		customerID = cs.Customer.ID
	}
	if cs.Subscription != nil {
		subscriptionID = cs.Subscription.ID
	}
	email := cs.CustomerEmail
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		email = cs.CustomerDetails.Email
	}

	secret, err := s.keySvc.Mint(ctx, email, "pro", customerID, subscriptionID)
	if err != nil {
		// Release the ledger entry so the redelivery mints the key instead
		// of being dropped as a duplicate.
		if uerr := s.events.Unmark(ctx, event.ID); uerr != nil {
			s.logger.Error().Err(uerr).Str("event_id", event.ID).Msg("Failed to release webhook event after mint failure")
		}
		return err
	}

	// The plaintext secret exists only here and in the outgoing email. Mail
	// delivery is best-effort and outside the transactional boundary.
	if email != "" && s.mailer != nil {
		go func(to, secret string) {
			if err := s.mailer.SendAPIKey(context.Background(), to, secret); err != nil {
				s.logger.Error().Err(err).Str("to", to).Msg("Failed to email API key")
			}
		}(email, secret)
	}
	return nil
}

func (s *StripeService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("invalid subscription payload: %w", err)
	}
	var customerID string
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	return s.keySvc.Deactivate(ctx, customerID, sub.ID)
}
