package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WebhookEventRepository is the idempotency ledger for billing events. Stripe
// delivers events at least once; recording each event ID before acting on it
// keeps key issuance exactly-once.
type WebhookEventRepository interface {
	// MarkProcessed records the event and reports whether this is the first
	// time it has been seen.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
	// Unmark releases a recorded event so a redelivery counts as first
	// delivery again. Called when processing fails after the event was
	// reserved, so Stripe's retry is not dropped as a duplicate.
	Unmark(ctx context.Context, eventID string) error
}

type webhookEventRepo struct {
	pool *pgxpool.Pool
}

// NewWebhookEventRepo creates a new WebhookEventRepository.
func NewWebhookEventRepo(pool *pgxpool.Pool) WebhookEventRepository {
	return &webhookEventRepo{pool: pool}
}

func (r *webhookEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	const q = `
        INSERT INTO webhook_events (event_id, event_type, received_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (event_id) DO NOTHING
    `
	tag, err := r.pool.Exec(ctx, q, eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("record webhook event %s: %w", eventID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *webhookEventRepo) Unmark(ctx context.Context, eventID string) error {
	const q = `DELETE FROM webhook_events WHERE event_id = $1`
	if _, err := r.pool.Exec(ctx, q, eventID); err != nil {
		return fmt.Errorf("release webhook event %s: %w", eventID, err)
	}
	return nil
}
