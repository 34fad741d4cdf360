package repository

import (
	"context"
	"errors"
	"fmt"

	"indexapi/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KeyRepository defines methods for accessing API key records.
type KeyRepository interface {
	// GetByHash returns the key record for a token hash, or nil if unknown.
	GetByHash(ctx context.Context, hash string) (*model.KeyRecord, error)
	Insert(ctx context.Context, rec *model.KeyRecord) error
	// UpdateStatusBySubscription updates every key matching the customer and
	// subscription pair. A missing record is not an error; billing events may
	// reference subscriptions this service never issued a key for.
	UpdateStatusBySubscription(ctx context.Context, customerID, subscriptionID, status string) error
}

type keyRepo struct {
	pool *pgxpool.Pool
}

// NewKeyRepo creates a new KeyRepository.
func NewKeyRepo(pool *pgxpool.Pool) KeyRepository {
	return &keyRepo{pool: pool}
}

func (r *keyRepo) GetByHash(ctx context.Context, hash string) (*model.KeyRecord, error) {
	const q = `
        SELECT token_hash, plan, status, email, stripe_customer_id, stripe_subscription_id, created_at, updated_at
        FROM api_keys
        WHERE token_hash = $1
    `
	var rec model.KeyRecord
	err := r.pool.QueryRow(ctx, q, hash).Scan(
		&rec.TokenHash,
		&rec.Plan,
		&rec.Status,
		&rec.Email,
		&rec.StripeCustomerID,
		&rec.StripeSubscriptionID,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch key by hash: %w", err)
	}
	return &rec, nil
}

func (r *keyRepo) Insert(ctx context.Context, rec *model.KeyRecord) error {
	const q = `
        INSERT INTO api_keys (token_hash, plan, status, email, stripe_customer_id, stripe_subscription_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q,
		rec.TokenHash, rec.Plan, rec.Status, rec.Email, rec.StripeCustomerID, rec.StripeSubscriptionID,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

func (r *keyRepo) UpdateStatusBySubscription(ctx context.Context, customerID, subscriptionID, status string) error {
	const q = `
        UPDATE api_keys
        SET status = $3, updated_at = NOW()
        WHERE stripe_customer_id = $1 AND stripe_subscription_id = $2
    `
	if _, err := r.pool.Exec(ctx, q, customerID, subscriptionID, status); err != nil {
		return fmt.Errorf("update key status for subscription %s: %w", subscriptionID, err)
	}
	return nil
}
