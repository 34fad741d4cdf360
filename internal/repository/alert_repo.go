package repository

import (
	"context"
	"fmt"

	"indexapi/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AlertRepository defines methods for accessing alert subscriptions.
// Subscriptions are additive only; there is no update or delete path.
type AlertRepository interface {
	Insert(ctx context.Context, sub *model.AlertSubscription) error
	ListTelegramChatIDs(ctx context.Context) ([]string, error)
}

type alertRepo struct {
	pool *pgxpool.Pool
}

// NewAlertRepo creates a new AlertRepository.
func NewAlertRepo(pool *pgxpool.Pool) AlertRepository {
	return &alertRepo{pool: pool}
}

func (r *alertRepo) Insert(ctx context.Context, sub *model.AlertSubscription) error {
	const q = `
        INSERT INTO alert_subscriptions (key_hash, email, telegram_chat_id, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	err := r.pool.QueryRow(ctx, q, sub.KeyHash, sub.Email, sub.TelegramChatID).
		Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert alert subscription: %w", err)
	}
	return nil
}

func (r *alertRepo) ListTelegramChatIDs(ctx context.Context) ([]string, error) {
	const q = `
        SELECT DISTINCT telegram_chat_id
        FROM alert_subscriptions
        WHERE telegram_chat_id IS NOT NULL
    `
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list telegram chat ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan telegram chat id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list telegram chat ids: %w", err)
	}
	return ids, nil
}
