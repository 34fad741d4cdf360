package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository appends refreshed index scores for observability of the
// mirror. This is history logging, not a durability guarantee for the cache.
type SnapshotRepository interface {
	RecordScore(ctx context.Context, score float64, updatedAt string, at time.Time) error
}

type snapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepo creates a new SnapshotRepository.
func NewSnapshotRepo(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepo{pool: pool}
}

func (r *snapshotRepo) RecordScore(ctx context.Context, score float64, updatedAt string, at time.Time) error {
	const q = `
        INSERT INTO index_scores (score, source_updated_at, recorded_at)
        VALUES ($1, $2, $3)
    `
	if _, err := r.pool.Exec(ctx, q, score, updatedAt, at); err != nil {
		return fmt.Errorf("record index score: %w", err)
	}
	return nil
}
