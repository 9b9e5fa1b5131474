package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/farecast/farecast-go/internal/models"
)

// ObservationWindow classifies a price observation relative to departure.
type ObservationWindow int

const (
	// WindowFar covers observations made 30 or more days before departure.
	WindowFar ObservationWindow = iota
	// WindowNear covers observations made within 7 days of departure.
	WindowNear
)

// SeasonalRepository handles database operations for seasonal price
// buckets. All increments go through a single additive upsert so that
// concurrent searches for the same route and month never lose updates.
type SeasonalRepository struct {
	pool DatabasePool
}

// NewSeasonalRepository creates a new seasonal bucket repository.
func NewSeasonalRepository(pool DatabasePool) *SeasonalRepository {
	return &SeasonalRepository{pool: pool}
}

// RecordObservation atomically folds one price observation into the
// bucket for (origin, destination, month). The increment happens inside
// the upsert, never as a read-modify-write round trip.
func (r *SeasonalRepository) RecordObservation(ctx context.Context, origin, destination string, month int, window ObservationWindow, avgPrice decimal.Decimal) error {
	farSum, nearSum := decimal.Zero, decimal.Zero
	var farCount, nearCount int64
	switch window {
	case WindowFar:
		farSum, farCount = avgPrice, 1
	case WindowNear:
		nearSum, nearCount = avgPrice, 1
	default:
		return fmt.Errorf("unknown observation window: %d", window)
	}

	query := `
		INSERT INTO seasonal_buckets
			(origin, destination, month, total_points, far_sum, far_count, near_sum, near_count, updated_at)
		VALUES ($1, $2, $3, 1, $4, $5, $6, $7, NOW())
		ON CONFLICT (origin, destination, month)
		DO UPDATE SET
			total_points = seasonal_buckets.total_points + 1,
			far_sum = seasonal_buckets.far_sum + EXCLUDED.far_sum,
			far_count = seasonal_buckets.far_count + EXCLUDED.far_count,
			near_sum = seasonal_buckets.near_sum + EXCLUDED.near_sum,
			near_count = seasonal_buckets.near_count + EXCLUDED.near_count,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, origin, destination, month, farSum, farCount, nearSum, nearCount)
	if err != nil {
		return fmt.Errorf("failed to record seasonal observation: %w", err)
	}

	return nil
}

// GetFreshBucket returns the bucket for (origin, destination, month) if it
// was updated after the staleness cutoff. The boolean is false when no
// fresh bucket exists.
func (r *SeasonalRepository) GetFreshBucket(ctx context.Context, origin, destination string, month int, updatedAfter time.Time) (*models.SeasonalBucket, bool, error) {
	query := `
		SELECT origin, destination, month, total_points, far_sum, far_count, near_sum, near_count, updated_at
		FROM seasonal_buckets
		WHERE origin = $1 AND destination = $2 AND month = $3 AND updated_at >= $4
	`

	var b models.SeasonalBucket
	err := r.pool.QueryRow(ctx, query, origin, destination, month, updatedAfter).Scan(
		&b.Origin,
		&b.Destination,
		&b.Month,
		&b.TotalPoints,
		&b.FarSum,
		&b.FarCount,
		&b.NearSum,
		&b.NearCount,
		&b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query seasonal bucket: %w", err)
	}

	return &b, true, nil
}

// PruneOlderThan deletes buckets not updated since the cutoff. Retention
// is full-row deletion only; counters are never decremented.
func (r *SeasonalRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM seasonal_buckets WHERE updated_at < $1",
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune seasonal buckets: %w", err)
	}

	return result.RowsAffected(), nil
}
