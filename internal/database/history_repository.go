package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/farecast/farecast-go/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// HistoryRepository handles database operations for price snapshots.
// Snapshots are append-only; rows are never updated after insertion.
type HistoryRepository struct {
	pool DatabasePool
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(pool DatabasePool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Insert stores one price snapshot.
func (r *HistoryRepository) Insert(ctx context.Context, snapshot *models.PriceSnapshot) error {
	query := `
		INSERT INTO price_snapshots
			(id, origin, destination, departure_date, search_date, days_until_departure,
			 min_price, avg_price, max_price, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.Origin,
		snapshot.Destination,
		snapshot.DepartureDate,
		snapshot.SearchDate,
		snapshot.DaysUntilDeparture,
		snapshot.MinPrice,
		snapshot.AvgPrice,
		snapshot.MaxPrice,
		snapshot.Currency,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price snapshot: %w", err)
	}

	return nil
}

// QueryRoute returns all snapshots for an exact (origin, destination,
// departure date) ordered by days-until-departure ascending, for trend
// visualization.
func (r *HistoryRepository) QueryRoute(ctx context.Context, origin, destination string, departureDate time.Time) ([]models.PriceSnapshot, error) {
	query := `
		SELECT id, origin, destination, departure_date, search_date, days_until_departure,
		       min_price, avg_price, max_price, currency, created_at
		FROM price_snapshots
		WHERE origin = $1 AND destination = $2 AND departure_date = $3
		ORDER BY days_until_departure ASC
	`

	rows, err := r.pool.Query(ctx, query, origin, destination, departureDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query price snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.PriceSnapshot
	for rows.Next() {
		var s models.PriceSnapshot
		if err := rows.Scan(
			&s.ID,
			&s.Origin,
			&s.Destination,
			&s.DepartureDate,
			&s.SearchDate,
			&s.DaysUntilDeparture,
			&s.MinPrice,
			&s.AvgPrice,
			&s.MaxPrice,
			&s.Currency,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price snapshots: %w", err)
	}

	return snapshots, nil
}

// MinPriceForDate returns the lowest recorded minimum price for an exact
// departure date in the given currency. The boolean is false when no
// snapshot exists for that date.
func (r *HistoryRepository) MinPriceForDate(ctx context.Context, origin, destination string, departureDate time.Time, currency string) (decimal.Decimal, bool, error) {
	query := `
		SELECT MIN(min_price)
		FROM price_snapshots
		WHERE origin = $1 AND destination = $2 AND departure_date = $3 AND currency = $4
	`

	var min *decimal.Decimal
	err := r.pool.QueryRow(ctx, query, origin, destination, departureDate, currency).Scan(&min)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && min == nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to query minimum price: %w", err)
	}

	return *min, true, nil
}

// PruneOlderThan deletes snapshots whose search date precedes the cutoff.
// Returns the number of rows removed.
func (r *HistoryRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM price_snapshots WHERE search_date < $1",
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune price snapshots: %w", err)
	}

	return result.RowsAffected(), nil
}
