package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalRepository_RecordObservationFarWindow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))
	avg := decimal.NewFromInt(200)

	mockPool.ExpectExec("INSERT INTO seasonal_buckets").
		WithArgs("DEL", "BOM", 10, avg, int64(1), decimal.Zero, int64(0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.RecordObservation(context.Background(), "DEL", "BOM", 10, WindowFar, avg)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSeasonalRepository_RecordObservationNearWindow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))
	avg := decimal.NewFromInt(260)

	mockPool.ExpectExec("INSERT INTO seasonal_buckets").
		WithArgs("DEL", "BOM", 12, decimal.Zero, int64(0), avg, int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.RecordObservation(context.Background(), "DEL", "BOM", 12, WindowNear, avg)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSeasonalRepository_RecordObservationInvalidWindow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))

	err = repo.RecordObservation(context.Background(), "DEL", "BOM", 10, ObservationWindow(99), decimal.NewFromInt(200))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown observation window")
}

func TestSeasonalRepository_RecordObservationError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectExec("INSERT INTO seasonal_buckets").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("deadlock detected"))

	err = repo.RecordObservation(context.Background(), "DEL", "BOM", 10, WindowFar, decimal.NewFromInt(200))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record seasonal observation")
}

func TestSeasonalRepository_GetFreshBucket(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"origin", "destination", "month", "total_points",
		"far_sum", "far_count", "near_sum", "near_count", "updated_at",
	}).AddRow("DEL", "BOM", 10, int64(8),
		decimal.NewFromInt(1000), int64(5), decimal.NewFromInt(690), int64(3), updated)

	mockPool.ExpectQuery("SELECT (.+) FROM seasonal_buckets").
		WithArgs("DEL", "BOM", 10, cutoff).
		WillReturnRows(rows)

	bucket, found, err := repo.GetFreshBucket(context.Background(), "DEL", "BOM", 10, cutoff)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(8), bucket.TotalPoints)
	assert.Equal(t, "1000", bucket.FarSum.String())
	assert.Equal(t, int64(3), bucket.NearCount)
}

func TestSeasonalRepository_GetFreshBucketMissing(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery("SELECT (.+) FROM seasonal_buckets").
		WithArgs("DEL", "BOM", 10, cutoff).
		WillReturnRows(pgxmock.NewRows([]string{
			"origin", "destination", "month", "total_points",
			"far_sum", "far_count", "near_sum", "near_count", "updated_at",
		}))

	bucket, found, err := repo.GetFreshBucket(context.Background(), "DEL", "BOM", 10, cutoff)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, bucket)
}

func TestSeasonalRepository_PruneOlderThan(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewSeasonalRepository(NewMockPoolAdapter(mockPool))
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectExec("DELETE FROM seasonal_buckets").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := repo.PruneOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
