package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetentionStore is the pruning boundary over both persisted tables.
type RetentionStore interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig defines the retention windows.
type RetentionConfig struct {
	SnapshotRetention time.Duration
	BucketStaleness   time.Duration
	Interval          time.Duration
}

// RetentionService periodically prunes aged price snapshots and stale
// seasonal buckets. Housekeeping runs on its own goroutine and never
// blocks the search read/update path.
type RetentionService struct {
	history  RetentionStore
	seasonal RetentionStore
	config   RetentionConfig
	logger   *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRetentionService creates a retention service over the history and
// seasonal stores.
func NewRetentionService(history, seasonal RetentionStore, config RetentionConfig, logger *logrus.Logger) *RetentionService {
	if config.SnapshotRetention <= 0 {
		config.SnapshotRetention = 90 * 24 * time.Hour
	}
	if config.BucketStaleness <= 0 {
		config.BucketStaleness = 180 * 24 * time.Hour
	}
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RetentionService{
		history:  history,
		seasonal: seasonal,
		config:   config,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins periodic pruning, with one immediate pass.
func (r *RetentionService) Start() {
	r.logger.WithFields(logrus.Fields{
		"snapshot_retention": r.config.SnapshotRetention.String(),
		"bucket_staleness":   r.config.BucketStaleness.String(),
		"interval":           r.config.Interval.String(),
	}).Info("Starting retention service")

	go func() {
		r.RunOnce()

		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.RunOnce()
			}
		}
	}()
}

// Stop stops the retention service.
func (r *RetentionService) Stop() {
	r.logger.Info("Stopping retention service")
	r.cancel()
}

// RunOnce performs a single pruning pass. Failures are logged; the next
// tick retries.
func (r *RetentionService) RunOnce() {
	now := time.Now()

	if r.history != nil {
		removed, err := r.history.PruneOlderThan(r.ctx, now.Add(-r.config.SnapshotRetention))
		if err != nil {
			r.logger.WithError(err).Warn("Failed to prune price snapshots")
		} else if removed > 0 {
			r.logger.WithField("rows", removed).Info("Pruned aged price snapshots")
		}
	}

	if r.seasonal != nil {
		removed, err := r.seasonal.PruneOlderThan(r.ctx, now.Add(-r.config.BucketStaleness))
		if err != nil {
			r.logger.WithError(err).Warn("Failed to prune stale seasonal buckets")
		} else if removed > 0 {
			r.logger.WithField("rows", removed).Info("Pruned stale seasonal buckets")
		}
	}
}
