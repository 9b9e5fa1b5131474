package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/database"
	"github.com/farecast/farecast-go/internal/models"
)

// SeasonalStore is the storage boundary of the seasonal learner.
// Implemented by database.SeasonalRepository; kept narrow so tests can
// mock it.
type SeasonalStore interface {
	RecordObservation(ctx context.Context, origin, destination string, month int, window database.ObservationWindow, avgPrice decimal.Decimal) error
	GetFreshBucket(ctx context.Context, origin, destination string, month int, updatedAfter time.Time) (*models.SeasonalBucket, bool, error)
}

// Evidence gates and classification thresholds for the seasonal model.
const (
	farWindowMinDays  = 30
	nearWindowMaxDays = 7

	minFarCount   = 2
	minNearCount  = 2
	minTotalCount = 6

	noSignalConfidence = 40
)

var (
	flatBand       = decimal.NewFromFloat(0.05)
	strongTrendCut = decimal.NewFromFloat(0.10)
)

const (
	reasonSeasonalNoData = "Not enough historical price observations for this route and month."
	reasonSeasonalFlat   = "Historical far-window and near-window prices for this route and month are flat."
	reasonSeasonalUp     = "Prices for this route historically rise as departure nears."
	reasonSeasonalDown   = "Prices for this route historically fall as departure nears."
)

// SeasonalLearner maintains the incremental far-vs-near price aggregates
// per (origin, destination, departure month) and derives a trend
// classification from them. No trained model is involved; "learning" is
// counter accumulation over historical observations.
type SeasonalLearner struct {
	store     SeasonalStore
	freshness time.Duration
	logger    *logrus.Logger
}

// NewSeasonalLearner creates a seasonal learner with the given
// freshness window (buckets older than this are ignored by queries).
func NewSeasonalLearner(store SeasonalStore, freshness time.Duration, logger *logrus.Logger) *SeasonalLearner {
	if freshness <= 0 {
		freshness = 180 * 24 * time.Hour
	}
	return &SeasonalLearner{
		store:     store,
		freshness: freshness,
		logger:    logger,
	}
}

// Update folds one completed search's average price into the bucket for
// the departure month. Observations made 30+ days out count as "far",
// within 7 days as "near"; anything strictly between is discarded for
// this model. The increment is a single atomic upsert at the storage
// layer so concurrent searches for the same route and month cannot lose
// updates.
func (l *SeasonalLearner) Update(ctx context.Context, origin, destination string, departureDate time.Time, daysUntilDeparture int, avgPrice decimal.Decimal) error {
	var window database.ObservationWindow
	switch {
	case daysUntilDeparture >= farWindowMinDays:
		window = database.WindowFar
	case daysUntilDeparture <= nearWindowMaxDays:
		window = database.WindowNear
	default:
		return nil
	}

	month := int(departureDate.Month())
	return l.store.RecordObservation(ctx, origin, destination, month, window, avgPrice)
}

// Query classifies the learned trend for (origin, destination,
// month-of-departure). Absent, stale, or thin buckets and degenerate
// statistics all downgrade to NO_SIGNAL rather than erroring.
func (l *SeasonalLearner) Query(ctx context.Context, origin, destination string, departureDate time.Time) models.AdvisorSignal {
	noSignal := models.AdvisorSignal{
		Action:     models.ActionNoSignal,
		Confidence: noSignalConfidence,
		Reason:     reasonSeasonalNoData,
	}

	month := int(departureDate.Month())
	cutoff := time.Now().Add(-l.freshness)

	bucket, found, err := l.store.GetFreshBucket(ctx, origin, destination, month, cutoff)
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
			"month":       month,
		}).WithError(err).Warn("Seasonal bucket lookup failed, returning no signal")
		return noSignal
	}
	if !found {
		return noSignal
	}

	if bucket.FarCount < minFarCount || bucket.NearCount < minNearCount || bucket.TotalPoints < minTotalCount {
		return noSignal
	}

	farAvg := bucket.FarSum.Div(decimal.NewFromInt(bucket.FarCount))
	nearAvg := bucket.NearSum.Div(decimal.NewFromInt(bucket.NearCount))
	if !farAvg.IsPositive() {
		return noSignal
	}

	relChange := nearAvg.Sub(farAvg).Div(farAvg)

	switch {
	case relChange.Abs().LessThan(flatBand):
		return models.AdvisorSignal{
			Action:     models.ActionNoSignal,
			Confidence: noSignalConfidence,
			Reason:     reasonSeasonalFlat,
		}
	case relChange.GreaterThan(strongTrendCut):
		return models.AdvisorSignal{Action: models.ActionBook, Confidence: 75, Reason: reasonSeasonalUp}
	case relChange.IsPositive():
		return models.AdvisorSignal{Action: models.ActionBook, Confidence: 65, Reason: reasonSeasonalUp}
	case relChange.LessThan(strongTrendCut.Neg()):
		return models.AdvisorSignal{Action: models.ActionWait, Confidence: 75, Reason: reasonSeasonalDown}
	default:
		return models.AdvisorSignal{Action: models.ActionWait, Confidence: 65, Reason: reasonSeasonalDown}
	}
}

// Trend reports the raw trend classification for a route and month, for
// diagnostic endpoints. It mirrors Query's thresholds.
func (l *SeasonalLearner) Trend(ctx context.Context, origin, destination string, departureDate time.Time) models.PriceTrend {
	signal := l.Query(ctx, origin, destination, departureDate)
	switch signal.Action {
	case models.ActionBook:
		return models.TrendUp
	case models.ActionWait:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}
