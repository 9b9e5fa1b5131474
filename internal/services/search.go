package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/models"
	"github.com/farecast/farecast-go/internal/providers"
)

// HistoryStore is the storage boundary of the search pipeline.
// Implemented by database.HistoryRepository.
type HistoryStore interface {
	Insert(ctx context.Context, snapshot *models.PriceSnapshot) error
	QueryRoute(ctx context.Context, origin, destination string, departureDate time.Time) ([]models.PriceSnapshot, error)
}

// persistTimeout bounds the post-response history write and seasonal
// update so a slow database cannot pin goroutines indefinitely.
const persistTimeout = 10 * time.Second

// SearchService orchestrates one fare search: provider fan-out,
// normalization, deduplication, statistics, the two advisors, and the
// blended recommendation. History and seasonal persistence happen off
// the critical path; their failure is logged and swallowed, never
// surfaced as a search failure.
type SearchService struct {
	providers   []providers.Provider
	history     HistoryStore
	seasonal    *SeasonalLearner
	fareCache   MinFareCache
	flexScanner *FlexDateScanner
	timeout     time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

// NewSearchService creates the search orchestrator.
func NewSearchService(provs []providers.Provider, history HistoryStore, seasonal *SeasonalLearner, fareCache MinFareCache, flexScanner *FlexDateScanner, timeout time.Duration, logger *logrus.Logger) *SearchService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SearchService{
		providers:   provs,
		history:     history,
		seasonal:    seasonal,
		fareCache:   fareCache,
		flexScanner: flexScanner,
		timeout:     timeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Search runs the full pipeline for one request. An empty aggregate
// result is a valid outcome: flights is empty, the model is null, no
// flex dates are produced, and nothing is persisted.
func (s *SearchService) Search(ctx context.Context, params models.SearchParams) (*models.SearchResponse, error) {
	if params.Origin == "" || params.Destination == "" || params.DepartureDate.IsZero() {
		return nil, fmt.Errorf("search requires origin, destination, and departure date")
	}

	response := &models.SearchResponse{
		Flights:       []models.FlightOffer{},
		FlexibleDates: []models.FlexDateEntry{},
		Meta:          params,
	}

	batches := providers.SearchAll(ctx, s.logger, s.providers, params, s.timeout)

	var normalized []models.FlightOffer
	for _, batch := range batches {
		normalized = append(normalized, NormalizeBatch(batch, params)...)
	}

	offers := DeduplicateOffers(normalized)
	if len(offers) == 0 {
		s.logger.WithFields(logrus.Fields{
			"origin":      params.Origin,
			"destination": params.Destination,
		}).Info("Search produced no usable offers")
		return response, nil
	}
	response.Flights = offers

	stats, err := ComputePriceStats(offers)
	if err != nil {
		return nil, err
	}

	days := DaysUntilDeparture(params.DepartureDate, s.now())
	heuristic := HeuristicAdvice(days, stats)

	seasonal := models.AdvisorSignal{
		Action:     models.ActionNoSignal,
		Confidence: noSignalConfidence,
		Reason:     reasonSeasonalNoData,
	}
	if s.seasonal != nil {
		seasonal = s.seasonal.Query(ctx, params.Origin, params.Destination, params.DepartureDate)
	}

	model := BlendAdvice(heuristic, seasonal, stats.Best)
	response.Model = &model

	if params.FlexibleDates && s.flexScanner != nil {
		response.FlexibleDates = s.flexScanner.Scan(ctx, params, stats.Min)
	}

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		s.persistOutcome(pctx, params, stats, days)
	}()

	return response, nil
}

// persistOutcome records the completed search: one append-only price
// snapshot, one seasonal observation, and the cached route minimum.
// Every failure here is soft.
func (s *SearchService) persistOutcome(ctx context.Context, params models.SearchParams, stats models.PriceStats, daysUntilDeparture int) {
	searchDate := s.now()

	if s.history != nil {
		snapshot := &models.PriceSnapshot{
			ID:                 uuid.NewString(),
			Origin:             params.Origin,
			Destination:        params.Destination,
			DepartureDate:      params.DepartureDate,
			SearchDate:         searchDate,
			DaysUntilDeparture: daysUntilDeparture,
			MinPrice:           stats.Min,
			AvgPrice:           stats.Avg,
			MaxPrice:           stats.Max,
			Currency:           params.Currency,
			CreatedAt:          searchDate,
		}
		if err := s.history.Insert(ctx, snapshot); err != nil {
			s.logger.WithError(err).Warn("Failed to write price snapshot")
		}
	}

	if s.seasonal != nil {
		if err := s.seasonal.Update(ctx, params.Origin, params.Destination, params.DepartureDate, daysUntilDeparture, stats.Avg); err != nil {
			s.logger.WithError(err).Warn("Failed to update seasonal bucket")
		}
	}

	if s.fareCache != nil {
		if err := s.fareCache.SetMinFare(ctx, params.Origin, params.Destination, params.DepartureDate, params.Currency, stats.Min); err != nil {
			s.logger.WithError(err).Debug("Failed to cache route minimum fare")
		}
	}
}
