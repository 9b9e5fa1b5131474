package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/models"
	"github.com/farecast/farecast-go/internal/providers"
)

// flexOffsets is the fixed window of alternate departure dates, in
// ascending order so the emitted list is sorted by construction.
var flexOffsets = []int{-3, -2, -1, 1, 2, 3}

// MinFareCache is the fare-cache boundary of the flex-date scanner.
type MinFareCache interface {
	GetMinFare(ctx context.Context, origin, destination string, date time.Time, currency string) (decimal.Decimal, bool)
	SetMinFare(ctx context.Context, origin, destination string, date time.Time, currency string, minPrice decimal.Decimal) error
}

// HistoryMinReader resolves the lowest persisted price for an exact
// alternate date. Implemented by database.HistoryRepository.
type HistoryMinReader interface {
	MinPriceForDate(ctx context.Context, origin, destination string, departureDate time.Time, currency string) (decimal.Decimal, bool, error)
}

// FlexDateScanner produces alternate-date price comparisons around a
// searched departure date. Each offset resolves its minimum price from
// the fare cache, then persisted history, then a fresh provider query
// through the fallback chain; offsets with no data anywhere are
// omitted, not zero-filled.
type FlexDateScanner struct {
	history   HistoryMinReader
	fareCache MinFareCache
	providers []providers.Provider
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewFlexDateScanner creates a flexible-date scanner.
func NewFlexDateScanner(history HistoryMinReader, fareCache MinFareCache, provs []providers.Provider, timeout time.Duration, logger *logrus.Logger) *FlexDateScanner {
	return &FlexDateScanner{
		history:   history,
		fareCache: fareCache,
		providers: provs,
		timeout:   timeout,
		logger:    logger,
	}
}

// Scan emits one entry per offset day that yields data, sorted by
// offset ascending, each compared against the base search's minimum.
// All results are restricted to the base search's currency.
func (s *FlexDateScanner) Scan(ctx context.Context, params models.SearchParams, baseMin decimal.Decimal) []models.FlexDateEntry {
	entries := make([]models.FlexDateEntry, 0, len(flexOffsets))

	for _, offset := range flexOffsets {
		date := params.DepartureDate.AddDate(0, 0, offset)

		minPrice, ok := s.minPriceForDate(ctx, params, date)
		if !ok {
			continue
		}

		entries = append(entries, models.FlexDateEntry{
			Date:            date,
			OffsetDays:      offset,
			MinPrice:        minPrice,
			Currency:        params.Currency,
			CheaperThanBase: minPrice.LessThan(baseMin),
		})
	}

	return entries
}

func (s *FlexDateScanner) minPriceForDate(ctx context.Context, params models.SearchParams, date time.Time) (decimal.Decimal, bool) {
	if s.fareCache != nil {
		if price, ok := s.fareCache.GetMinFare(ctx, params.Origin, params.Destination, date, params.Currency); ok {
			return price, true
		}
	}

	if s.history != nil {
		price, found, err := s.history.MinPriceForDate(ctx, params.Origin, params.Destination, date, params.Currency)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"origin":      params.Origin,
				"destination": params.Destination,
				"date":        date.Format("2006-01-02"),
			}).WithError(err).Debug("History lookup failed for flex date, falling back to providers")
		} else if found {
			return price, true
		}
	}

	return s.queryProviders(ctx, params, date)
}

// queryProviders issues a fresh search for the alternate date through
// the ordered fallback chain and derives the minimum valid price in the
// base search's currency.
func (s *FlexDateScanner) queryProviders(ctx context.Context, params models.SearchParams, date time.Time) (decimal.Decimal, bool) {
	if len(s.providers) == 0 {
		return decimal.Zero, false
	}

	altParams := params
	altParams.DepartureDate = date
	altParams.FlexibleDates = false

	raw := providers.FirstNonEmpty(ctx, s.logger, s.providers, altParams, s.timeout)
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	offers := DeduplicateOffers(NormalizeBatch(providers.Batch{Offers: raw}, altParams))

	var min decimal.Decimal
	found := false
	for _, offer := range offers {
		if offer.Currency != params.Currency {
			continue
		}
		if !found || offer.Price.LessThan(min) {
			min = offer.Price
			found = true
		}
	}
	if !found {
		return decimal.Zero, false
	}

	if s.fareCache != nil {
		if err := s.fareCache.SetMinFare(ctx, params.Origin, params.Destination, date, params.Currency, min); err != nil {
			s.logger.WithError(err).Debug("Failed to cache flex date fare")
		}
	}

	return min, true
}
