package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/models"
)

// HistoryService serves the price-trend read path. It never fails the
// caller: a storage error is logged and an empty list returned, so "no
// data" and "lookup failed" have the same response shape but different
// log trails.
type HistoryService struct {
	store  HistoryStore
	logger *logrus.Logger
}

// NewHistoryService creates the history read service.
func NewHistoryService(store HistoryStore, logger *logrus.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger}
}

// RouteHistory returns all snapshots for an exact route and departure
// date ordered by days-until-departure ascending.
func (h *HistoryService) RouteHistory(ctx context.Context, origin, destination string, departureDate time.Time) []models.PriceSnapshot {
	snapshots, err := h.store.QueryRoute(ctx, origin, destination, departureDate)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
		}).WithError(err).Warn("History query failed, returning empty result")
		return []models.PriceSnapshot{}
	}
	if snapshots == nil {
		return []models.PriceSnapshot{}
	}
	return snapshots
}
