package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farecast/farecast-go/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// RouteHistory handles GET /api/v1/flights/history. Missing data is an
// empty list, never an error.
func (h *HistoryHandler) RouteHistory(c *gin.Context) {
	origin := strings.ToUpper(c.Query("origin"))
	destination := strings.ToUpper(c.Query("destination"))
	departureDateRaw := c.Query("departure_date")

	if origin == "" || destination == "" || departureDateRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin, destination, and departure_date are required"})
		return
	}

	departureDate, err := time.Parse("2006-01-02", departureDateRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date must be formatted as YYYY-MM-DD"})
		return
	}

	snapshots := h.history.RouteHistory(c.Request.Context(), origin, destination, departureDate)

	c.JSON(http.StatusOK, gin.H{
		"origin":         origin,
		"destination":    destination,
		"departure_date": departureDateRaw,
		"snapshots":      snapshots,
		"total":          len(snapshots),
	})
}
