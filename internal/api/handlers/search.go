package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/models"
	"github.com/farecast/farecast-go/internal/services"
)

// SearchRequest is the wire shape of a flight search request.
type SearchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date"`
	TripType      string `json:"trip_type"`
	Travelers     int    `json:"travelers"`
	Cabin         string `json:"cabin"`
	Currency      string `json:"currency"`
	FlexibleDates bool   `json:"flexible_dates"`
}

type SearchHandler struct {
	search *services.SearchService
	logger *logrus.Logger
}

func NewSearchHandler(search *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// Search handles POST /api/v1/flights/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	params, err := req.toParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.search.Search(c.Request.Context(), params)
	if err != nil {
		h.logger.WithError(err).Error("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (r *SearchRequest) toParams() (models.SearchParams, error) {
	departure, err := time.Parse("2006-01-02", r.DepartureDate)
	if err != nil {
		return models.SearchParams{}, errInvalidDate("departure_date")
	}

	params := models.SearchParams{
		Origin:        strings.ToUpper(strings.TrimSpace(r.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(r.Destination)),
		DepartureDate: departure,
		TripType:      models.TripOneWay,
		Travelers:     r.Travelers,
		Cabin:         models.CabinEconomy,
		Currency:      strings.ToUpper(r.Currency),
		FlexibleDates: r.FlexibleDates,
	}

	if r.ReturnDate != "" {
		ret, err := time.Parse("2006-01-02", r.ReturnDate)
		if err != nil {
			return models.SearchParams{}, errInvalidDate("return_date")
		}
		params.ReturnDate = &ret
		params.TripType = models.TripRoundTrip
	}
	if r.TripType != "" {
		params.TripType = models.TripType(r.TripType)
	}
	if r.Cabin != "" {
		params.Cabin = models.CabinClass(r.Cabin)
	}
	if params.Travelers <= 0 {
		params.Travelers = 1
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}

	return params, nil
}

type invalidDateError struct{ field string }

func errInvalidDate(field string) error { return &invalidDateError{field: field} }

func (e *invalidDateError) Error() string {
	return e.field + " must be formatted as YYYY-MM-DD"
}
