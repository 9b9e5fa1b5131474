package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CabinClass enumerates the bookable cabin classes.
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinPremium  CabinClass = "premium_economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// TripType distinguishes one-way from round-trip searches.
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// SearchParams represents one flight search as received from the HTTP layer.
type SearchParams struct {
	Origin        string     `json:"origin" form:"origin"`
	Destination   string     `json:"destination" form:"destination"`
	DepartureDate time.Time  `json:"departure_date" form:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty" form:"return_date"`
	TripType      TripType   `json:"trip_type" form:"trip_type"`
	Travelers     int        `json:"travelers" form:"travelers"`
	Cabin         CabinClass `json:"cabin" form:"cabin"`
	Currency      string     `json:"currency" form:"currency"`
	FlexibleDates bool       `json:"flexible_dates" form:"flexible_dates"`
}

// FlightOffer is the canonical, provider-neutral shape of one priced
// itinerary. Immutable once produced by the normalizer.
type FlightOffer struct {
	CarrierCode  string          `json:"carrier_code"`
	FlightNumber string          `json:"flight_number"`
	Airline      string          `json:"airline"`
	DepartureAt  time.Time       `json:"departure_at"`
	ArrivalAt    time.Time       `json:"arrival_at"`
	Duration     string          `json:"duration"`
	Stops        int             `json:"stops"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	BookingURL   string          `json:"booking_url,omitempty"`
	Provider     string          `json:"provider"`
}

// Nonstop reports whether the itinerary has no intermediate stops.
func (o *FlightOffer) Nonstop() bool {
	return o.Stops == 0
}

// DedupKey identifies the same physical flight across providers.
type DedupKey struct {
	CarrierCode  string
	FlightNumber string
	DepartureAt  time.Time
	ArrivalAt    time.Time
}

// Key builds the offer's deduplication identity.
func (o *FlightOffer) Key() DedupKey {
	return DedupKey{
		CarrierCode:  o.CarrierCode,
		FlightNumber: o.FlightNumber,
		DepartureAt:  o.DepartureAt,
		ArrivalAt:    o.ArrivalAt,
	}
}

// PriceStats summarizes the price distribution of a deduplicated result set.
type PriceStats struct {
	Min  decimal.Decimal `json:"min"`
	Avg  decimal.Decimal `json:"avg"`
	Max  decimal.Decimal `json:"max"`
	Best *FlightOffer    `json:"best"`
}

// FlexDateEntry is one alternate-date price comparison produced by the
// flexible-date scanner.
type FlexDateEntry struct {
	Date            time.Time       `json:"date"`
	OffsetDays      int             `json:"offset_days"`
	MinPrice        decimal.Decimal `json:"min_price"`
	Currency        string          `json:"currency"`
	CheaperThanBase bool            `json:"cheaper_than_base"`
}

// SearchResponse is the payload returned to the HTTP layer for one search.
type SearchResponse struct {
	Flights       []FlightOffer   `json:"flights"`
	Model         *AdviceResult   `json:"model"`
	FlexibleDates []FlexDateEntry `json:"flexible_dates"`
	Meta          SearchParams    `json:"meta"`
}
