package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is one append-only record of the price distribution
// observed by a completed search that yielded at least one offer.
type PriceSnapshot struct {
	ID                 string          `json:"id" db:"id"`
	Origin             string          `json:"origin" db:"origin"`
	Destination        string          `json:"destination" db:"destination"`
	DepartureDate      time.Time       `json:"departure_date" db:"departure_date"`
	SearchDate         time.Time       `json:"search_date" db:"search_date"`
	DaysUntilDeparture int             `json:"days_until_departure" db:"days_until_departure"`
	MinPrice           decimal.Decimal `json:"min_price" db:"min_price"`
	AvgPrice           decimal.Decimal `json:"avg_price" db:"avg_price"`
	MaxPrice           decimal.Decimal `json:"max_price" db:"max_price"`
	Currency           string          `json:"currency" db:"currency"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

// SeasonalBucket accumulates far-vs-near price observations for one
// (origin, destination, departure month) triple. Counters only grow;
// rows are removed wholesale by retention, never decremented.
type SeasonalBucket struct {
	Origin      string          `json:"origin" db:"origin"`
	Destination string          `json:"destination" db:"destination"`
	Month       int             `json:"month" db:"month"`
	TotalPoints int64           `json:"total_points" db:"total_points"`
	FarSum      decimal.Decimal `json:"far_sum" db:"far_sum"`
	FarCount    int64           `json:"far_count" db:"far_count"`
	NearSum     decimal.Decimal `json:"near_sum" db:"near_sum"`
	NearCount   int64           `json:"near_count" db:"near_count"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
