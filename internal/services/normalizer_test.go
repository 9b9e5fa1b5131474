package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farecast/farecast-go/internal/models"
	"github.com/farecast/farecast-go/internal/providers"
)

func baseSearchParams() models.SearchParams {
	return models.SearchParams{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Travelers:     1,
		Cabin:         models.CabinEconomy,
		Currency:      "USD",
	}
}

func TestNormalizeOffer_CompleteOffer(t *testing.T) {
	raw := providers.RawOffer{
		Provider:     "amadeus",
		CarrierCode:  "6e",
		FlightNumber: "123",
		Airline:      "IndiGo",
		Departure:    "2026-10-15T08:30:00Z",
		Arrival:      "2026-10-15T10:45:00Z",
		Duration:     "PT2H15M",
		Price:        json.Number("189.50"),
		Currency:     "usd",
		BookingURL:   "https://example.com/book/1",
	}

	offer, ok := NormalizeOffer(raw, baseSearchParams())
	require.True(t, ok)

	assert.Equal(t, "6E", offer.CarrierCode)
	assert.Equal(t, "123", offer.FlightNumber)
	assert.Equal(t, "IndiGo", offer.Airline)
	assert.Equal(t, "2h 15m", offer.Duration)
	assert.Equal(t, 0, offer.Stops)
	assert.True(t, offer.Nonstop())
	assert.Equal(t, "189.5", offer.Price.String())
	assert.Equal(t, "USD", offer.Currency)
	assert.Equal(t, "amadeus", offer.Provider)
}

func TestNormalizeOffer_FieldsDerivedFromSegments(t *testing.T) {
	raw := providers.RawOffer{
		Provider: "duffel",
		Segments: []providers.RawSegment{
			{CarrierCode: "BA", FlightNumber: "142", Departure: "2026-10-15 08:30", Arrival: "2026-10-15 11:00"},
			{CarrierCode: "BA", FlightNumber: "507", Departure: "2026-10-15 12:30", Arrival: "2026-10-15 15:10"},
		},
		DurationMinutes: 400,
		Price:           json.Number("420"),
	}

	offer, ok := NormalizeOffer(raw, baseSearchParams())
	require.True(t, ok)

	assert.Equal(t, "BA", offer.CarrierCode)
	assert.Equal(t, "142", offer.FlightNumber)
	assert.Equal(t, 1, offer.Stops)
	assert.False(t, offer.Nonstop())
	assert.Equal(t, "6h 40m", offer.Duration)
	// Currency falls back to the search currency.
	assert.Equal(t, "USD", offer.Currency)
	// Airline display name falls back to the carrier code.
	assert.Equal(t, "BA", offer.Airline)
	assert.Equal(t, "2026-10-15T08:30:00Z", offer.DepartureAt.Format(time.RFC3339))
	assert.Equal(t, "2026-10-15T15:10:00Z", offer.ArrivalAt.Format(time.RFC3339))
}

func TestNormalizeOffer_DurationFallsBackToSchedule(t *testing.T) {
	raw := providers.RawOffer{
		CarrierCode:  "LH",
		FlightNumber: "760",
		Departure:    "2026-10-15T01:00:00Z",
		Arrival:      "2026-10-15T09:05:00Z",
		Price:        json.Number("633.10"),
	}

	offer, ok := NormalizeOffer(raw, baseSearchParams())
	require.True(t, ok)
	assert.Equal(t, "8h 5m", offer.Duration)
}

func TestNormalizeOffer_DropsMalformedOffers(t *testing.T) {
	tests := []struct {
		name string
		raw  providers.RawOffer
	}{
		{
			name: "missing carrier and segments",
			raw: providers.RawOffer{
				FlightNumber: "123",
				Departure:    "2026-10-15T08:30:00Z",
				Arrival:      "2026-10-15T10:45:00Z",
				Price:        json.Number("100"),
			},
		},
		{
			name: "missing flight number",
			raw: providers.RawOffer{
				CarrierCode: "6E",
				Departure:   "2026-10-15T08:30:00Z",
				Arrival:     "2026-10-15T10:45:00Z",
				Price:       json.Number("100"),
			},
		},
		{
			name: "unparseable departure timestamp",
			raw: providers.RawOffer{
				CarrierCode:  "6E",
				FlightNumber: "123",
				Departure:    "next tuesday",
				Arrival:      "2026-10-15T10:45:00Z",
				Price:        json.Number("100"),
			},
		},
		{
			name: "missing arrival",
			raw: providers.RawOffer{
				CarrierCode:  "6E",
				FlightNumber: "123",
				Departure:    "2026-10-15T08:30:00Z",
				Price:        json.Number("100"),
			},
		},
		{
			name: "unparseable price",
			raw: providers.RawOffer{
				CarrierCode:  "6E",
				FlightNumber: "123",
				Departure:    "2026-10-15T08:30:00Z",
				Arrival:      "2026-10-15T10:45:00Z",
				Price:        json.Number("about 100"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := NormalizeOffer(tc.raw, baseSearchParams())
			assert.False(t, ok)
		})
	}
}

func TestNormalizeOffer_NonPositivePriceSurvivesNormalization(t *testing.T) {
	// A present-but-free price is a normalizer success and a dedup
	// filter case, so the two failure modes stay distinguishable.
	raw := providers.RawOffer{
		CarrierCode:  "6E",
		FlightNumber: "123",
		Departure:    "2026-10-15T08:30:00Z",
		Arrival:      "2026-10-15T10:45:00Z",
		Price:        json.Number("0"),
	}

	offer, ok := NormalizeOffer(raw, baseSearchParams())
	require.True(t, ok)
	assert.True(t, offer.Price.IsZero())
}

func TestNormalizeBatch_SkipsOnlyUnusableOffers(t *testing.T) {
	batch := providers.Batch{
		Provider: "amadeus",
		Offers: []providers.RawOffer{
			{
				CarrierCode:  "6E",
				FlightNumber: "123",
				Departure:    "2026-10-15T08:30:00Z",
				Arrival:      "2026-10-15T10:45:00Z",
				Price:        json.Number("200"),
			},
			{FlightNumber: "999"}, // malformed, dropped
			{
				CarrierCode:  "AI",
				FlightNumber: "441",
				Departure:    "2026-10-15T09:00:00Z",
				Arrival:      "2026-10-15T11:20:00Z",
				Price:        json.Number("175"),
			},
		},
	}

	offers := NormalizeBatch(batch, baseSearchParams())
	require.Len(t, offers, 2)
	assert.Equal(t, "6E", offers[0].CarrierCode)
	assert.Equal(t, "AI", offers[1].CarrierCode)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"PT2H15M", 135, true},
		{"PT45M", 45, true},
		{"PT3H", 180, true},
		{"pt1h5m", 65, true},
		{"2h15m", 0, false},
		{"PT", 0, false},
		{"PTXM", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			minutes, ok := parseISODuration(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.minutes, minutes)
			}
		})
	}
}
