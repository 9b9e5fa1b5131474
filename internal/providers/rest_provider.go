package providers

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/farecast/farecast-go/internal/config"
	"github.com/farecast/farecast-go/internal/models"
)

// restProvider adapts one HTTP fare API to the Provider contract.
type restProvider struct {
	name   string
	client *authClient
}

// offersResponse is the common envelope of the fare search endpoints.
type offersResponse struct {
	Offers []RawOffer `json:"offers"`
}

// NewRESTProvider creates a provider backed by an HTTP fare API with
// client-credential token auth.
func NewRESTProvider(cfg config.ProviderConfig, timeout time.Duration) Provider {
	return &restProvider{
		name:   cfg.Name,
		client: newAuthClient(cfg.BaseURL, cfg.TokenPath, cfg.APIKey, cfg.APISecret, timeout),
	}
}

// FromConfig builds the enabled providers sorted by priority. The
// returned order is the provider-priority order used for dedup
// tie-breaks and the flex-date fallback chain.
func FromConfig(cfg config.ProvidersConfig) []Provider {
	adapters := make([]config.ProviderConfig, 0, len(cfg.Adapters))
	for _, a := range cfg.Adapters {
		if a.Enabled {
			adapters = append(adapters, a)
		}
	}
	sort.SliceStable(adapters, func(i, j int) bool {
		return adapters[i].Priority < adapters[j].Priority
	})

	timeout := cfg.SearchTimeoutDuration()
	providers := make([]Provider, 0, len(adapters))
	for _, a := range adapters {
		providers = append(providers, NewRESTProvider(a, timeout))
	}
	return providers
}

func (p *restProvider) Name() string {
	return p.name
}

func (p *restProvider) Search(ctx context.Context, params models.SearchParams) ([]RawOffer, error) {
	query := url.Values{}
	query.Set("origin", params.Origin)
	query.Set("destination", params.Destination)
	query.Set("departure_date", params.DepartureDate.Format("2006-01-02"))
	if params.ReturnDate != nil {
		query.Set("return_date", params.ReturnDate.Format("2006-01-02"))
	}
	query.Set("adults", strconv.Itoa(params.Travelers))
	query.Set("cabin", string(params.Cabin))
	query.Set("currency", params.Currency)

	var response offersResponse
	if err := p.client.getJSON(ctx, "/v1/flight-offers", query, &response); err != nil {
		return nil, err
	}

	offers := response.Offers
	for i := range offers {
		offers[i].Provider = p.name
	}
	return offers, nil
}
