package providers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farecast/farecast-go/internal/models"
)

// Batch is the outcome of querying one provider: its raw offers in
// provider-priority position, or nothing when the provider failed.
type Batch struct {
	Provider string
	Offers   []RawOffer
}

// SearchAll fans the search out to every provider concurrently and
// collects whichever succeed. A provider failure or timeout contributes
// an empty batch and never aborts the overall search. The returned
// batches preserve the given provider-priority order.
func SearchAll(ctx context.Context, log *logrus.Logger, provs []Provider, params models.SearchParams, timeout time.Duration) []Batch {
	batches := make([]Batch, len(provs))

	var wg sync.WaitGroup
	for i, p := range provs {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			offers, err := p.Search(pctx, params)
			if err != nil {
				log.WithFields(logrus.Fields{
					"provider":    p.Name(),
					"origin":      params.Origin,
					"destination": params.Destination,
				}).WithError(err).Warn("Provider search failed, treating as zero offers")
				batches[i] = Batch{Provider: p.Name()}
				return
			}
			batches[i] = Batch{Provider: p.Name(), Offers: offers}
		}(i, p)
	}
	wg.Wait()

	return batches
}

// FirstNonEmpty tries the providers in order and returns the first
// non-empty result. Failures and empty results fall through to the next
// provider; when the chain is exhausted it returns nil.
func FirstNonEmpty(ctx context.Context, log *logrus.Logger, provs []Provider, params models.SearchParams, timeout time.Duration) []RawOffer {
	for _, p := range provs {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		offers, err := p.Search(pctx, params)
		cancel()

		if err != nil {
			log.WithField("provider", p.Name()).WithError(err).Debug("Fallback provider failed, trying next")
			continue
		}
		if len(offers) > 0 {
			return offers
		}
	}
	return nil
}
