package aggregator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bartoszk747-code/trend/internal/models"
	"github.com/bartoszk747-code/trend/internal/sources"
)

// Aggregator fans a query out to the requested marketplace sources and
// merges the raw results. It performs no filtering and no deduplication;
// its only normalization is repairing relative listing URLs.
type Aggregator struct {
	registry      *sources.Registry
	sourceTimeout time.Duration
}

// New creates an Aggregator. sourceTimeout bounds each individual source
// call so one slow marketplace cannot stall the batch; zero disables the
// per-source deadline.
func New(registry *sources.Registry, sourceTimeout time.Duration) *Aggregator {
	return &Aggregator{
		registry:      registry,
		sourceTimeout: sourceTimeout,
	}
}

// Aggregate queries every recognized site in sites concurrently and returns
// the union of their listings. Results are concatenated in the canonical
// site order regardless of input order or completion order, so repeated
// runs are reproducible. A failing or timed-out source contributes zero
// results and never aborts its siblings.
func (a *Aggregator) Aggregate(ctx context.Context, query string, sites []models.Site, limit int) []models.Listing {
	requested := make(map[models.Site]bool, len(sites))
	for _, site := range sites {
		requested[site] = true
	}

	// Fixed iteration order; unrecognized site names are silently skipped.
	var order []models.Site
	for _, site := range sources.CanonicalOrder() {
		if requested[site] {
			if _, ok := a.registry.Get(site); ok {
				order = append(order, site)
			}
		}
	}

	results := make([][]models.Listing, len(order))
	var wg sync.WaitGroup

	for i, site := range order {
		src, _ := a.registry.Get(site)

		wg.Add(1)
		go func(slot int, src sources.Source) {
			defer wg.Done()

			callCtx := ctx
			if a.sourceTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, a.sourceTimeout)
				defer cancel()
			}

			listings, err := src.Search(callCtx, query, sources.Filters{}, limit)
			if err != nil {
				log.Warn().
					Err(err).
					Str("site", string(src.Name())).
					Str("query", query).
					Msg("Source unavailable, skipping")
				return
			}
			results[slot] = listings
		}(i, src)
	}

	wg.Wait()

	var merged []models.Listing
	for _, listings := range results {
		merged = append(merged, listings...)
	}

	for i := range merged {
		repairURL(&merged[i])
	}

	return merged
}

// repairURL prefixes the site's base domain onto relative listing URLs.
// Absolute URLs and missing URLs are left untouched.
func repairURL(l *models.Listing) {
	if l.URL == "" || hasScheme(l.URL) {
		return
	}
	base := sources.BaseURL(l.Site)
	if base == "" {
		return
	}
	if !strings.HasPrefix(l.URL, "/") {
		l.URL = base + "/" + l.URL
		return
	}
	l.URL = base + l.URL
}

func hasScheme(rawURL string) bool {
	i := strings.Index(rawURL, "://")
	if i <= 0 {
		return false
	}
	// The part before "://" must look like a scheme, not a path segment.
	return !strings.ContainsAny(rawURL[:i], "/?#")
}
