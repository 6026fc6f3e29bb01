package sources

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bartoszk747-code/trend/internal/models"
)

// simulatedSource generates randomized listings in the style of a specific
// marketplace. It stands in for sites without a usable public API so the
// aggregator can be exercised end to end without network access.
type simulatedSource struct {
	site       models.Site
	idPrefix   string
	urlPattern string // relative path, repaired to absolute by the aggregator
	titles     map[string][]string
	brands     []string
	sizes      []string
	conditions []string
	priceMin   int
	priceMax   int
	maxAgeDays int

	mu  sync.Mutex
	rng *rand.Rand
}

func newSimulatedSource(site models.Site, seed int64) *simulatedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &simulatedSource{
		site: site,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *simulatedSource) Name() models.Site {
	return s.site
}

func (s *simulatedSource) Search(ctx context.Context, query string, filters Filters, limit int) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	templates := s.titles[""]
	if filters.Category != "" {
		if alt, ok := s.titles[filters.Category]; ok {
			templates = alt
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	listings := make([]models.Listing, 0, limit)
	for i := 0; i < limit; i++ {
		title := fmt.Sprintf(templates[s.rng.Intn(len(templates))], capitalize(query))
		price := float64(s.priceMin + s.rng.Intn(s.priceMax-s.priceMin+1))
		createdAt := now.AddDate(0, 0, -s.rng.Intn(s.maxAgeDays+1))
		id := fmt.Sprintf("%s-%d", s.idPrefix, i)

		listings = append(listings, models.Listing{
			Site:      s.site,
			ListingID: id,
			Title:     title,
			Price:     &price,
			Currency:  "USD",
			URL:       fmt.Sprintf(s.urlPattern, id),
			Brand:     s.brands[s.rng.Intn(len(s.brands))],
			Size:      s.sizes[s.rng.Intn(len(s.sizes))],
			Condition: s.conditions[s.rng.Intn(len(s.conditions))],
			CreatedAt: &createdAt,
			ScrapedAt: now,
		})
	}

	return listings, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
