package sources

import (
	"context"
	"strings"
	"time"

	"github.com/bartoszk747-code/trend/internal/models"
)

// facebookSource simulates Facebook Marketplace with a fixed set of BMW
// listings spanning several months with declining prices, so price-drop
// and trend features can be demonstrated deterministically.
type facebookSource struct{}

// NewFacebookSource returns the simulated Facebook Marketplace client.
func NewFacebookSource() Source {
	return facebookSource{}
}

func (facebookSource) Name() models.Site {
	return models.SiteFacebook
}

type fbSnapshot struct {
	id    string
	title string
	price float64
	date  string
}

// Hard-coded time series for three cars. created_at drives the trend graphs.
var fbSnapshots = []fbSnapshot{
	// 2007 BMW Z4M Coupe, price dropping over time
	{"fb-bmw-z4m-1-jan", "2007 BMW Z4 M Coupe · Manual · 120k miles", 22000, "2025-01-15T12:00:00Z"},
	{"fb-bmw-z4m-1-feb", "2007 BMW Z4 M Coupe · Manual · 120k miles", 20900, "2025-02-10T12:00:00Z"},
	{"fb-bmw-z4m-1-mar", "2007 BMW Z4 M Coupe · Manual · 120k miles", 19950, "2025-03-05T12:00:00Z"},

	// 2010 BMW X5 xDrive35d, longer time on market
	{"fb-bmw-x5d-1-dec", "2010 BMW X5 xDrive35d · Diesel · 150k miles", 11500, "2024-12-01T11:00:00Z"},
	{"fb-bmw-x5d-1-jan", "2010 BMW X5 xDrive35d · Diesel · 150k miles", 10800, "2025-01-10T11:00:00Z"},
	{"fb-bmw-x5d-1-feb", "2010 BMW X5 xDrive35d · Diesel · 150k miles", 9999, "2025-02-20T11:00:00Z"},

	// Another Z4 listing in a different city
	{"fb-bmw-z4m-2-jan", "2007 BMW Z4 M Coupe · Manual · 98k miles", 25500, "2025-01-03T13:00:00Z"},
	{"fb-bmw-z4m-2-mar", "2007 BMW Z4 M Coupe · Manual · 98k miles", 23900, "2025-03-12T13:00:00Z"},
	{"fb-bmw-z4m-2-apr", "2007 BMW Z4 M Coupe · Manual · 98k miles", 22900, "2025-04-05T13:00:00Z"},
}

func (facebookSource) Search(ctx context.Context, query string, filters Filters, limit int) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q := strings.ToLower(query)

	listings := make([]models.Listing, 0, len(fbSnapshots))
	for _, snap := range fbSnapshots {
		if q != "" &&
			!strings.Contains(strings.ToLower(snap.title), q) &&
			!strings.Contains("bmw", q) {
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, snap.date)
		if err != nil {
			continue
		}

		// The month suffix is a snapshot artifact; the item URL is stable.
		itemID := snap.id
		if i := strings.LastIndex(itemID, "-"); i > 0 {
			itemID = itemID[:i]
		}

		price := snap.price
		listings = append(listings, models.Listing{
			Site:      models.SiteFacebook,
			ListingID: snap.id,
			Title:     snap.title,
			Price:     &price,
			Currency:  "USD",
			URL:       "/marketplace/item/" + itemID,
			Brand:     "BMW",
			CreatedAt: &createdAt,
			ScrapedAt: now,
		})
		if limit > 0 && len(listings) >= limit {
			break
		}
	}

	return listings, nil
}
