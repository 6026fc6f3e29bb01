package models

import (
	"time"
)

// Site identifies a marketplace source.
type Site string

const (
	SiteGrailed   Site = "grailed"
	SiteDepop     Site = "depop"
	SitePoshmark  Site = "poshmark"
	SiteMercariUS Site = "mercari_us"
	SiteFacebook  Site = "facebook_marketplace"
)

// Listing is a normalized marketplace item record. It is read-only after
// construction except for URL, which the aggregator may rewrite once to
// turn a relative path into an absolute URL.
type Listing struct {
	Site      Site       `json:"site" db:"site"`
	ListingID string     `json:"listing_id,omitempty" db:"listing_id"`
	Title     string     `json:"title" db:"title"`
	Price     *float64   `json:"price,omitempty" db:"price"`
	Currency  string     `json:"currency,omitempty" db:"currency"`
	URL       string     `json:"url,omitempty" db:"url"`
	Brand     string     `json:"brand,omitempty" db:"brand"`
	Size      string     `json:"size,omitempty" db:"size"`
	Condition string     `json:"condition,omitempty" db:"condition"`
	ImageURL  string     `json:"image_url,omitempty" db:"image_url"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	ScrapedAt time.Time  `json:"scraped_at" db:"scraped_at"`
}

// HasPrice reports whether the listing carries a known price.
func (l *Listing) HasPrice() bool {
	return l.Price != nil
}

// WatchRule is a saved search evaluated repeatedly against the sources.
// The per-rule "seen" set used for notification dedup is owned by the
// watch store and is not part of the serialized rule.
type WatchRule struct {
	ID       int64    `json:"id"`
	Query    string   `json:"query"`
	Tags     []string `json:"tags,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Sites    []Site   `json:"sites"`
}

// Stats summarizes a set of listings.
type Stats struct {
	Total           int              `json:"total"`
	BySite          map[Site]int     `json:"by_site"`
	AvgPriceBySite  map[Site]float64 `json:"avg_price_by_site"`
	AvgPriceOverall *float64         `json:"avg_price_overall,omitempty"`
	Cheapest        *Listing         `json:"cheapest,omitempty"`
}

// TrendPoint is a single chronological price observation. Points whose
// title matches the rule query exactly form the main series used for the
// price velocity calculation.
type TrendPoint struct {
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
	Site   Site      `json:"site"`
	IsMain bool      `json:"is_main"`
}

// TrendReport is the output of the trend analytics engine for one rule.
type TrendReport struct {
	RuleID           int64        `json:"rule_id"`
	Query            string       `json:"query"`
	Points           []TrendPoint `json:"points"`
	MainCount        int          `json:"main_count"`
	AvgChangePerWeek *float64     `json:"avg_change_per_week,omitempty"`
	HistoricalAvg    *float64     `json:"historical_avg,omitempty"`
}

// Float64 returns a pointer to v. Convenience for optional price fields.
func Float64(v float64) *float64 {
	return &v
}
