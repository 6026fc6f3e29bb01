package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rs/zerolog/log"

	"github.com/bartoszk747-code/trend/internal/models"
	"github.com/bartoszk747-code/trend/pkg/marketplace"
)

// GrailedClient searches the unofficial Grailed listings API. The response
// shape is inconsistent between feed variants, so field parsing is tolerant
// and falls back to placeholders rather than dropping records.
type GrailedClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	shared     *marketplace.RateLimiter
}

// NewGrailedClient creates a Grailed client. shared may be nil when no
// redis-backed cross-process limit is configured; the local limiter still
// spaces requests out.
func NewGrailedClient(shared *marketplace.RateLimiter) *GrailedClient {
	return &GrailedClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: "https://www.grailed.com",
		// Keep a polite local floor of one request per 2s with a burst of 1
		// even when the shared limiter is absent.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		shared:  shared,
	}
}

func (c *GrailedClient) Name() models.Site {
	return models.SiteGrailed
}

type grailedListing struct {
	ID            json.Number `json:"id"`
	ObjectID      string      `json:"objectID"`
	Title         string      `json:"title"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price"`
	Currency      string      `json:"currency"`
	URL           string      `json:"url"`
	BrandName     string      `json:"brand_name"`
	DesignerName  string      `json:"designer_name"`
	Size          string      `json:"size"`
	SizeName      string      `json:"size_name"`
	Condition     string      `json:"condition"`
	ConditionName string      `json:"condition_name"`
	ImageURL      string      `json:"image_url"`
	PhotoURL      string      `json:"photo_url"`
	CreatedAt     string      `json:"created_at"`
}

type grailedResponse struct {
	Data []grailedListing `json:"data"`
}

func (c *GrailedClient) Search(ctx context.Context, query string, filters Filters, limit int) ([]models.Listing, error) {
	if c.shared != nil {
		if err := c.shared.WaitForTicket(ctx); err != nil {
			return nil, fmt.Errorf("grailed rate limit: %w", err)
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("grailed rate limit: %w", err)
	}

	q := query
	if filters.Brand != "" {
		q = filters.Brand + " " + query
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("hits_per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sold", "false")
	params.Set("on_sale", "true")
	if filters.MinPrice != nil {
		params.Set("price_from", strconv.Itoa(int(*filters.MinPrice)))
	}
	if filters.MaxPrice != nil {
		params.Set("price_to", strconv.Itoa(int(*filters.MaxPrice)))
	}

	reqURL := c.baseURL + "/api/listings?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MarketWatcher/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		errMsg := string(body)
		if len(errMsg) > 200 {
			errMsg = errMsg[:200] + "..."
		}
		return nil, fmt.Errorf("grailed API error (status %d): %s", resp.StatusCode, errMsg)
	}

	var response grailedResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	now := time.Now().UTC()
	out := make([]models.Listing, 0, len(response.Data))
	for _, item := range response.Data {
		out = append(out, c.normalize(item, now))
	}

	log.Debug().Int("hits", len(out)).Str("query", q).Msg("Grailed search completed")
	return out, nil
}

// normalize maps one raw API record onto a Listing, tolerating missing or
// differently named fields.
func (c *GrailedClient) normalize(item grailedListing, scrapedAt time.Time) models.Listing {
	id := item.ID.String()
	if id == "" || id == "0" {
		id = item.ObjectID
	}

	title := firstNonEmpty(item.Title, item.Name)
	if title == "" {
		title = "Unknown"
	}

	var price *float64
	if p, err := item.Price.Float64(); err == nil && item.Price.String() != "" {
		price = &p
	}

	currency := item.Currency
	if currency == "" {
		currency = "USD"
	}

	var createdAt *time.Time
	if item.CreatedAt != "" {
		raw := strings.Replace(item.CreatedAt, "Z", "+00:00", 1)
		if t, err := time.Parse("2006-01-02T15:04:05-07:00", raw); err == nil {
			createdAt = &t
		}
	}

	return models.Listing{
		Site:      models.SiteGrailed,
		ListingID: id,
		Title:     title,
		Price:     price,
		Currency:  currency,
		URL:       item.URL,
		Brand:     firstNonEmpty(item.BrandName, item.DesignerName),
		Size:      firstNonEmpty(item.Size, item.SizeName),
		Condition: firstNonEmpty(item.Condition, item.ConditionName),
		ImageURL:  firstNonEmpty(item.ImageURL, item.PhotoURL),
		CreatedAt: createdAt,
		ScrapedAt: scrapedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
