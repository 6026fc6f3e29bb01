package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bartoszk747-code/trend/internal/aggregator"
	"github.com/bartoszk747-code/trend/internal/analytics"
	"github.com/bartoszk747-code/trend/internal/filter"
	"github.com/bartoszk747-code/trend/internal/models"
	"github.com/bartoszk747-code/trend/internal/services"
	"github.com/bartoszk747-code/trend/internal/sources"
	"github.com/bartoszk747-code/trend/internal/stats"
	"github.com/bartoszk747-code/trend/internal/watch"
)

type SearchHandler struct {
	agg      *aggregator.Aggregator
	registry *sources.Registry
	limit    int
}

func NewSearchHandler(agg *aggregator.Aggregator, registry *sources.Registry, defaultLimit int) *SearchHandler {
	return &SearchHandler{agg: agg, registry: registry, limit: defaultLimit}
}

type searchResponse struct {
	Query    string                           `json:"query"`
	Listings []models.Listing                 `json:"listings"`
	BySite   map[models.Site][]models.Listing `json:"by_site"`
	Stats    models.Stats                     `json:"stats"`
}

// Search runs an ad-hoc aggregated search.
// GET /api/v1/search?q=&sites=grailed,depop&limit=20&tags=y2k,vintage&max_price=50
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	sites := parseSites(r.URL.Query().Get("sites"))
	if len(sites) == 0 {
		sites = h.registry.Sites()
	}

	limit := h.limit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	tags := parseList(r.URL.Query().Get("tags"))
	maxPrice := parsePrice(r.URL.Query().Get("max_price"))

	listings := h.agg.Aggregate(r.Context(), query, sites, limit)
	listings = filter.Apply(listings, tags, maxPrice)

	bySite := make(map[models.Site][]models.Listing)
	for _, l := range listings {
		bySite[l.Site] = append(bySite[l.Site], l)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searchResponse{
		Query:    query,
		Listings: listings,
		BySite:   bySite,
		Stats:    stats.Compute(listings),
	})
}

type WatchHandler struct {
	store    *watch.Store
	analyzer *analytics.Analyzer
	charts   *services.ChartService
}

func NewWatchHandler(store *watch.Store, analyzer *analytics.Analyzer, charts *services.ChartService) *WatchHandler {
	return &WatchHandler{store: store, analyzer: analyzer, charts: charts}
}

type createWatchRequest struct {
	Query    string        `json:"query"`
	Tags     []string      `json:"tags"`
	MaxPrice *float64      `json:"max_price"`
	Sites    []models.Site `json:"sites"`
}

// Create registers a new watch rule.
// POST /api/v1/watches
func (h *WatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rule, err := h.store.Create(req.Query, req.Tags, req.MaxPrice, req.Sites)
	if err != nil {
		var verr *watch.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Reason, http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create watch rule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rule)
}

// List returns all watch rules.
// GET /api/v1/watches
func (h *WatchHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.List())
}

// Get returns one watch rule.
// GET /api/v1/watches/{id}
func (h *WatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	rule, err := h.store.Get(id)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rule)
}

type updateWatchRequest struct {
	Query    string        `json:"query"`
	Tags     *[]string     `json:"tags"`
	MaxPrice *float64      `json:"max_price"`
	Sites    []models.Site `json:"sites"`
}

// Update applies a partial edit to a rule. Blank fields stay unchanged; a
// supplied tags array always replaces the tag set, so [] clears it.
// PUT /api/v1/watches/{id}
func (h *WatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	var req updateWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rule, err := h.store.Update(id, watch.UpdateParams{
		Query:    req.Query,
		Tags:     req.Tags,
		MaxPrice: req.MaxPrice,
		Sites:    req.Sites,
	})
	if err != nil {
		if errors.Is(err, watch.ErrNotFound) {
			http.Error(w, "Watch rule not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update watch rule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rule)
}

// Matches re-evaluates a rule live and returns the filtered listings.
// GET /api/v1/watches/{id}/matches
func (h *WatchHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	matches, err := h.store.Evaluate(r.Context(), id)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// Check re-evaluates a rule and returns only the not-yet-seen matches,
// marking them seen.
// POST /api/v1/watches/{id}/check
func (h *WatchHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	matches, err := h.store.Evaluate(r.Context(), id)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}

	fresh, err := h.store.CheckNew(id, matches)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}
	if fresh == nil {
		fresh = []models.Listing{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matched": len(matches),
		"new":     fresh,
	})
}

// Trend returns the rule's trend report.
// GET /api/v1/watches/{id}/trend
func (h *WatchHandler) Trend(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), id)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// TrendChart renders the rule's trend report as a PNG line chart.
// GET /api/v1/watches/{id}/trend/chart.png
func (h *WatchHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), id)
	if err != nil {
		http.Error(w, "Watch rule not found", http.StatusNotFound)
		return
	}

	png, err := h.charts.RenderTrendPNG(report)
	if err != nil {
		http.Error(w, "Not enough data points for a chart", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func ruleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid watch rule ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseSites(raw string) []models.Site {
	var out []models.Site
	for _, s := range parseList(raw) {
		out = append(out, models.Site(s))
	}
	return out
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parsePrice treats unparsable numeric input as unset rather than failing
// the request.
func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
