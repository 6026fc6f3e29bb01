package analytics

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bartoszk747-code/trend/internal/models"
	"github.com/bartoszk747-code/trend/internal/watch"
)

// AverageProvider looks up the historical average price recorded for a
// query. The listing history archive implements it; lookups may fail or
// return nothing.
type AverageProvider interface {
	AveragePriceForQuery(ctx context.Context, query string) (*float64, error)
}

// Analyzer builds price trend reports from live rule evaluations.
type Analyzer struct {
	store   *watch.Store
	history AverageProvider
}

// NewAnalyzer creates an Analyzer. history may be nil when no archive is
// configured; reports then simply omit the historical average.
func NewAnalyzer(store *watch.Store, history AverageProvider) *Analyzer {
	return &Analyzer{store: store, history: history}
}

// Analyze re-evaluates the rule and derives its trend report.
func (a *Analyzer) Analyze(ctx context.Context, ruleID int64) (models.TrendReport, error) {
	rule, err := a.store.Get(ruleID)
	if err != nil {
		return models.TrendReport{}, err
	}

	matches := a.store.EvaluateRule(ctx, rule)
	return a.Build(ctx, rule, matches), nil
}

// Build derives a trend report from already-evaluated matches.
//
// Only listings with both a listing date and a price participate. Points
// whose normalized title equals the rule's normalized query form the main
// series; everything else is kept as comparison points but excluded from
// the velocity calculation.
func (a *Analyzer) Build(ctx context.Context, rule models.WatchRule, matches []models.Listing) models.TrendReport {
	report := models.TrendReport{
		RuleID: rule.ID,
		Query:  rule.Query,
		Points: []models.TrendPoint{},
	}

	mainTitle := normalizeTitle(rule.Query)

	var dated []models.Listing
	for _, l := range matches {
		if l.CreatedAt == nil || l.Price == nil {
			continue
		}
		dated = append(dated, l)
	}

	// Stable: same-date points keep their original relative order.
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].CreatedAt.Before(*dated[j].CreatedAt)
	})

	var mainPoints []models.TrendPoint
	for _, l := range dated {
		point := models.TrendPoint{
			Title:  l.Title,
			Date:   l.CreatedAt.UTC(),
			Price:  *l.Price,
			Site:   l.Site,
			IsMain: normalizeTitle(l.Title) == mainTitle,
		}
		report.Points = append(report.Points, point)
		if point.IsMain {
			mainPoints = append(mainPoints, point)
		}
	}
	report.MainCount = len(mainPoints)

	report.AvgChangePerWeek = changePerWeek(mainPoints)
	report.HistoricalAvg = a.historicalAvg(ctx, rule.Query)

	return report
}

// changePerWeek computes the price velocity between the first and last
// main-series points. Requires at least two points spanning at least one
// whole day; same-day series have no defined velocity.
func changePerWeek(mainPoints []models.TrendPoint) *float64 {
	if len(mainPoints) < 2 {
		return nil
	}

	first := mainPoints[0]
	last := mainPoints[len(mainPoints)-1]

	days := int(last.Date.Sub(first.Date).Hours() / 24)
	if days == 0 {
		return nil
	}

	weeks := float64(days) / 7.0
	if weeks <= 0 {
		return nil
	}

	change := math.Round((last.Price-first.Price)/weeks*100) / 100
	return &change
}

func (a *Analyzer) historicalAvg(ctx context.Context, query string) *float64 {
	if a.history == nil {
		return nil
	}
	avg, err := a.history.AveragePriceForQuery(ctx, query)
	if err != nil {
		// Degrade to unset; the lookup is a best-effort signal.
		log.Warn().Err(err).Str("query", query).Msg("Historical average lookup failed")
		return nil
	}
	return avg
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
