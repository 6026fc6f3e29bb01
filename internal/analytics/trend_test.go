package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bartoszk747-code/trend/internal/models"
)

type stubProvider struct {
	avg *float64
	err error
}

func (p *stubProvider) AveragePriceForQuery(ctx context.Context, query string) (*float64, error) {
	return p.avg, p.err
}

func day(d int) *time.Time {
	t := time.Date(2026, time.January, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func datedListing(title string, d int, price float64) models.Listing {
	return models.Listing{
		Site:      models.SiteFacebook,
		ListingID: title,
		Title:     title,
		Price:     models.Float64(price),
		CreatedAt: day(d),
	}
}

func rule(query string) models.WatchRule {
	return models.WatchRule{ID: 1, Query: query, Sites: []models.Site{models.SiteFacebook}}
}

func TestBuildVelocity(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	// 100 -> 86 over 14 whole days is exactly -7.00 per week.
	report := a.Build(context.Background(), rule("bmw z4 m coupe"), []models.Listing{
		datedListing("BMW Z4 M Coupe", 1, 100),
		datedListing("BMW Z4 M Coupe", 15, 86),
	})

	if report.MainCount != 2 {
		t.Fatalf("MainCount = %d, want 2", report.MainCount)
	}
	if report.AvgChangePerWeek == nil || *report.AvgChangePerWeek != -7.0 {
		t.Errorf("AvgChangePerWeek = %v, want -7.0", report.AvgChangePerWeek)
	}
}

func TestBuildVelocityUnsetSameDay(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	report := a.Build(context.Background(), rule("bmw z4 m coupe"), []models.Listing{
		datedListing("BMW Z4 M Coupe", 1, 100),
		datedListing("BMW Z4 M Coupe", 1, 90),
	})

	if report.AvgChangePerWeek != nil {
		t.Errorf("AvgChangePerWeek = %v, want unset for a same-day series", *report.AvgChangePerWeek)
	}
}

func TestBuildVelocityUnsetSingleMainPoint(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	report := a.Build(context.Background(), rule("bmw z4 m coupe"), []models.Listing{
		datedListing("BMW Z4 M Coupe", 1, 100),
		datedListing("BMW X5 xDrive30d", 15, 86),
	})

	if report.MainCount != 1 {
		t.Fatalf("MainCount = %d, want 1", report.MainCount)
	}
	if report.AvgChangePerWeek != nil {
		t.Errorf("AvgChangePerWeek = %v, want unset with one main point", *report.AvgChangePerWeek)
	}
}

func TestBuildMainSeriesTitleMatching(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	// Case and surrounding whitespace do not matter; extra words do.
	report := a.Build(context.Background(), rule("  BMW Z4 M Coupe "), []models.Listing{
		datedListing("bmw z4 m coupe", 1, 100),
		datedListing("BMW Z4 M Coupe low miles", 2, 95),
	})

	if report.MainCount != 1 {
		t.Errorf("MainCount = %d, want 1", report.MainCount)
	}
	if len(report.Points) != 2 {
		t.Errorf("Points = %d, want both kept as points", len(report.Points))
	}
}

func TestBuildExcludesUndatedAndUnpriced(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	undated := models.Listing{Site: models.SiteDepop, Title: "no date", Price: models.Float64(10)}
	unpriced := models.Listing{Site: models.SiteDepop, Title: "no price", CreatedAt: day(3)}

	report := a.Build(context.Background(), rule("jacket"), []models.Listing{
		undated,
		unpriced,
		datedListing("jacket", 2, 50),
	})

	if len(report.Points) != 1 {
		t.Errorf("Points = %d, want 1", len(report.Points))
	}
}

func TestBuildChronologicalOrder(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	report := a.Build(context.Background(), rule("jacket"), []models.Listing{
		datedListing("jacket", 20, 80),
		datedListing("jacket", 5, 100),
		datedListing("jacket", 12, 90),
	})

	for i := 1; i < len(report.Points); i++ {
		if report.Points[i].Date.Before(report.Points[i-1].Date) {
			t.Fatalf("points out of order at %d: %v", i, report.Points)
		}
	}
	if report.Points[0].Price != 100 || report.Points[2].Price != 80 {
		t.Errorf("unexpected endpoint prices: %v", report.Points)
	}
}

func TestBuildEmptyMatches(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	report := a.Build(context.Background(), rule("jacket"), nil)

	if report.Points == nil {
		t.Error("Points should be an empty slice, not nil")
	}
	if report.MainCount != 0 || report.AvgChangePerWeek != nil {
		t.Errorf("unexpected report for empty matches: %+v", report)
	}
}

func TestBuildHistoricalAverage(t *testing.T) {
	a := NewAnalyzer(nil, &stubProvider{avg: models.Float64(123.45)})

	report := a.Build(context.Background(), rule("jacket"), nil)

	if report.HistoricalAvg == nil || *report.HistoricalAvg != 123.45 {
		t.Errorf("HistoricalAvg = %v, want 123.45", report.HistoricalAvg)
	}
}

func TestBuildHistoricalAverageLookupFailure(t *testing.T) {
	a := NewAnalyzer(nil, &stubProvider{err: errors.New("connection refused")})

	report := a.Build(context.Background(), rule("jacket"), []models.Listing{
		datedListing("jacket", 1, 100),
		datedListing("jacket", 15, 86),
	})

	if report.HistoricalAvg != nil {
		t.Errorf("HistoricalAvg = %v, want unset on lookup failure", *report.HistoricalAvg)
	}
	// The rest of the report is unaffected.
	if report.AvgChangePerWeek == nil || *report.AvgChangePerWeek != -7.0 {
		t.Errorf("AvgChangePerWeek = %v, want -7.0", report.AvgChangePerWeek)
	}
}
