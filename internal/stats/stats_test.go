package stats

import (
	"testing"

	"github.com/bartoszk747-code/trend/internal/models"
)

func listing(site models.Site, price *float64) models.Listing {
	return models.Listing{Site: site, Title: "item", Price: price}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)

	if s.Total != 0 {
		t.Errorf("Total = %d, want 0", s.Total)
	}
	if len(s.BySite) != 0 {
		t.Errorf("BySite = %v, want empty", s.BySite)
	}
	if len(s.AvgPriceBySite) != 0 {
		t.Errorf("AvgPriceBySite = %v, want empty", s.AvgPriceBySite)
	}
	if s.AvgPriceOverall != nil {
		t.Errorf("AvgPriceOverall = %v, want nil", *s.AvgPriceOverall)
	}
	if s.Cheapest != nil {
		t.Errorf("Cheapest = %v, want nil", s.Cheapest)
	}
}

func TestComputeMixedSites(t *testing.T) {
	in := []models.Listing{
		listing(models.SiteGrailed, models.Float64(10)),
		listing(models.SiteGrailed, models.Float64(30)),
		listing(models.SiteDepop, nil),
	}

	s := Compute(in)

	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.BySite[models.SiteGrailed] != 2 || s.BySite[models.SiteDepop] != 1 {
		t.Errorf("BySite = %v", s.BySite)
	}
	if s.AvgPriceOverall == nil || *s.AvgPriceOverall != 20.0 {
		t.Errorf("AvgPriceOverall = %v, want 20.0", s.AvgPriceOverall)
	}
	if s.Cheapest == nil || *s.Cheapest.Price != 10 {
		t.Errorf("Cheapest = %v, want price 10", s.Cheapest)
	}

	countSum := 0
	for _, c := range s.BySite {
		countSum += c
	}
	if countSum != s.Total {
		t.Errorf("sum of BySite = %d, want %d", countSum, s.Total)
	}
}

func TestComputeSiteWithoutValidPricesOmitted(t *testing.T) {
	in := []models.Listing{
		listing(models.SiteGrailed, models.Float64(40)),
		listing(models.SiteDepop, nil),
		listing(models.SiteDepop, models.Float64(0)),
	}

	s := Compute(in)

	if _, ok := s.AvgPriceBySite[models.SiteDepop]; ok {
		t.Errorf("depop should be absent from AvgPriceBySite, got %v", s.AvgPriceBySite)
	}
	if got := s.AvgPriceBySite[models.SiteGrailed]; got != 40.0 {
		t.Errorf("grailed avg = %v, want 40.0", got)
	}
}

// The cheapest search considers any known price including zero, while the
// averages only count strictly positive prices.
func TestComputePriceFilterAsymmetry(t *testing.T) {
	in := []models.Listing{
		listing(models.SiteGrailed, models.Float64(0)),
		listing(models.SiteGrailed, models.Float64(50)),
	}

	s := Compute(in)

	if s.Cheapest == nil || *s.Cheapest.Price != 0 {
		t.Errorf("Cheapest = %v, want the zero-priced listing", s.Cheapest)
	}
	if s.AvgPriceOverall == nil || *s.AvgPriceOverall != 50.0 {
		t.Errorf("AvgPriceOverall = %v, want 50.0", s.AvgPriceOverall)
	}
}

func TestComputeCheapestTieKeepsFirst(t *testing.T) {
	first := listing(models.SiteGrailed, models.Float64(10))
	first.Title = "first"
	second := listing(models.SiteDepop, models.Float64(10))
	second.Title = "second"

	s := Compute([]models.Listing{first, second})

	if s.Cheapest == nil || s.Cheapest.Title != "first" {
		t.Errorf("Cheapest = %v, want the first-encountered listing", s.Cheapest)
	}
}

func TestComputeRounding(t *testing.T) {
	in := []models.Listing{
		listing(models.SiteGrailed, models.Float64(10)),
		listing(models.SiteGrailed, models.Float64(10)),
		listing(models.SiteGrailed, models.Float64(11)),
	}

	s := Compute(in)

	if got := s.AvgPriceBySite[models.SiteGrailed]; got != 10.33 {
		t.Errorf("grailed avg = %v, want 10.33", got)
	}
}

func TestComputeNoValidPricesAtAll(t *testing.T) {
	in := []models.Listing{
		listing(models.SiteGrailed, nil),
		listing(models.SiteDepop, nil),
	}

	s := Compute(in)

	if s.AvgPriceOverall != nil {
		t.Errorf("AvgPriceOverall = %v, want nil", *s.AvgPriceOverall)
	}
	if s.Cheapest != nil {
		t.Errorf("Cheapest = %v, want nil", s.Cheapest)
	}
}
