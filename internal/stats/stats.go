package stats

import (
	"math"

	"github.com/bartoszk747-code/trend/internal/models"
)

// Compute summarizes a listing set: total count, per-site counts, per-site
// and overall average prices, and the cheapest listing.
//
// Averages only include strictly positive prices; a site with no such
// listings is absent from the per-site average map rather than zero. The
// cheapest search instead considers every known price, including zero or
// negative ones. The two filters are intentionally different.
func Compute(listings []models.Listing) models.Stats {
	s := models.Stats{
		Total:          len(listings),
		BySite:         make(map[models.Site]int),
		AvgPriceBySite: make(map[models.Site]float64),
	}

	sums := make(map[models.Site]float64)
	counts := make(map[models.Site]int)
	var overallSum float64
	var overallCount int

	for i := range listings {
		l := &listings[i]
		s.BySite[l.Site]++

		if l.Price != nil && *l.Price > 0 {
			sums[l.Site] += *l.Price
			counts[l.Site]++
			overallSum += *l.Price
			overallCount++
		}

		if l.Price != nil {
			if s.Cheapest == nil || *l.Price < *s.Cheapest.Price {
				s.Cheapest = &listings[i]
			}
		}
	}

	for site, count := range counts {
		s.AvgPriceBySite[site] = round2(sums[site] / float64(count))
	}
	if overallCount > 0 {
		avg := round2(overallSum / float64(overallCount))
		s.AvgPriceOverall = &avg
	}

	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
