package sources

import (
	"github.com/bartoszk747-code/trend/internal/models"
)

// NewDepopSource simulates Depop search results. Depop listings lean on
// Y2K/vintage keywords and lower price points. Pass seed 0 for a
// time-based seed; a fixed seed makes output reproducible in tests.
func NewDepopSource(seed int64) Source {
	s := newSimulatedSource(models.SiteDepop, seed)
	s.idPrefix = "fake-depop"
	s.urlPattern = "/products/%s/"
	s.titles = map[string][]string{
		"": {
			"Y2K %s Baby Tee",
			"Vintage %s Graphic Tee",
			"%s Cargo Pants",
			"90s %s Sweatshirt",
			"%s Mini Skirt",
			"Vintage %s Track Jacket",
		},
		"tops":        {"Y2K %s Baby Tee", "Vintage %s Graphic Tee", "90s %s Sweatshirt", "%s Crop Top"},
		"bottoms":     {"%s Cargo Pants", "%s Mini Skirt", "Low Rise %s Jeans", "%s Baggy Jeans"},
		"footwear":    {"Chunky %s Sneakers", "%s Platform Boots", "%s Mary Janes"},
		"accessories": {"%s Trucker Hat", "%s Shoulder Bag", "%s Sunglasses"},
	}
	s.brands = []string{
		"Brandy Melville",
		"Nike",
		"Adidas",
		"Harley Davidson",
		"Juicy Couture",
		"No Brand",
	}
	s.sizes = []string{"XS", "S", "M", "L", "XL", "One Size"}
	s.conditions = []string{
		"Used - good",
		"Used - excellent",
		"New with tags",
		"New without tags",
	}
	s.priceMin = 15
	s.priceMax = 120
	s.maxAgeDays = 30
	return s
}
