package sources

import (
	"github.com/bartoszk747-code/trend/internal/models"
)

// NewMercariUSSource simulates Mercari US search results.
func NewMercariUSSource(seed int64) Source {
	s := newSimulatedSource(models.SiteMercariUS, seed)
	s.idPrefix = "fake-mus"
	s.urlPattern = "/us/item/%s/"
	s.titles = map[string][]string{
		"": {
			"Vintage %s Jacket",
			"%s Puffer Jacket",
			"Y2K %s Zip-Up Hoodie",
			"%s Workwear Coat",
			"Oversized %s Fleece",
		},
		"tops":        {"%s T-Shirt", "%s Hoodie", "%s Sweater", "Vintage %s Tee"},
		"bottoms":     {"%s Jeans", "%s Cargo Pants", "%s Shorts", "Vintage %s Denims"},
		"footwear":    {"%s Sneakers", "%s Boots", "%s Loafers", "Used %s Shoes"},
		"accessories": {"%s Hat", "%s Bag", "%s Belt", "%s Wallet"},
	}
	s.brands = []string{
		"Carhartt",
		"Nike",
		"Adidas",
		"The North Face",
		"Columbia",
		"Patagonia",
		"No Brand",
	}
	s.sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
	s.conditions = []string{
		"New with tags",
		"New without tags",
		"Good",
		"Fair",
		"Used",
	}
	s.priceMin = 20
	s.priceMax = 250
	s.maxAgeDays = 30
	return s
}
