package sources

import (
	"github.com/bartoszk747-code/trend/internal/models"
)

// NewPoshmarkSource simulates Poshmark search results. No public API is
// available, so listings are generated with Poshmark-flavored titles and
// condition terminology.
func NewPoshmarkSource(seed int64) Source {
	s := newSimulatedSource(models.SitePoshmark, seed)
	s.idPrefix = "fake-posh"
	s.urlPattern = "/listing/%s"
	s.titles = map[string][]string{
		"": {
			"%s Midi Dress",
			"NWT %s Blazer",
			"%s Workout Set",
			"Oversized %s Sweater",
			"%s Lounge Set",
			"%s Trench Coat",
		},
		"tops":        {"NWT %s Blazer", "Oversized %s Sweater", "%s Blouse", "%s Tank Top"},
		"bottoms":     {"%s Jeans", "%s Leggings", "%s Skirt", "%s Trousers"},
		"footwear":    {"%s Boots", "%s Heels", "%s Sandals", "%s Sneakers"},
		"accessories": {"%s Handbag", "%s Necklace", "%s Scarf", "%s Belt"},
	}
	s.brands = []string{
		"Aritzia",
		"Lululemon",
		"Free People",
		"Zara",
		"Madewell",
		"Anthropologie",
		"No Brand",
	}
	s.sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
	s.conditions = []string{
		"New with tags",
		"New without tags",
		"Excellent used condition",
		"Good used condition",
	}
	s.priceMin = 25
	s.priceMax = 250
	s.maxAgeDays = 60
	return s
}
