package filter

import (
	"reflect"
	"testing"

	"github.com/bartoszk747-code/trend/internal/models"
)

func listing(title string, price *float64) models.Listing {
	return models.Listing{
		Site:  models.SiteDepop,
		Title: title,
		Price: price,
	}
}

func TestApplyTagMatching(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		brand   string
		size    string
		tags    []string
		matches bool
	}{
		{"exact_word", "Vintage Nike Hoodie", "", "", []string{"nike"}, true},
		{"irregular_spacing_punctuation", "Y2K  Graphic-Tee", "", "", []string{"y2k"}, true},
		{"tag_spans_spacing", "Y2K Baby Tee", "", "", []string{"babytee"}, true},
		{"tag_with_punctuation", "Baggy Jeans", "", "", []string{"bag-gy"}, true},
		{"brand_matched", "Midi Dress", "Aritzia", "", []string{"aritzia"}, true},
		{"size_matched", "Workout Set", "", "XL", []string{"xl"}, true},
		{"no_match", "Cargo Pants", "", "", []string{"y2k"}, false},
		{"or_semantics", "Cargo Pants", "", "", []string{"y2k", "cargo"}, true},
		{"empty_tags_pass", "Anything", "", "", nil, true},
		{"whitespace_tags_discarded", "Anything", "", "", []string{"  ", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listing(tt.title, models.Float64(10))
			l.Brand = tt.brand
			l.Size = tt.size

			got := Apply([]models.Listing{l}, tt.tags, nil)
			if (len(got) == 1) != tt.matches {
				t.Errorf("tags %v against %q: matched=%v, want %v", tt.tags, tt.title, len(got) == 1, tt.matches)
			}
		})
	}
}

func TestApplyMaxPrice(t *testing.T) {
	in := []models.Listing{
		listing("no price", nil),
		listing("too expensive", models.Float64(75)),
		listing("at the ceiling", models.Float64(50)),
		listing("cheap", models.Float64(10)),
	}

	got := Apply(in, nil, models.Float64(50))
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].Title != "at the ceiling" || got[1].Title != "cheap" {
		t.Errorf("unexpected survivors: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestApplyNoCeilingKeepsUnknownPrice(t *testing.T) {
	in := []models.Listing{listing("no price", nil)}
	if got := Apply(in, nil, nil); len(got) != 1 {
		t.Errorf("expected unknown-priced listing to pass without a ceiling, got %d", len(got))
	}
}

func TestApplyOrderPreserving(t *testing.T) {
	in := []models.Listing{
		listing("first", models.Float64(30)),
		listing("skip me", models.Float64(90)),
		listing("second", models.Float64(20)),
		listing("third", models.Float64(10)),
	}

	got := Apply(in, nil, models.Float64(40))
	want := []string{"first", "second", "third"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	in := []models.Listing{
		listing("Y2K Baby Tee", models.Float64(25)),
		listing("Cargo Pants", models.Float64(60)),
		listing("Y2K Hoodie", nil),
	}
	tags := []string{"y2k"}
	maxPrice := models.Float64(50)

	once := Apply(in, tags, maxPrice)
	twice := Apply(once, tags, maxPrice)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v != %v", once, twice)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Y2K", " baby-tee ", "", "  ", "!!!"})
	want := []string{"y2k", "babytee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}
