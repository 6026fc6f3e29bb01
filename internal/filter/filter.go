package filter

import (
	"strings"

	"github.com/bartoszk747-code/trend/internal/models"
)

// Apply returns the order-preserving subsequence of listings passing both
// the tag test and the max-price test.
//
// The tag test builds a comparison text from title, brand and size, then
// matches normalized tags against two variants of it: one keeping spaces
// and one with spaces removed. Marketplace titles are inconsistent about
// spacing and punctuation around keywords ("Y2K  Graphic-Tee"), so both
// variants are checked. An empty tag set passes everything.
//
// The price test is conservative: when maxPrice is set, a listing with an
// unknown price fails. Never show unknown-priced items under a ceiling.
func Apply(listings []models.Listing, tags []string, maxPrice *float64) []models.Listing {
	normTags := NormalizeTags(tags)

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if !passesTags(&l, normTags) {
			continue
		}
		if !passesPrice(&l, maxPrice) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func passesTags(l *models.Listing, normTags []string) bool {
	if len(normTags) == 0 {
		return true
	}

	text := strings.ToLower(l.Title + " " + l.Brand + " " + l.Size)
	spaced := normalize(text, true)
	compact := normalize(text, false)

	for _, tag := range normTags {
		if strings.Contains(spaced, tag) || strings.Contains(compact, tag) {
			return true
		}
	}
	return false
}

func passesPrice(l *models.Listing, maxPrice *float64) bool {
	if maxPrice == nil {
		return true
	}
	return l.Price != nil && *l.Price <= *maxPrice
}

// NormalizeTags lowercases tags, strips non-alphanumerics and drops entries
// that end up empty. Watch rules store tags in this normalized form.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		norm := normalize(strings.ToLower(tag), false)
		if norm != "" {
			out = append(out, norm)
		}
	}
	return out
}

// normalize keeps only ASCII alphanumerics, lowercased, plus spaces when
// keepSpaces is set.
func normalize(s string, keepSpaces bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ' && keepSpaces:
			b.WriteRune(r)
		}
	}
	return b.String()
}
