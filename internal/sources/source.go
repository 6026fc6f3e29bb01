package sources

import (
	"context"

	"github.com/bartoszk747-code/trend/internal/models"
)

// Filters are the optional constraints a source may apply server-side.
// Sources that cannot honor a filter simply ignore it.
type Filters struct {
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Brand    string
	Category string
}

// Source is a marketplace behind a uniform search capability. Real network
// clients and simulated ones are interchangeable behind this interface.
type Source interface {
	Name() models.Site
	Search(ctx context.Context, query string, filters Filters, limit int) ([]models.Listing, error)
}

// canonicalOrder fixes the cross-site ordering of aggregated results so
// repeated evaluations are reproducible regardless of request input order.
var canonicalOrder = []models.Site{
	models.SiteGrailed,
	models.SiteDepop,
	models.SitePoshmark,
	models.SiteMercariUS,
	models.SiteFacebook,
}

var baseURLs = map[models.Site]string{
	models.SiteGrailed:   "https://www.grailed.com",
	models.SiteDepop:     "https://www.depop.com",
	models.SitePoshmark:  "https://poshmark.com",
	models.SiteMercariUS: "https://www.mercari.com",
	models.SiteFacebook:  "https://www.facebook.com",
}

// CanonicalOrder returns the fixed site iteration order.
func CanonicalOrder() []models.Site {
	out := make([]models.Site, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// BaseURL returns the known base domain for a site, or "" if none is known.
func BaseURL(site models.Site) string {
	return baseURLs[site]
}

// Registry holds the configured sources keyed by site.
type Registry struct {
	sources map[models.Site]Source
}

// NewRegistry builds a registry from the given sources. A later source with
// the same site name replaces an earlier one.
func NewRegistry(srcs ...Source) *Registry {
	r := &Registry{sources: make(map[models.Site]Source, len(srcs))}
	for _, s := range srcs {
		r.sources[s.Name()] = s
	}
	return r
}

// Get returns the source for a site, if configured.
func (r *Registry) Get(site models.Site) (Source, bool) {
	s, ok := r.sources[site]
	return s, ok
}

// Sites returns the configured sites in canonical order.
func (r *Registry) Sites() []models.Site {
	var out []models.Site
	for _, site := range canonicalOrder {
		if _, ok := r.sources[site]; ok {
			out = append(out, site)
		}
	}
	return out
}
