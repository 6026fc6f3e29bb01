package sources

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/bartoszk747-code/trend/internal/models"
)

func TestSimulatedDeterministicUnderSeed(t *testing.T) {
	ctx := context.Background()

	a, err := NewDepopSource(42).Search(ctx, "hoodie", Filters{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewDepopSource(42).Search(ctx, "hoodie", Filters{}, 5)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("lengths = %d, %d, want 5 each", len(a), len(b))
	}
	for i := range a {
		if a[i].Title != b[i].Title || *a[i].Price != *b[i].Price || a[i].Brand != b[i].Brand {
			t.Errorf("listing %d differs between seeded runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSimulatedListingShape(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		site   models.Site
		minP   float64
		maxP   float64
	}{
		{"depop", NewDepopSource(1), models.SiteDepop, 15, 120},
		{"poshmark", NewPoshmarkSource(1), models.SitePoshmark, 25, 250},
		{"mercari", NewMercariUSSource(1), models.SiteMercariUS, 20, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.source.Search(context.Background(), "hoodie", Filters{}, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 10 {
				t.Fatalf("got %d listings, want 10", len(got))
			}
			for _, l := range got {
				if l.Site != tt.site {
					t.Errorf("Site = %q, want %q", l.Site, tt.site)
				}
				if l.ListingID == "" {
					t.Error("missing ListingID")
				}
				if !strings.Contains(l.Title, "Hoodie") {
					t.Errorf("query not reflected in title %q", l.Title)
				}
				if l.Price == nil || *l.Price < tt.minP || *l.Price > tt.maxP {
					t.Errorf("price %v outside [%v, %v]", l.Price, tt.minP, tt.maxP)
				}
				if l.CreatedAt == nil || l.ScrapedAt.IsZero() {
					t.Errorf("listing %q missing timestamps", l.ListingID)
				}
				if strings.HasPrefix(l.URL, "http") {
					t.Errorf("simulated URL should be relative, got %q", l.URL)
				}
			}
		})
	}
}

func TestFacebookQueryFilter(t *testing.T) {
	src := NewFacebookSource()
	ctx := context.Background()

	z4, err := src.Search(ctx, "z4 m coupe", Filters{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(z4) != 6 {
		t.Fatalf("z4 query matched %d snapshots, want 6", len(z4))
	}
	for _, l := range z4 {
		if !strings.Contains(strings.ToLower(l.Title), "z4 m coupe") {
			t.Errorf("unexpected match %q", l.Title)
		}
	}

	// "bmw" matches everything in the fixture set.
	all, err := src.Search(ctx, "bmw", Filters{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 9 {
		t.Errorf("bmw query matched %d snapshots, want 9", len(all))
	}

	none, err := src.Search(ctx, "toyota", Filters{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("toyota query matched %d snapshots, want 0", len(none))
	}
}

func TestFacebookLimit(t *testing.T) {
	got, err := NewFacebookSource().Search(context.Background(), "bmw", Filters{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("got %d listings, want 4", len(got))
	}
}

func TestFacebookStableItemURL(t *testing.T) {
	got, err := NewFacebookSource().Search(context.Background(), "98k", Filters{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) < 2 {
		t.Fatalf("expected several snapshots of the same car, got %d", len(got))
	}
	for _, l := range got[1:] {
		if l.URL != got[0].URL {
			t.Errorf("snapshot URLs differ: %q vs %q", l.URL, got[0].URL)
		}
	}
	if got[0].ListingID == got[1].ListingID {
		t.Error("snapshot listing ids should stay distinct")
	}
}

func TestCanonicalOrderIsCopy(t *testing.T) {
	order := CanonicalOrder()
	want := []models.Site{
		models.SiteGrailed,
		models.SiteDepop,
		models.SitePoshmark,
		models.SiteMercariUS,
		models.SiteFacebook,
	}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("CanonicalOrder = %v, want %v", order, want)
	}

	order[0] = "mutated"
	if CanonicalOrder()[0] != models.SiteGrailed {
		t.Error("CanonicalOrder exposed internal state")
	}
}

func TestBaseURL(t *testing.T) {
	if got := BaseURL(models.SiteDepop); got != "https://www.depop.com" {
		t.Errorf("BaseURL(depop) = %q", got)
	}
	if got := BaseURL("ebay"); got != "" {
		t.Errorf("BaseURL(ebay) = %q, want empty", got)
	}
}

func TestRegistrySitesCanonical(t *testing.T) {
	r := NewRegistry(NewFacebookSource(), NewDepopSource(1))

	got := r.Sites()
	want := []models.Site{models.SiteDepop, models.SiteFacebook}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sites = %v, want %v", got, want)
	}
}
