package watch

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bartoszk747-code/trend/internal/aggregator"
	"github.com/bartoszk747-code/trend/internal/filter"
	"github.com/bartoszk747-code/trend/internal/models"
)

// ErrNotFound is returned when a rule id does not exist.
var ErrNotFound = errors.New("watch rule not found")

// ValidationError rejects a malformed create/update request. No state is
// mutated when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// evaluateLimit is the per-source fetch size used when re-running a rule.
// Deliberately high so the filter sees the full current market state.
const evaluateLimit = 100

type seenKey struct {
	site models.Site
	id   string
}

type entry struct {
	rule models.WatchRule
	seen map[seenKey]struct{}
}

// Store is the in-memory registry of watch rules. It is shared mutable
// state: all rule access goes through one mutex. It is passed explicitly to
// handlers and workers rather than living in a package-level singleton.
type Store struct {
	mu      sync.Mutex
	agg     *aggregator.Aggregator
	entries []*entry
}

// NewStore creates an empty store evaluating rules against agg.
func NewStore(agg *aggregator.Aggregator) *Store {
	return &Store{agg: agg}
}

// Create validates and registers a new rule, returning it with its
// allocated id. Ids are previous-max + 1 and are never reused within the
// process.
func (s *Store) Create(query string, tags []string, maxPrice *float64, sites []models.Site) (models.WatchRule, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.WatchRule{}, &ValidationError{Reason: "query is required"}
	}
	if len(sites) == 0 {
		return models.WatchRule{}, &ValidationError{Reason: "at least one site is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, e := range s.entries {
		if e.rule.ID > maxID {
			maxID = e.rule.ID
		}
	}

	rule := models.WatchRule{
		ID:       maxID + 1,
		Query:    query,
		Tags:     filter.NormalizeTags(tags),
		MaxPrice: maxPrice,
		Sites:    append([]models.Site(nil), sites...),
	}
	s.entries = append(s.entries, &entry{
		rule: rule,
		seen: make(map[seenKey]struct{}),
	})

	return rule, nil
}

// UpdateParams carries a partial rule update. Zero values leave the
// corresponding field unchanged, except Tags: a non-nil Tags always
// replaces the rule's tag set, so a supplied empty list clears it.
type UpdateParams struct {
	Query    string
	Tags     *[]string
	MaxPrice *float64
	Sites    []models.Site
}

// Update applies a partial update to an existing rule.
func (s *Store) Update(id int64, p UpdateParams) (models.WatchRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(id)
	if e == nil {
		return models.WatchRule{}, ErrNotFound
	}

	if q := strings.TrimSpace(p.Query); q != "" {
		e.rule.Query = q
	}
	if p.Tags != nil {
		e.rule.Tags = filter.NormalizeTags(*p.Tags)
	}
	if p.MaxPrice != nil {
		e.rule.MaxPrice = p.MaxPrice
	}
	if len(p.Sites) > 0 {
		e.rule.Sites = append([]models.Site(nil), p.Sites...)
	}

	return copyRule(&e.rule), nil
}

// Get returns a copy of the rule with the given id.
func (s *Store) Get(id int64) (models.WatchRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(id)
	if e == nil {
		return models.WatchRule{}, ErrNotFound
	}
	return copyRule(&e.rule), nil
}

// List returns copies of all rules in creation order.
func (s *Store) List() []models.WatchRule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WatchRule, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, copyRule(&e.rule))
	}
	return out
}

// Evaluate re-runs the rule's search and filter against the live sources.
// Results are always recomputed, never cached, so the dashboard reflects
// the current marketplace state.
func (s *Store) Evaluate(ctx context.Context, id int64) ([]models.Listing, error) {
	rule, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.EvaluateRule(ctx, rule), nil
}

// EvaluateRule runs the aggregator and filter for an already-fetched rule.
func (s *Store) EvaluateRule(ctx context.Context, rule models.WatchRule) []models.Listing {
	listings := s.agg.Aggregate(ctx, rule.Query, rule.Sites, evaluateLimit)
	return filter.Apply(listings, rule.Tags, rule.MaxPrice)
}

// CheckNew marks unseen matches as seen and returns them. A listing with
// no listing id cannot be deduplicated and is never reported as new; the
// seen set only ever grows for the lifetime of a rule.
func (s *Store) CheckNew(id int64, matches []models.Listing) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(id)
	if e == nil {
		return nil, ErrNotFound
	}

	var fresh []models.Listing
	for _, l := range matches {
		if l.ListingID == "" {
			continue
		}
		key := seenKey{site: l.Site, id: l.ListingID}
		if _, ok := e.seen[key]; ok {
			continue
		}
		e.seen[key] = struct{}{}
		fresh = append(fresh, l)
	}
	return fresh, nil
}

// find must be called with the lock held.
func (s *Store) find(id int64) *entry {
	for _, e := range s.entries {
		if e.rule.ID == id {
			return e
		}
	}
	return nil
}

func copyRule(r *models.WatchRule) models.WatchRule {
	out := *r
	out.Tags = append([]string(nil), r.Tags...)
	out.Sites = append([]models.Site(nil), r.Sites...)
	return out
}
