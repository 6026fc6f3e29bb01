package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bartoszk747-code/trend/internal/history"
	"github.com/bartoszk747-code/trend/internal/notify"
	"github.com/bartoszk747-code/trend/internal/watch"
)

// Watcher periodically re-evaluates every watch rule, flags newly seen
// matches through the notifier and archives evaluated listings. The core
// evaluate/check-new pipeline stays synchronous and on-demand; this loop
// just drives it on a timer.
type Watcher struct {
	store    *watch.Store
	notifier *notify.Notifier
	archive  *history.Archive // nil when persistence is not configured
	interval time.Duration
}

// NewWatcher creates a Watcher polling at the given interval.
func NewWatcher(store *watch.Store, notifier *notify.Notifier, archive *history.Archive, interval time.Duration) *Watcher {
	return &Watcher{
		store:    store,
		notifier: notifier,
		archive:  archive,
		interval: interval,
	}
}

// Start begins the periodic evaluation loop and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Msg("Starting watch rule poller")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Watch rule poller stopped")
			return
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

// pollAll evaluates every rule once. A failure on one rule never aborts
// the others.
func (w *Watcher) pollAll(ctx context.Context) {
	start := time.Now()
	rules := w.store.List()

	newCount := 0
	for _, rule := range rules {
		if ctx.Err() != nil {
			return
		}

		matches := w.store.EvaluateRule(ctx, rule)

		if w.archive != nil && len(matches) > 0 {
			if err := w.archive.Record(ctx, matches); err != nil {
				log.Warn().Err(err).Int64("rule_id", rule.ID).Msg("Failed to archive listings")
			}
		}

		fresh, err := w.store.CheckNew(rule.ID, matches)
		if err != nil {
			continue
		}
		if len(fresh) > 0 {
			newCount += len(fresh)
			w.notifier.NotifyNewListings(ctx, rule, fresh)
		}
	}

	log.Debug().
		Int("rules", len(rules)).
		Int("new_listings", newCount).
		Dur("elapsed", time.Since(start)).
		Msg("Watch poll cycle completed")
}
