package workers

import (
	"chat-guard/contract"
	"chat-guard/observability"
	"chat-guard/repositories"
	"context"
	"log/slog"
	"time"
)

// Retention defaults: snapshots older than 48 hours are purged, checked
// once an hour.
const (
	DefaultRetentionHorizon = 48 * time.Hour
	DefaultSweepInterval    = time.Hour
)

var _ contract.Worker = (*RetentionWorker)(nil)

// RetentionWorker purges message snapshots past the retention horizon.
// A single goroutine owns the ticker, so two sweeps can never overlap:
// a run that outlasts the interval simply delays the next tick's work.
// A failed sweep is not retried; the next tick covers it.
type RetentionWorker struct {
	store    repositories.IMessageRepository
	index    repositories.ISearchIndex
	stats    *observability.Stats
	log      *slog.Logger
	horizon  time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewRetentionWorker(
	store repositories.IMessageRepository,
	index repositories.ISearchIndex,
	stats *observability.Stats,
	log *slog.Logger,
	horizon, interval time.Duration,
) *RetentionWorker {
	return &RetentionWorker{
		store:    store,
		index:    index,
		stats:    stats,
		log:      log,
		horizon:  horizon,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (w *RetentionWorker) Run(ctx context.Context) error {
	w.log.Info("Starting retention sweeper", "horizon", w.horizon, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one purge pass against the store and prunes the search
// index to match.
func (w *RetentionWorker) Sweep() {
	cutoff := w.now().Add(-w.horizon)
	purged, err := w.store.PurgeOlderThan(cutoff)
	if err != nil {
		w.stats.IncrStoreErrors()
		w.log.Error("Retention purge failed", "cutoff", cutoff, "error", err)
		return
	}
	w.stats.AddPurged(len(purged))
	w.log.Info("Retention purge done", "deleted", len(purged), "cutoff", cutoff)

	if w.index == nil || len(purged) == 0 {
		return
	}
	if err = w.index.Remove(purged...); err != nil {
		w.log.Error("Search index prune failed", "count", len(purged), "error", err)
	}
}
