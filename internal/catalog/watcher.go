package catalog

import (
	"context"
	"log/slog"
	"time"
)

// Watcher polls the source file and reloads the catalog when it changes.
type Watcher struct {
	catalog  *Catalog
	interval time.Duration
}

// NewWatcher creates a Watcher.
func NewWatcher(c *Catalog, interval time.Duration) *Watcher {
	return &Watcher{catalog: c, interval: interval}
}

// Start begins the polling loop. It blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	slog.Info("dataset watcher started", "interval", w.interval.String(), "path", w.catalog.Path())
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	changed, err := w.catalog.Changed()
	if err != nil {
		slog.Warn("watcher: failed to stat dataset", "error", err)
		return
	}
	if !changed {
		return
	}

	if _, err := w.catalog.Reload(ctx); err != nil {
		slog.Error("watcher: reload failed; keeping previous snapshot", "error", err)
	}
}
