package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/statsboard/statsboard/internal/dataset"
)

// Store persists snapshots after a successful load.
type Store interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}

// Catalog holds the current snapshot of the source file.
type Catalog struct {
	path      string
	store     Store
	now       func() time.Time
	listeners []func(*Snapshot)

	// reloadMu serializes Reload so snapshots are swapped and announced in load order.
	reloadMu sync.Mutex

	mu      sync.RWMutex
	current *Snapshot
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithStore persists every loaded snapshot to store.
func WithStore(store Store) Option {
	return func(c *Catalog) {
		c.store = store
	}
}

// WithListener calls fn with every snapshot that Reload swaps in.
func WithListener(fn func(*Snapshot)) Option {
	return func(c *Catalog) {
		c.listeners = append(c.listeners, fn)
	}
}

// WithClock overrides the load timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New creates a Catalog for the CSV at path. Nothing is read until Reload.
func New(path string, opts ...Option) *Catalog {
	c := &Catalog{path: path, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the source file path.
func (c *Catalog) Path() string {
	return c.path
}

// Current returns the active snapshot, or ErrNotLoaded.
func (c *Catalog) Current() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNotLoaded
	}
	return c.current, nil
}

// Dataset returns one competition of the active snapshot.
func (c *Catalog) Dataset(competition string) (*Dataset, error) {
	snap, err := c.Current()
	if err != nil {
		return nil, err
	}
	return snap.Dataset(competition)
}

// Reload reads the source file and swaps in a fresh snapshot. On failure the
// previous snapshot stays active. Concurrent calls run one at a time.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	tbl, err := dataset.LoadFile(c.path)
	if err != nil {
		return nil, err
	}

	snap := Build(tbl, c.path, info.ModTime(), c.now().UTC())

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	slog.Info("dataset loaded",
		"snapshotId", snap.ID.String(),
		"competitions", len(snap.Competitions),
		"records", snap.RecordCount(),
	)
	for comp, msg := range snap.Errors() {
		slog.Warn("competition skipped", "competition", comp, "error", msg)
	}

	if c.store != nil {
		if err := c.store.SaveSnapshot(ctx, snap); err != nil {
			slog.Error("failed to persist snapshot", "snapshotId", snap.ID.String(), "error", err)
		}
	}
	for _, fn := range c.listeners {
		fn(snap)
	}

	return snap, nil
}

// Changed reports whether the source file was modified after the active
// snapshot was taken. It is true when nothing is loaded yet.
func (c *Catalog) Changed() (bool, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return false, fmt.Errorf("stat dataset: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return true, nil
	}
	return !info.ModTime().Equal(c.current.ModTime), nil
}
