// Package watcher adaptively polls a single bound project root for file
// changes and triggers an incremental rebuild when something changed.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/polyidx/polyidx/internal/discover"
	"github.com/polyidx/polyidx/internal/index"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// Watcher polls idx.Root and calls BuildIncremental whenever the change it
// observed turns out to be a real one per idx.IsStale.
type Watcher struct {
	idx      *index.Index
	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
	base     time.Duration
}

// New returns a Watcher bound to idx, polling at baseInterval.
func New(idx *index.Index) *Watcher {
	return &Watcher{idx: idx, base: baseInterval}
}

// NewWithBaseInterval returns a Watcher whose poll cadence seeds from base
// (e.g. a config-supplied resync_interval_seconds) instead of baseInterval.
// A non-positive base falls back to baseInterval.
func NewWithBaseInterval(idx *index.Index, base time.Duration) *Watcher {
	if base <= 0 {
		base = baseInterval
	}
	return &Watcher{idx: idx, base: base}
}

// Run blocks until ctx is cancelled, polling at the watcher's base interval
// but only re-snapshotting once the adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.base)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the file tree and compares it with the
// previous one. The first poll only captures a baseline. A changed
// snapshot is confirmed against idx.IsStale before triggering a rebuild,
// since a bare mtime/size bump can be a no-op touch.
func (w *Watcher) poll(ctx context.Context) {
	now := time.Now()
	if w.snapshot != nil && now.Before(w.nextPoll) {
		return
	}

	if _, err := os.Stat(w.idx.Root); err != nil {
		slog.Warn("watcher.root_gone", "root", w.idx.Root)
		w.nextPoll = now.Add(maxInterval)
		return
	}

	snap, err := captureSnapshot(ctx, w.idx.Root)
	if err != nil {
		slog.Warn("watcher.snapshot", "root", w.idx.Root, "err", err)
		w.nextPoll = now.Add(w.interval)
		return
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "root", w.idx.Root, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = now.Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = now.Add(interval)
		return
	}

	stale, err := w.idx.IsStale(ctx)
	if err != nil {
		slog.Warn("watcher.stale_check", "root", w.idx.Root, "err", err)
		w.nextPoll = now.Add(interval)
		return
	}
	if !stale {
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = now.Add(interval)
		return
	}

	slog.Info("watcher.changed", "root", w.idx.Root, "files", len(snap))
	if err := w.idx.BuildIncremental(ctx); err != nil {
		slog.Warn("watcher.rebuild", "root", w.idx.Root, "err", err)
		w.nextPoll = now.Add(interval)
		return
	}
	if err := w.idx.SaveCache(); err != nil {
		slog.Warn("watcher.save_cache", "root", w.idx.Root, "err", err)
	}

	w.snapshot = snap
	w.interval = pollInterval(len(snap))
	w.nextPoll = now.Add(w.interval)
}

// captureSnapshot walks the file tree using discover.Discover and captures
// mtime+size for each file.
func captureSnapshot(ctx context.Context, root string) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, root, nil)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual returns true if two snapshots have identical files with
// the same mtime+size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count: 1s base
// plus 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
