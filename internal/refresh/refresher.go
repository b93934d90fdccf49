// Package refresh maintains a read-only display snapshot of a workbook.
// It is fully independent of command processing: it opens its own view of
// the file, never writes, and communicates only through a published
// snapshot, so it neither blocks nor is blocked by an in-flight command.
package refresh

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/sheet"
)

// SelectionFunc reports the sheet and selection the snapshot should track.
type SelectionFunc func() (sheetName, selection string)

// Refresher polls a workbook file on an interval and on file-change events,
// republishing a bounded snapshot for display.
type Refresher struct {
	path      string
	interval  time.Duration
	selection SelectionFunc
	logger    *log.Logger

	mu       sync.RWMutex
	latest   engine.Snapshot
	updated  time.Time
	debounce *time.Timer
	dmu      sync.Mutex
}

// New creates a refresher for the workbook at path.
func New(path string, interval time.Duration, selection SelectionFunc) *Refresher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Refresher{
		path:      path,
		interval:  interval,
		selection: selection,
		logger:    log.New(os.Stderr, "[refresh] ", log.LstdFlags),
	}
}

// Start runs the refresh loop until the context is cancelled. File events
// and the interval ticker both trigger a reload; reload errors are logged
// and the previous snapshot stays published.
func (r *Refresher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors replace files on save, which would
	// drop a watch on the file itself.
	if err := fsw.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("could not watch %s: %w", filepath.Dir(r.path), err)
	}

	r.reload()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.reload()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Name != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Debounce: saves arrive as bursts of write events.
			r.dmu.Lock()
			if r.debounce != nil {
				r.debounce.Stop()
			}
			r.debounce = time.AfterFunc(300*time.Millisecond, r.reload)
			r.dmu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			r.logger.Printf("watch error: %v", err)
		}
	}
}

// reload opens a fresh read-only view of the workbook and republishes the
// snapshot. It must never mutate the file.
func (r *Refresher) reload() {
	wb, err := sheet.Open(r.path)
	if err != nil {
		r.logger.Printf("could not read %s: %v", r.path, err)
		return
	}
	defer wb.Close()

	sheetName, selection := r.selection()
	if sheetName != "" {
		if err := wb.SetSheet(sheetName); err != nil {
			r.logger.Printf("refresh: %v", err)
		}
	}
	if err := wb.Select(selection); err != nil {
		r.logger.Printf("refresh: %v", err)
	}

	snap := engine.BuildSnapshot(wb)

	r.mu.Lock()
	r.latest = snap
	r.updated = time.Now()
	r.mu.Unlock()
}

// Latest returns the most recently published snapshot and its capture time.
func (r *Refresher) Latest() (engine.Snapshot, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.updated
}
