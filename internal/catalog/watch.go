package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Watcher polls the catalog files' modification times on a cron schedule and
// invalidates the loader when any of them changes.
type Watcher struct {
	loader   *Loader
	cron     *cron.Cron
	onChange func(path string)

	mu        sync.Mutex
	primed    bool
	lastMTime map[string]time.Time
}

// NewWatcher creates a watcher for l's catalog. onChange, if set, runs after
// the loader has been invalidated.
func NewWatcher(l *Loader, onChange func(path string)) *Watcher {
	return &Watcher{
		loader:    l,
		cron:      cron.New(),
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Start primes the mtime cache and begins polling every interval.
func (w *Watcher) Start(interval time.Duration) error {
	if interval < time.Second {
		interval = time.Second
	}
	w.Poll()
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() { w.Poll() }); err != nil {
		return fmt.Errorf("schedule catalog poll: %w", err)
	}
	w.cron.Start()
	w.loader.log.Info("catalog watcher started", zap.Duration("interval", interval))
	return nil
}

// Stop halts polling and waits for a running poll to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
}

// Poll scans the catalog once and returns the files that changed since the
// previous scan. New and removed files count as changes; the first scan
// only primes the cache.
func (w *Watcher) Poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	prime := !w.primed
	w.primed = true
	seen := make(map[string]bool)
	var changed []string

	for _, p := range w.paths() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if !prime && (!ok || mt.After(last)) {
			changed = append(changed, p)
		}
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			changed = append(changed, p)
		}
	}

	if len(changed) == 0 {
		return nil
	}
	w.loader.Invalidate()
	for _, p := range changed {
		w.loader.log.Info("catalog file changed", zap.String("path", p))
		if w.onChange != nil {
			w.onChange(p)
		}
	}
	return changed
}

func (w *Watcher) paths() []string {
	out := []string{w.loader.paths.EconomyPath()}
	banners, _ := filepath.Glob(filepath.Join(w.loader.paths.BaseDir, "banners", "*.yaml"))
	return append(out, banners...)
}
