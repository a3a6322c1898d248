package daemon

import (
	"context"
	"os"
	"time"
)

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

// watcher polls files for mtime, size or existence changes.
type watcher struct {
	paths    []string
	interval time.Duration
	debounce time.Duration
	last     map[string]fileState
}

func newWatcher(paths []string, interval, debounce time.Duration) *watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &watcher{
		paths:    paths,
		interval: interval,
		debounce: debounce,
		last:     make(map[string]fileState, len(paths)),
	}
}

// prime records the current state without reporting changes.
func (w *watcher) prime() {
	for _, path := range w.paths {
		w.last[path] = statFile(path)
	}
}

// poll returns the paths whose state changed since the previous poll.
func (w *watcher) poll() []string {
	var changed []string
	for _, path := range w.paths {
		state := statFile(path)
		if prev, ok := w.last[path]; !ok || prev != state {
			changed = append(changed, path)
		}
		w.last[path] = state
	}
	return changed
}

// run calls onSettled once changes stop arriving for the debounce interval.
// Paths changed during the settle period are reported together.
func (w *watcher) run(ctx context.Context, onSettled func(changed []string)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		pending    []string
		lastChange time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if changed := w.poll(); len(changed) > 0 {
				pending = mergePaths(pending, changed)
				lastChange = now
			}
			if len(pending) > 0 && now.Sub(lastChange) >= w.debounce {
				onSettled(pending)
				pending = nil
			}
		}
	}
}

func mergePaths(dst, src []string) []string {
	for _, path := range src {
		found := false
		for _, existing := range dst {
			if existing == path {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, path)
		}
	}
	return dst
}
