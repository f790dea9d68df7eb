package app

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/renamer/internal/debug"
)

// DirectoryWatcher watches the parent directories of the loaded entities
// and reports directories changed by someone else.
type DirectoryWatcher struct {
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	watching   map[string]bool // Currently watched paths, cleaned
	muted      bool            // our own rename pass is running
	mutedUntil time.Time       // late events of that pass are ignored until then
	notify     chan string     // Channel to send changed directory paths
	done       chan struct{}   // Shutdown signal
	debounceMs int             // Debounce interval in milliseconds
}

// NewDirectoryWatcher creates a new directory watcher
func NewDirectoryWatcher(debounceMs int) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 200
	}

	dw := &DirectoryWatcher{
		watcher:    w,
		watching:   make(map[string]bool),
		notify:     make(chan string, 10),
		done:       make(chan struct{}),
		debounceMs: debounceMs,
	}

	go dw.run()
	return dw, nil
}

func (dw *DirectoryWatcher) debounce() time.Duration {
	return time.Duration(dw.debounceMs) * time.Millisecond
}

// run processes filesystem events with debouncing
func (dw *DirectoryWatcher) run() {
	lastEvent := make(map[string]time.Time)
	pending := make(map[string]bool)
	ticker := time.NewTicker(dw.debounce())
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				// Writes do not change names
				continue
			}
			changedPath := event.Name
			parentDir := filepath.Dir(changedPath)

			dw.mu.Lock()
			if dw.muted || time.Now().Before(dw.mutedUntil) {
				dw.mu.Unlock()
				continue
			}
			if dw.watching[parentDir] {
				lastEvent[parentDir] = time.Now()
				pending[parentDir] = true
				debug.Log(debug.APP, "FSNotify event: %s on %s", event.Op, changedPath)
			} else if dw.watching[changedPath] {
				lastEvent[changedPath] = time.Now()
				pending[changedPath] = true
				debug.Log(debug.APP, "FSNotify event: %s on watched dir %s", event.Op, changedPath)
			}
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.APP, "FSNotify error: %v", err)

		case <-ticker.C:
			now := time.Now()
			dw.mu.Lock()
			muted := dw.muted
			dw.mu.Unlock()
			if muted {
				clear(pending)
				continue
			}
			for dir := range pending {
				if now.Sub(lastEvent[dir]) < dw.debounce() {
					continue
				}
				select {
				case dw.notify <- dir:
					debug.Log(debug.APP, "Directory change notification: %s", dir)
				default:
					// Channel full, skip
				}
				delete(pending, dir)
				delete(lastEvent, dir)
			}
		}
	}
}

// Watch adds a directory to the watch list
func (dw *DirectoryWatcher) Watch(path string) error {
	path = filepath.Clean(path)
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.watching[path] {
		return nil
	}
	if err := dw.watcher.Add(path); err != nil {
		return err
	}
	dw.watching[path] = true
	debug.Log(debug.APP, "Now watching directory: %s", path)
	return nil
}

// Unwatch removes a directory from the watch list
func (dw *DirectoryWatcher) Unwatch(path string) {
	path = filepath.Clean(path)
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if !dw.watching[path] {
		return
	}
	if err := dw.watcher.Remove(path); err != nil {
		// The directory may already be gone
		debug.Log(debug.APP, "Error unwatching %s: %v", path, err)
	}
	delete(dw.watching, path)
	debug.Log(debug.APP, "Stopped watching directory: %s", path)
}

// Sync makes the watch list equal to paths.
func (dw *DirectoryWatcher) Sync(paths []string) {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[filepath.Clean(p)] = true
	}
	for _, p := range dw.Watched() {
		if !want[p] {
			dw.Unwatch(p)
		}
	}
	for p := range want {
		if err := dw.Watch(p); err != nil {
			debug.Log(debug.APP, "Watch %s: %v", p, err)
		}
	}
}

// Watched returns the watched directories.
func (dw *DirectoryWatcher) Watched() []string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	out := make([]string, 0, len(dw.watching))
	for p := range dw.watching {
		out = append(out, p)
	}
	return out
}

// UnwatchAll removes all directories from the watch list
func (dw *DirectoryWatcher) UnwatchAll() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	for path := range dw.watching {
		dw.watcher.Remove(path)
	}
	dw.watching = make(map[string]bool)
}

// Mute drops events until Unmute, while this process renames entries.
func (dw *DirectoryWatcher) Mute() {
	dw.mu.Lock()
	dw.muted = true
	dw.mu.Unlock()
}

// Unmute resumes reporting after one more debounce interval, which
// absorbs events still in flight from the rename pass.
func (dw *DirectoryWatcher) Unmute() {
	dw.mu.Lock()
	dw.muted = false
	dw.mutedUntil = time.Now().Add(dw.debounce())
	dw.mu.Unlock()
}

// Notify returns the channel that receives directory change notifications
func (dw *DirectoryWatcher) Notify() <-chan string {
	return dw.notify
}

// Close shuts down the watcher
func (dw *DirectoryWatcher) Close() error {
	close(dw.done)
	return dw.watcher.Close()
}
