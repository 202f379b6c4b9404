package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/telemetry"
)

// Watcher watches the catalog root for YAML changes and debounce-invalidates
// a Loader's caches: a debounce map keyed by path, a dedicated goroutine
// draining fsnotify events, and explicit stop/done channels for clean
// shutdown.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	loader      *Loader
	root        string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	log         *telemetry.FileSink
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a Watcher for the given catalog root. Call Start to
// begin watching; call Stop to shut down cleanly.
func NewWatcher(root string, loader *Loader, log *telemetry.FileSink) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		loader:      loader,
		root:        root,
		debounceMap: make(map[string]time.Time),
		debounceDur: 200 * time.Millisecond,
		log:         log,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching the catalog root and its per-kind subdirectories
// one level deep.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.root); err != nil {
		return err
	}
	dirs, _ := filepath.Glob(filepath.Join(w.root, "*"))
	for _, d := range dirs {
		_ = w.watcher.Add(d)
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case <-w.watcher.Errors:
			// Best-effort watcher: a transport error just means we may
			// miss a reload; the loader's TTL still bounds staleness.
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Ext(ev.Name) != ".yaml" {
		return
	}
	w.mu.Lock()
	last, seen := w.debounceMap[ev.Name]
	now := time.Now()
	if seen && now.Sub(last) < w.debounceDur {
		w.debounceMap[ev.Name] = now
		w.mu.Unlock()
		return
	}
	w.debounceMap[ev.Name] = now
	w.mu.Unlock()

	if w.log != nil {
		w.log.Infof(telemetry.CategoryCatalog, "catalog file changed, invalidating cache: %s", ev.Name)
	}
	w.loader.Invalidate()
}

// Stop shuts the watcher down and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}
