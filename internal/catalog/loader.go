// Package catalog implements the lazy, cached YAML catalog loader:
// index.yaml plus one <id>.yaml per resource under <catalog>/<kind>s/,
// with a short-TTL index cache, a bounded per-resource LRU, request
// coalescing for concurrent loads of the same (id, kind), and an optional
// disk mirror.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/metrics"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/telemetry"
)

const indexTTL = 30 * time.Second

type cachedResource struct {
	resource *model.Resource
}

// inflight tracks a single in-progress load so concurrent callers for the
// same key coalesce onto it.
type inflight struct {
	done chan struct{}
	res  *model.Resource
	err  error
}

// Loader is the single entry point onto the on-disk catalog.
type Loader struct {
	root     string
	diskCache string // empty disables disk mirroring
	log      *telemetry.FileSink

	mu         sync.Mutex
	index      *model.Index
	indexAt    time.Time
	resources  *lruCache
	inflightMu sync.Mutex
	inflightM  map[string]*inflight
}

// Option configures a Loader.
type Option func(*Loader)

// WithDiskCache enables mirroring per-resource parses to JSON files under dir.
func WithDiskCache(dir string) Option {
	return func(l *Loader) { l.diskCache = dir }
}

// WithLogSink attaches a telemetry sink for cache-hit/miss diagnostics.
func WithLogSink(sink *telemetry.FileSink) Option {
	return func(l *Loader) { l.log = sink }
}

// WithLRUSize overrides the per-resource LRU capacity (default 50).
func WithLRUSize(n int) Option {
	return func(l *Loader) { l.resources = newLRUCache(n) }
}

// NewLoader creates a Loader rooted at catalogRoot (a directory containing
// index.yaml and per-kind subdirectories).
func NewLoader(catalogRoot string, opts ...Option) *Loader {
	l := &Loader{
		root:      catalogRoot,
		resources: newLRUCache(50),
		inflightM: make(map[string]*inflight),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) debugf(format string, args ...any) {
	if l.log != nil {
		l.log.Debugf(telemetry.CategoryCatalog, format, args...)
	}
}

// GetIndex returns the top-level catalog index, reading from disk on the
// first call and on TTL expiry.
func (l *Loader) GetIndex() (*model.Index, error) {
	l.mu.Lock()
	if l.index != nil && time.Since(l.indexAt) < indexTTL {
		idx := l.index
		l.mu.Unlock()
		l.debugf("index cache hit")
		metrics.CacheHits.WithLabelValues("index").Inc()
		return idx, nil
	}
	l.mu.Unlock()
	metrics.CacheMisses.WithLabelValues("index").Inc()

	data, err := readYAMLFile(filepath.Join(l.root, "index.yaml"))
	if err != nil {
		return nil, err
	}
	idx, err := decodeIndex(data)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.index = idx
	l.indexAt = time.Now()
	l.mu.Unlock()
	l.debugf("index cache refreshed")
	return idx, nil
}

// GetResource loads a single resource by id+kind, consulting the LRU and
// disk cache before re-parsing, and coalescing concurrent loads for the
// same key onto a single file read.
func (l *Loader) GetResource(id string, kind model.Kind) (*model.Resource, error) {
	key := string(kind) + "/" + id

	l.mu.Lock()
	if c, ok := l.resources.get(key); ok {
		l.mu.Unlock()
		l.debugf("resource cache hit: %s", key)
		metrics.CacheHits.WithLabelValues("lru").Inc()
		return c.resource, nil
	}
	l.mu.Unlock()
	metrics.CacheMisses.WithLabelValues("lru").Inc()

	l.inflightMu.Lock()
	if inf, ok := l.inflightM[key]; ok {
		l.inflightMu.Unlock()
		<-inf.done
		return inf.res, inf.err
	}
	// A load that finished since the first check cached its result before
	// leaving inflightM, so re-check the LRU while holding inflightMu.
	l.mu.Lock()
	cached, hit := l.resources.get(key)
	l.mu.Unlock()
	if hit {
		l.inflightMu.Unlock()
		return cached.resource, nil
	}
	inf := &inflight{done: make(chan struct{})}
	l.inflightM[key] = inf
	l.inflightMu.Unlock()

	res, err := l.loadResource(id, kind)

	if err == nil {
		l.mu.Lock()
		l.resources.add(key, &cachedResource{resource: res})
		l.mu.Unlock()
	}
	inf.res, inf.err = res, err
	close(inf.done)

	l.inflightMu.Lock()
	delete(l.inflightM, key)
	l.inflightMu.Unlock()
	return res, err
}

func (l *Loader) loadResource(id string, kind model.Kind) (*model.Resource, error) {
	if l.diskCache != "" {
		if diskRes, ok := l.readDiskCache(id, kind); ok {
			l.debugf("disk cache hit: %s/%s", kind, id)
			metrics.CacheHits.WithLabelValues("disk").Inc()
			return diskRes, nil
		}
		metrics.CacheMisses.WithLabelValues("disk").Inc()
	}

	path := filepath.Join(l.root, kind.Dir(), id+".yaml")
	data, err := readYAMLFile(path)
	if err != nil {
		return nil, err
	}
	r, err := decodeResource(data)
	if err != nil {
		return nil, err
	}
	if r.ID != id {
		return nil, crmerr.Validation("id", fmt.Sprintf("descriptor id %q does not match filename stem %q", r.ID, id))
	}
	if r.Type != kind {
		return nil, crmerr.Validation("type", fmt.Sprintf("descriptor type %q does not match directory %q", r.Type, kind))
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	l.writeDiskCache(id, kind, r)
	return r, nil
}

func (l *Loader) diskCachePath(id string, kind model.Kind) string {
	if l.diskCache == "" {
		return ""
	}
	return filepath.Join(l.diskCache, string(kind), id+".json")
}

func (l *Loader) readDiskCache(id string, kind model.Kind) (*model.Resource, bool) {
	p := l.diskCachePath(id, kind)
	if p == "" {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	var r model.Resource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false
	}
	return &r, true
}

func (l *Loader) writeDiskCache(id string, kind model.Kind, r *model.Resource) {
	p := l.diskCachePath(id, kind)
	if p == "" {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	// Best-effort: a failed disk-cache write never fails the load.
	_ = os.WriteFile(p, data, 0o644)
}

// IterResources returns every resource of the given kind, or of all kinds
// if kind is empty. Invalid files are logged and skipped so a partial
// catalog load still completes.
func (l *Loader) IterResources(kind model.Kind) ([]*model.Resource, error) {
	kinds := model.Kinds
	if kind != "" {
		kinds = []model.Kind{kind}
	}
	var out []*model.Resource
	for _, k := range kinds {
		dir := filepath.Join(l.root, k.Dir())
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, crmerr.Decode(fmt.Sprintf("read dir %s", dir), err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" || e.Name() == "index.yaml" {
				continue
			}
			id := e.Name()[:len(e.Name())-len(".yaml")]
			r, err := l.GetResource(id, k)
			if err != nil {
				l.debugf("skipping invalid catalog file %s/%s: %v", k, id, err)
				continue
			}
			out = append(out, r)
		}
	}
	return out, nil
}

// Invalidate clears every in-memory cache tier. The next GetIndex/GetResource
// call re-reads from disk.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = nil
	l.resources.clear()
}
