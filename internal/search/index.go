// Package search implements the multi-strategy search index:
// an exact map, a prefix trie, an inverted word index, a fuzzy scorer, and
// a smart combiner that unions and deduplicates across all three.
package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/metrics"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// Mode selects a search strategy.
type Mode string

const (
	ModeExact  Mode = "exact"
	ModePrefix Mode = "prefix"
	ModeFuzzy  Mode = "fuzzy"
	ModeSmart  Mode = "smart"
)

const defaultFuzzyThreshold = 60

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

type fuzzyMemoKey struct {
	query     string
	limit     int
	threshold float64
}

// Index is the combined search index. It is safe for concurrent readers
// during a Rebuild: the rebuild constructs a new snapshot and swaps it in
// atomically, so a reader in flight sees either the whole old state or the
// whole new state, never a torn one.
type Index struct {
	mu   sync.RWMutex
	snap *snapshot

	memoMu sync.Mutex
	memo   map[fuzzyMemoKey][]model.SearchHit
}

type snapshot struct {
	byID  map[string]*model.Resource
	trie  *trie
	words map[string]map[string]bool // token -> set of ids
}

func newSnapshot() *snapshot {
	return &snapshot{
		byID:  make(map[string]*model.Resource),
		trie:  newTrie(),
		words: make(map[string]map[string]bool),
	}
}

// New creates an empty index.
func New() *Index {
	return &Index{snap: newSnapshot(), memo: make(map[fuzzyMemoKey][]model.SearchHit)}
}

// Rebuild atomically replaces the index contents with resources.
func (idx *Index) Rebuild(resources []*model.Resource) {
	snap := newSnapshot()
	for _, r := range resources {
		addToSnapshot(snap, r)
	}
	idx.mu.Lock()
	idx.snap = snap
	idx.mu.Unlock()
	idx.clearMemo()
}

// Add inserts or replaces a single resource in the index.
func (idx *Index) Add(r *model.Resource) {
	idx.mu.Lock()
	// Copy-on-write a new snapshot so concurrent readers never see a
	// partially mutated one.
	next := cloneSnapshot(idx.snap)
	addToSnapshot(next, r)
	idx.snap = next
	idx.mu.Unlock()
	idx.clearMemo()
}

// Remove deletes a resource by id from the index.
func (idx *Index) Remove(id string) {
	idx.mu.Lock()
	next := cloneSnapshot(idx.snap)
	if r, ok := next.byID[id]; ok {
		delete(next.byID, id)
		next.trie.remove(id)
		for _, tok := range tokensFor(r) {
			if set, ok := next.words[tok]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(next.words, tok)
				}
			}
		}
	}
	idx.snap = next
	idx.mu.Unlock()
	idx.clearMemo()
}

func (idx *Index) clearMemo() {
	idx.memoMu.Lock()
	idx.memo = make(map[fuzzyMemoKey][]model.SearchHit)
	idx.memoMu.Unlock()
}

func cloneSnapshot(s *snapshot) *snapshot {
	next := newSnapshot()
	for id, r := range s.byID {
		addToSnapshot(next, r)
	}
	return next
}

func addToSnapshot(s *snapshot, r *model.Resource) {
	s.byID[r.ID] = r
	s.trie.insert(r.ID)
	for _, tok := range tokensFor(r) {
		set, ok := s.words[tok]
		if !ok {
			set = make(map[string]bool)
			s.words[tok] = set
		}
		set[r.ID] = true
	}
}

func tokensFor(r *model.Resource) []string {
	text := strings.ToLower(r.ID + " " + r.Name + " " + r.Description)
	raw := tokenPattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		out = append(out, t)
	}
	return out
}

// Search runs mode (or smart by default) against query. Fuzzy and non-empty
// smart searches return at most limit hits with score >= threshold
// (threshold applies to fuzzy/smart only; exact and prefix scores are always
// above any sane threshold). Exact and prefix searches return every match,
// and an empty smart query returns every resource; limit does not cap them.
func (idx *Index) Search(query string, mode Mode, limit int, threshold float64) []model.SearchHit {
	start := time.Now()
	if mode == "" {
		mode = ModeSmart
	}
	defer func() {
		metrics.SearchLatency.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	if threshold <= 0 {
		threshold = defaultFuzzyThreshold
	}
	if limit <= 0 {
		limit = 50
	}
	idx.mu.RLock()
	snap := idx.snap
	idx.mu.RUnlock()

	switch mode {
	case ModeExact:
		return exactSearch(snap, query)
	case ModePrefix:
		return prefixSearch(snap, query)
	case ModeFuzzy:
		return idx.fuzzySearch(snap, query, limit, threshold)
	default:
		return idx.smartSearch(snap, query, limit, threshold)
	}
}

func exactSearch(snap *snapshot, query string) []model.SearchHit {
	if r, ok := snap.byID[query]; ok {
		return []model.SearchHit{{Resource: r, Score: 100, MatchKind: model.MatchExact}}
	}
	return nil
}

func prefixSearch(snap *snapshot, query string) []model.SearchHit {
	ids := snap.trie.idsWithPrefix(query)
	sort.Strings(ids)
	hits := make([]model.SearchHit, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, model.SearchHit{Resource: snap.byID[id], Score: 90, MatchKind: model.MatchPrefix})
	}
	return hits
}

func (idx *Index) fuzzySearch(snap *snapshot, query string, limit int, threshold float64) []model.SearchHit {
	key := fuzzyMemoKey{query: query, limit: limit, threshold: threshold}
	idx.memoMu.Lock()
	if cached, ok := idx.memo[key]; ok {
		idx.memoMu.Unlock()
		return cached
	}
	idx.memoMu.Unlock()

	hits := make([]model.SearchHit, 0)
	for id, r := range snap.byID {
		score := Score(query, id)
		if nameScore := Score(query, r.Name); nameScore > score {
			score = nameScore
		}
		if score >= threshold {
			hits = append(hits, model.SearchHit{Resource: r, Score: score, MatchKind: model.MatchFuzzy})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Resource.ID < hits[j].Resource.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	idx.memoMu.Lock()
	idx.memo[key] = hits
	idx.memoMu.Unlock()
	return hits
}

// smartSearch unions exact, prefix and fuzzy strategies, deduplicates by id
// keeping the max score, and sorts by score descending then id ascending.
func (idx *Index) smartSearch(snap *snapshot, query string, limit int, threshold float64) []model.SearchHit {
	if query == "" {
		// Empty query returns the full set in id order; callers that need
		// the browser's current sort re-apply it themselves.
		ids := make([]string, 0, len(snap.byID))
		for id := range snap.byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		hits := make([]model.SearchHit, 0, len(ids))
		for _, id := range ids {
			hits = append(hits, model.SearchHit{Resource: snap.byID[id], Score: 100, MatchKind: model.MatchExact})
		}
		return hits
	}

	best := make(map[string]model.SearchHit)
	merge := func(hs []model.SearchHit) {
		for _, h := range hs {
			if existing, ok := best[h.Resource.ID]; !ok || h.Score > existing.Score {
				best[h.Resource.ID] = h
			}
		}
	}
	merge(exactSearch(snap, query))
	merge(prefixSearch(snap, query))
	merge(idx.fuzzySearch(snap, query, len(snap.byID), threshold))

	out := make([]model.SearchHit, 0, len(best))
	for _, h := range best {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Resource.ID < out[j].Resource.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
