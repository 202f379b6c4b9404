package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

const testdataRoot = "../../testdata/catalog"

func TestGetIndexReadsCatalogIndex(t *testing.T) {
	l := NewLoader(testdataRoot)
	idx, err := l.GetIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx.Total != 10 {
		t.Errorf("total = %d, want 10", idx.Total)
	}
	if idx.Types[model.KindAgent] != 6 {
		t.Errorf("agent count = %d, want 6", idx.Types[model.KindAgent])
	}
}

func TestGetResourceLoadsAndValidates(t *testing.T) {
	l := NewLoader(testdataRoot)
	r, err := l.GetResource("base-agent", model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "Base Agent" {
		t.Errorf("name = %q", r.Name)
	}
}

func TestGetResourceNotFound(t *testing.T) {
	l := NewLoader(testdataRoot)
	if _, err := l.GetResource("does-not-exist", model.KindAgent); err == nil {
		t.Fatal("expected a not-found error")
	}
}

func TestGetResourceCachesAcrossCalls(t *testing.T) {
	l := NewLoader(testdataRoot)
	first, err := l.GetResource("base-agent", model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.GetResource("base-agent", model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the LRU cache to return the same pointer on the second call")
	}
}

func TestInvalidateClearsCaches(t *testing.T) {
	l := NewLoader(testdataRoot)
	first, err := l.GetResource("base-agent", model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	l.Invalidate()
	second, err := l.GetResource("base-agent", model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("expected a fresh pointer after Invalidate")
	}
}

func TestIterResourcesSkipsInvalidFiles(t *testing.T) {
	l := NewLoader(testdataRoot)
	resources, err := l.IterResources(model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	if len(resources) != 6 {
		t.Errorf("loaded %d agents, want 6", len(resources))
	}

	dir := t.TempDir()
	agentsDir := filepath.Join(dir, "agents")
	if err := os.MkdirAll(agentsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, filepath.Join(agentsDir, "good.yaml"), validAgentYAML("good"))
	writeFixture(t, filepath.Join(agentsDir, "bad.yaml"), "id: bad\ntype: agent\nname: Bad\n")
	mixed, err := NewLoader(dir).IterResources(model.KindAgent)
	if err != nil {
		t.Fatal(err)
	}
	if len(mixed) != 1 || mixed[0].ID != "good" {
		t.Errorf("expected only the valid agent to load and the invalid one to be skipped, got %d", len(mixed))
	}
}

func TestGetResourceCoalescesConcurrentLoads(t *testing.T) {
	l := NewLoader(testdataRoot)
	const n = 20
	results := make([]*model.Resource, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			r, err := l.GetResource("architect", model.KindAgent)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Error("coalesced concurrent loads should all observe the same resource pointer")
			break
		}
	}
}

func TestIndexCacheHonorsTTL(t *testing.T) {
	l := NewLoader(testdataRoot)
	idx1, err := l.GetIndex()
	if err != nil {
		t.Fatal(err)
	}
	idx2, err := l.GetIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx1 != idx2 {
		t.Error("expected the same index pointer within the TTL window")
	}
	l.indexAt = time.Now().Add(-1 * time.Hour)
	idx3, err := l.GetIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx3 == idx1 {
		t.Error("expected a fresh index pointer once the TTL has expired")
	}
}
