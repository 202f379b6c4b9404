package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

func TestWatcherInvalidatesOnFileChange(t *testing.T) {
	dir := t.TempDir()
	agentsDir := filepath.Join(dir, "agents")
	if err := os.MkdirAll(agentsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, filepath.Join(dir, "index.yaml"), "total: 1\ntypes:\n  agent: 1\n")
	writeFixture(t, filepath.Join(agentsDir, "a.yaml"), validAgentYAML("a"))

	l := NewLoader(dir)
	if _, err := l.GetResource("a", model.KindAgent); err != nil {
		t.Fatal(err)
	}
	cached, _ := l.resources.get("agent/a")
	if cached == nil {
		t.Fatal("expected the resource to be cached before the watcher fires")
	}

	w, err := NewWatcher(dir, l, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFixture(t, filepath.Join(agentsDir, "a.yaml"), validAgentYAML("a"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := l.resources.get("agent/a"); !ok {
			return // invalidated
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected watcher to invalidate the loader's resource cache")
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func validAgentYAML(id string) string {
	return "id: " + id + `
type: agent
name: Fixture Agent
description: Fixture for watcher tests.
source:
  url: https://raw.githubusercontent.com/anthropics/claude-resources/main/agents/fixture.md
install_path: agents/fixture.md
`
}
