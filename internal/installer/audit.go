package installer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// auditLog is the append-only "<install-root>/.install-history" writer.
// Concurrent appenders are serialized through an internal lock.
type auditLog struct {
	mu   sync.Mutex
	path string
}

func newAuditLog(installRoot string) *auditLog {
	return &auditLog{path: filepath.Join(installRoot, ".install-history")}
}

func (a *auditLog) append(rec model.InstallRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return err
}
