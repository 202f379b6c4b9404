// Package telemetry provides the logging surface for the catalog manager:
// a zap.Logger for structured stderr/stdout output, plus a category-based
// file logger that mirrors log lines to <install-root>/.crm/logs/<category>.log
// when debug mode is on.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryCatalog   Category = "catalog"
	CategorySearch    Category = "search"
	CategoryCategory  Category = "category"
	CategoryResolver  Category = "resolver"
	CategoryInstaller Category = "installer"
	CategoryBrowser   Category = "browser"
)

// NewLogger builds the zap.Logger used by cmd/crm/main.go: production
// config by default, debug level under verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// fileLogger is a single category's append-only log file.
type fileLogger struct {
	mu   sync.Mutex
	file *os.File
}

func (f *fileLogger) write(level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return
	}
	fmt.Fprintf(f.file, "%s [%s] %s\n", time.Now().UTC().Format(time.RFC3339Nano), level, msg)
}

func (f *fileLogger) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
}

// FileSink fans category-scoped log lines out to per-category files under
// <install-root>/.crm/logs/. It is a no-op when debug mode is disabled.
type FileSink struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	loggers map[Category]*fileLogger
}

// NewFileSink creates a sink rooted at installRoot/.crm/logs. Pass enabled=false
// to make every call a no-op (e.g. when CRM_LOG_LEVEL != "debug").
func NewFileSink(installRoot string, enabled bool) *FileSink {
	return &FileSink{
		dir:     filepath.Join(installRoot, ".crm", "logs"),
		enabled: enabled,
		loggers: make(map[Category]*fileLogger),
	}
}

func (s *FileSink) loggerFor(cat Category) *fileLogger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loggers[cat]; ok {
		return l
	}
	l := &fileLogger{}
	if s.enabled {
		if err := os.MkdirAll(s.dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(s.dir, string(cat)+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err == nil {
				l.file = f
			}
		}
	}
	s.loggers[cat] = l
	return l
}

func (s *FileSink) Debugf(cat Category, format string, args ...any) {
	if !s.enabled {
		return
	}
	s.loggerFor(cat).write("debug", fmt.Sprintf(format, args...))
}

func (s *FileSink) Infof(cat Category, format string, args ...any) {
	if !s.enabled {
		return
	}
	s.loggerFor(cat).write("info", fmt.Sprintf(format, args...))
}

func (s *FileSink) Warnf(cat Category, format string, args ...any) {
	if !s.enabled {
		return
	}
	s.loggerFor(cat).write("warn", fmt.Sprintf(format, args...))
}

func (s *FileSink) Errorf(cat Category, format string, args ...any) {
	if !s.enabled {
		return
	}
	s.loggerFor(cat).write("error", fmt.Sprintf(format, args...))
}

// Close flushes and closes every opened category file.
func (s *FileSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loggers {
		l.close()
	}
}
