// Package a11y models an accessibility sink: an abstract consumer of
// short textual announcements describing browser state transitions. The
// real screen-reader bridge is an external collaborator; this package
// only defines the interface and a logging-backed default implementation.
package a11y

import "github.com/aj604/claude-resource-manager-CLI-sub000/internal/telemetry"

// Sink receives live-region announcements. Implementations must not block
// the caller for any meaningful amount of time — announcements happen on
// the UI thread's synchronous state-update path.
type Sink interface {
	Announce(text string)
}

// LoggingSink announces by writing to the browser category logger. It is
// the default Sink until a real screen-reader bridge is wired in by the
// host application.
type LoggingSink struct {
	Log *telemetry.FileSink
}

func (s *LoggingSink) Announce(text string) {
	if s.Log != nil {
		s.Log.Infof(telemetry.CategoryBrowser, "announce: %s", text)
	}
}

// NoopSink discards every announcement. Useful in tests that don't care
// about accessibility output.
type NoopSink struct{}

func (NoopSink) Announce(string) {}
