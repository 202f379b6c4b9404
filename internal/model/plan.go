package model

import "time"

// InstallPlan is the ephemeral output of the dependency resolver.
type InstallPlan struct {
	Target            *Resource
	ToInstall         [][]*Resource // ordered by level: level k installs in parallel
	AlreadyInstalled  map[string]bool
	Missing           map[string]DependencyRef
	Recommended       map[string]*Resource
	Order             []string // dependencies-first id order (kind-qualified key)
}

// Incomplete reports whether the plan has missing required references.
func (p *InstallPlan) Incomplete() bool {
	return len(p.Missing) > 0
}

// InstallRecord is one line of the append-only audit log.
type InstallRecord struct {
	ID          string    `json:"id"`
	CorrelationID string  `json:"correlation_id"`
	Timestamp   time.Time `json:"timestamp"`
	InstallPath string    `json:"install_path"`
	SourceURL   string    `json:"source_url"`
}
