// Package model holds the typed records shared across the catalog manager:
// Resource, Source, Dependency, Category, SearchHit, InstallPlan and
// InstallRecord. Values constructed through the validating constructors in
// this package are trusted everywhere else; nothing downstream re-validates
// them.
package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
)

// Kind is one of the five resource kinds.
type Kind string

const (
	KindAgent    Kind = "agent"
	KindCommand  Kind = "command"
	KindHook     Kind = "hook"
	KindTemplate Kind = "template"
	KindMCP      Kind = "mcp"
)

// Kinds lists every valid kind in a stable order, used for iteration and
// the index's per-kind counts.
var Kinds = []Kind{KindAgent, KindCommand, KindHook, KindTemplate, KindMCP}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Dir returns the catalog/install-root subdirectory for this kind, e.g.
// "agents" for KindAgent.
func (k Kind) Dir() string {
	return string(k) + "s"
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
var versionPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)

// Source identifies where a resource's body lives.
type Source struct {
	Repo string `yaml:"repo"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// DependencyRef is a reference to another resource by id+kind, optionally
// explaining why it is needed.
type DependencyRef struct {
	ID     string `yaml:"id"`
	Type   Kind   `yaml:"type"`
	Reason string `yaml:"reason,omitempty"`
}

func (d DependencyRef) Key() string {
	return string(d.Type) + "/" + d.ID
}

// Dependencies splits a resource's edges into required and recommended
// ordered sequences.
type Dependencies struct {
	Required    []DependencyRef `yaml:"required,omitempty"`
	Recommended []DependencyRef `yaml:"recommended,omitempty"`
}

// Resource is a single catalog entry.
type Resource struct {
	ID          string         `yaml:"id"`
	Type        Kind           `yaml:"type"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Summary     string         `yaml:"summary,omitempty"`
	Version     string         `yaml:"version,omitempty"`
	Author      string         `yaml:"author,omitempty"`
	FileType    string         `yaml:"file_type,omitempty"`
	Source      Source         `yaml:"source"`
	InstallPath string         `yaml:"install_path"`
	UpdatedAt   string         `yaml:"updated_at,omitempty"` // ISO-8601; compares lexicographically
	Metadata    map[string]any `yaml:"metadata,omitempty"`
	Deps        Dependencies   `yaml:"dependencies,omitempty"`
}

// AllowedContentHosts is the allow-list for source.url hosts, consulted by
// validateSource. It defaults to the stock raw-content host and is
// replaced wholesale by SetAllowedContentHosts once configuration has been
// loaded.
var AllowedContentHosts = map[string]bool{
	"raw.githubusercontent.com": true,
}

// SetAllowedContentHosts replaces the source.url host allow-list used by
// Validate. Called once at startup with the configured host list; an
// empty hosts slice leaves the existing allow-list untouched rather than
// locking every resource out.
func SetAllowedContentHosts(hosts []string) {
	if len(hosts) == 0 {
		return
	}
	m := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		m[h] = true
	}
	AllowedContentHosts = m
}

// DeriveSummary returns Summary if set, otherwise a <=100-char derivation
// from Description: the first sentence if one ends within 100 characters,
// else a hard truncation.
func (r *Resource) DeriveSummary() string {
	if r.Summary != "" {
		return r.Summary
	}
	d := strings.TrimSpace(r.Description)
	if idx := strings.IndexAny(d, ".!?"); idx >= 0 && idx < 100 {
		return d[:idx+1]
	}
	runes := []rune(d)
	if len(runes) <= 100 {
		return d
	}
	return string(runes[:100])
}

// Validate type-checks known fields and enforces resource invariants.
// Unknown fields are not rejected here — the YAML decoder preserves them
// under Metadata at parse time (see catalog.decodeResource).
func (r *Resource) Validate() error {
	if r.ID == "" {
		return crmerr.Validation("id", "must not be empty")
	}
	if !idPattern.MatchString(r.ID) {
		return crmerr.Validation("id", fmt.Sprintf("%q must be lowercase alphanumeric plus - or _", r.ID))
	}
	if !r.Type.Valid() {
		return crmerr.Validation("type", fmt.Sprintf("unknown type %q", r.Type))
	}
	if r.Name == "" {
		return crmerr.Validation("name", "must not be empty")
	}
	if r.Description == "" {
		return crmerr.Validation("description", "must not be empty")
	}
	if r.Summary != "" && len([]rune(r.Summary)) > 100 {
		return crmerr.Validation("summary", "must be <= 100 chars")
	}
	if r.Version == "" {
		r.Version = "v1.0.0"
	}
	if !versionPattern.MatchString(r.Version) {
		return crmerr.Validation("version", fmt.Sprintf("%q must match v<int>.<int>.<int>", r.Version))
	}
	if r.FileType == "" {
		r.FileType = ".md"
	}
	if !strings.HasPrefix(r.FileType, ".") {
		return crmerr.Validation("file_type", "must include leading dot")
	}
	if err := r.validateSource(); err != nil {
		return err
	}
	if r.InstallPath == "" {
		return crmerr.Validation("install_path", "must not be empty")
	}
	for i, d := range r.Deps.Required {
		if !d.Type.Valid() {
			return crmerr.Validation(fmt.Sprintf("dependencies.required[%d].type", i), fmt.Sprintf("unknown type %q", d.Type))
		}
	}
	for i, d := range r.Deps.Recommended {
		if !d.Type.Valid() {
			return crmerr.Validation(fmt.Sprintf("dependencies.recommended[%d].type", i), fmt.Sprintf("unknown type %q", d.Type))
		}
	}
	return nil
}

func (r *Resource) validateSource() error {
	if !strings.HasPrefix(r.Source.URL, "https://") {
		return crmerr.Validation("source.url", "must be an https:// URL")
	}
	host := r.Source.URL[len("https://"):]
	if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
		host = host[:idx]
	}
	if !AllowedContentHosts[host] {
		return crmerr.Validation("source.url", fmt.Sprintf("host %q is not on the allow-list", host))
	}
	return nil
}

// Key uniquely identifies a resource within its kind (I1: id unique per kind).
func (r *Resource) Key() string {
	return string(r.Type) + "/" + r.ID
}
