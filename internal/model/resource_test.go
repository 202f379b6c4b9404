package model

import "testing"

func validResource() Resource {
	return Resource{
		ID:          "base-agent",
		Type:        KindAgent,
		Name:        "Base Agent",
		Description: "Shared scaffolding.",
		Source: Source{
			URL: "https://raw.githubusercontent.com/anthropics/claude-resources/main/agents/base-agent.md",
		},
		InstallPath: "agents/base-agent.md",
	}
}

func TestValidateAcceptsMinimalResource(t *testing.T) {
	r := validResource()
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid resource, got %v", err)
	}
	if r.Version != "v1.0.0" {
		t.Errorf("expected default version v1.0.0, got %q", r.Version)
	}
	if r.FileType != ".md" {
		t.Errorf("expected default file_type .md, got %q", r.FileType)
	}
}

func TestValidateRejectsBadID(t *testing.T) {
	r := validResource()
	r.ID = "Bad_ID!"
	if err := r.Validate(); err == nil {
		t.Fatal("expected validation error for uppercase/invalid id")
	}
}

func TestValidateRejectsDisallowedHost(t *testing.T) {
	r := validResource()
	r.Source.URL = "https://evil.example.com/agents/base-agent.md"
	if err := r.Validate(); err == nil {
		t.Fatal("expected validation error for disallowed host")
	}
}

func TestValidateRejectsNonHTTPS(t *testing.T) {
	r := validResource()
	r.Source.URL = "http://raw.githubusercontent.com/anthropics/claude-resources/main/agents/base-agent.md"
	if err := r.Validate(); err == nil {
		t.Fatal("expected validation error for non-https source")
	}
}

func TestValidateAllowsSelfReferencingDependency(t *testing.T) {
	// A resource listing itself as a required dependency is a graph-level
	// cycle, not a load-time validation error; the resolver is the layer
	// responsible for detecting it.
	r := validResource()
	r.Deps.Required = []DependencyRef{{ID: r.ID, Type: r.Type}}
	if err := r.Validate(); err != nil {
		t.Fatalf("self-referencing dependency should pass load-time validation, got %v", err)
	}
}

func TestValidateRejectsUnknownDependencyType(t *testing.T) {
	r := validResource()
	r.Deps.Required = []DependencyRef{{ID: "x", Type: Kind("bogus")}}
	if err := r.Validate(); err == nil {
		t.Fatal("expected validation error for unknown dependency type")
	}
}

func TestDeriveSummaryPrefersExplicitSummary(t *testing.T) {
	r := validResource()
	r.Summary = "explicit summary"
	if got := r.DeriveSummary(); got != "explicit summary" {
		t.Errorf("got %q", got)
	}
}

func TestDeriveSummaryTruncatesAtSentenceBoundary(t *testing.T) {
	r := validResource()
	r.Description = "Short sentence. Rest is ignored for the summary."
	if got := r.DeriveSummary(); got != "Short sentence." {
		t.Errorf("got %q", got)
	}
}

func TestKeyIsKindQualified(t *testing.T) {
	r := validResource()
	if got, want := r.Key(), "agent/base-agent"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
