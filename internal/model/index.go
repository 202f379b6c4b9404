package model

// Index is the top-level catalog record: counts per kind and the overall
// total, plus optional provenance fields from the upstream pipeline.
type Index struct {
	Total       int          `yaml:"total"`
	Types       map[Kind]int `yaml:"types"`
	LastUpdated string       `yaml:"last_updated,omitempty"`
	Version     string       `yaml:"version,omitempty"`
}
