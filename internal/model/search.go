package model

// MatchKind records which search strategy produced a SearchHit.
type MatchKind string

const (
	MatchExact  MatchKind = "exact"
	MatchPrefix MatchKind = "prefix"
	MatchFuzzy  MatchKind = "fuzzy"
)

// SearchHit is one ranked result from the search index.
type SearchHit struct {
	Resource   *Resource
	Score      float64 // in [0, 100]
	MatchKind  MatchKind
	Highlights []string
}
