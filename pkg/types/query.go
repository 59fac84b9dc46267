package types

import (
	"errors"
	"strings"
	"time"
)

// Query validation errors
var (
	ErrEmptyQuery   = errors.New("query requires free text or at least one filter")
	ErrInvalidLimit = errors.New("limit must not be negative")
)

// SearchQuery is the request shape consumed from generation, validation,
// and example-retrieval collaborators. Query is free text; the remaining
// fields are hard filters that exclude non-matching records before scoring.
type SearchQuery struct {
	Query      string     `json:"query"`
	Category   string     `json:"category,omitempty"`
	ServerType string     `json:"serverType,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	FuzzyMatch bool       `json:"fuzzyMatch,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}

// HasFilters reports whether any structured filter is set.
func (q *SearchQuery) HasFilters() bool {
	return q.Category != "" || q.ServerType != "" || q.Difficulty != "" || len(q.Tags) > 0
}

// Validate rejects malformed queries before any store or cache access.
// A query may omit free text only when at least one filter is present.
func (q *SearchQuery) Validate() error {
	if q.Limit < 0 {
		return ErrInvalidLimit
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if strings.TrimSpace(q.Query) == "" && !q.HasFilters() {
		return ErrEmptyQuery
	}
	return nil
}

// PatternMatch is a ranked pattern result. Confidence is the stored
// pattern's own confidence attribute; Relevance is the normalized lexical
// match strength in [0,1].
type PatternMatch struct {
	ID           string   `json:"id"`
	Confidence   float64  `json:"confidence"`
	Relevance    float64  `json:"relevance"`
	MatchedTerms []string `json:"matchedTerms"`
}

// ExampleMatch is a ranked example result.
type ExampleMatch struct {
	ID           string   `json:"id"`
	Relevance    float64  `json:"relevance"`
	MatchedTerms []string `json:"matchedTerms"`
}

// SearchResults is the response shape returned to all transports.
type SearchResults struct {
	Patterns        []PatternMatch `json:"patterns"`
	Examples        []ExampleMatch `json:"examples"`
	TotalResults    int            `json:"totalResults"`
	ExecutionTimeMs int64          `json:"executionTimeMs"`
}

// StoreStats reports record counts per variant.
type StoreStats struct {
	Patterns      int       `json:"patterns"`
	Dialects      int       `json:"dialects"`
	SecurityRules int       `json:"securityRules"`
	Examples      int       `json:"examples"`
	LearningPaths int       `json:"learningPaths"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Version       string    `json:"version"`
}

// CacheStats reports cumulative cache accounting. HitRate is
// hits/(hits+misses), recomputed on every access.
type CacheStats struct {
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	HitRate       float64 `json:"hitRate"`
	Size          int     `json:"size"`
	MaxSize       int     `json:"maxSize"`
	Evictions     int64   `json:"evictions"`
	TotalRequests int64   `json:"totalRequests"`
}
