// Package dto defines the HTTP request/response shapes and their
// validation. Handlers translate validation failures into 400s before any
// store or cache access happens.
package dto

import (
	"errors"
	"strings"

	"github.com/soundprediction/patternbase/pkg/types"
)

// Validation errors
var (
	ErrMissingQuery   = errors.New("query requires free text or at least one filter")
	ErrNegativeLimit  = errors.New("limit cannot be negative")
	ErrBadDifficulty  = errors.New("difficulty must be beginner, intermediate, or advanced")
	ErrUnknownVariant = errors.New("unknown record variant")
)

// Result is the generic API envelope.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchRequest mirrors types.SearchQuery at the HTTP boundary.
type SearchRequest struct {
	Query      string   `json:"query"`
	Category   string   `json:"category,omitempty"`
	ServerType string   `json:"serverType,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	FuzzyMatch bool     `json:"fuzzyMatch,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// Validate rejects malformed requests and converts to the core query type.
func (r *SearchRequest) Validate() (*types.SearchQuery, error) {
	if r.Limit < 0 {
		return nil, ErrNegativeLimit
	}
	d := types.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty)))
	if d != "" && !d.Valid() {
		return nil, ErrBadDifficulty
	}
	q := &types.SearchQuery{
		Query:      r.Query,
		Category:   strings.TrimSpace(r.Category),
		ServerType: strings.TrimSpace(r.ServerType),
		Difficulty: d,
		Tags:       r.Tags,
		FuzzyMatch: r.FuzzyMatch,
		Limit:      r.Limit,
	}
	if err := q.Validate(); err != nil {
		return nil, ErrMissingQuery
	}
	return q, nil
}

// ParseKind converts a URL segment to a record variant.
func ParseKind(s string) (types.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patterns", "pattern":
		return types.KindPattern, nil
	case "examples", "example":
		return types.KindExample, nil
	case "security-rules", "security_rule", "security-rule":
		return types.KindSecurityRule, nil
	case "dialects", "dialect":
		return types.KindDialect, nil
	case "learning-paths", "learning_path", "learning-path":
		return types.KindLearningPath, nil
	}
	return "", ErrUnknownVariant
}
