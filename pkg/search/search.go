package search

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

// Engine scores and ranks knowledge records against queries. It reads the
// store directly and keeps no state of its own, so a cold cache in front
// of it always produces identical results to a warm one.
type Engine struct {
	store  *store.KnowledgeStore
	logger *slog.Logger
}

// New creates a search engine over the given store. The logger may be nil.
func New(s *store.KnowledgeStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, logger: logger}
}

// Tokenize splits free text on whitespace and lower-cases every token.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Search validates the query, scores all candidate patterns and examples,
// and returns ranked, proportionally limited results.
func (e *Engine) Search(q *types.SearchQuery) (*types.SearchResults, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	tokens := Tokenize(q.Query)
	patterns, examples := e.candidates(q)

	patternMatches := make([]types.PatternMatch, 0, len(patterns))
	for _, p := range patterns {
		if !passesFilters(p.Classify(), q) {
			continue
		}
		relevance, terms, ok := scoreContent(patternContent(p), tokens, q.FuzzyMatch)
		if !ok {
			continue
		}
		confidence := p.Confidence
		if confidence == 0 {
			confidence = relevance
		}
		patternMatches = append(patternMatches, types.PatternMatch{
			ID:           p.ID,
			Confidence:   confidence,
			Relevance:    relevance,
			MatchedTerms: terms,
		})
	}

	exampleMatches := make([]types.ExampleMatch, 0, len(examples))
	for _, ex := range examples {
		if !passesFilters(ex.Classify(), q) {
			continue
		}
		relevance, terms, ok := scoreContent(exampleContent(ex), tokens, q.FuzzyMatch)
		if !ok {
			continue
		}
		exampleMatches = append(exampleMatches, types.ExampleMatch{
			ID:           ex.ID,
			Relevance:    relevance,
			MatchedTerms: terms,
		})
	}

	// Stable sort: equal scores keep insertion order.
	sort.SliceStable(patternMatches, func(i, j int) bool {
		return patternMatches[i].Relevance > patternMatches[j].Relevance
	})
	sort.SliceStable(exampleMatches, func(i, j int) bool {
		return exampleMatches[i].Relevance > exampleMatches[j].Relevance
	})

	total := len(patternMatches) + len(exampleMatches)
	patternMatches, exampleMatches = applyLimit(patternMatches, exampleMatches, q.Limit)

	elapsed := time.Since(start)
	e.logger.Debug("search completed",
		"query", q.Query,
		"patterns", len(patternMatches),
		"examples", len(exampleMatches),
		"total", total,
		"elapsed", elapsed)

	return &types.SearchResults{
		Patterns:        patternMatches,
		Examples:        exampleMatches,
		TotalResults:    total,
		ExecutionTimeMs: elapsed.Milliseconds(),
	}, nil
}

// candidates returns the pattern and example sets to score, using the
// store's secondary indexes to pre-filter when a structured filter is
// present. One index is enough; the remaining filters are re-checked per
// record by passesFilters.
func (e *Engine) candidates(q *types.SearchQuery) ([]*types.Pattern, []*types.Example) {
	var bucket []types.Record
	switch {
	case q.Category != "":
		bucket = e.store.ByCategory(q.Category)
	case q.ServerType != "":
		bucket = e.store.ByServer(q.ServerType)
	case q.Difficulty != "":
		bucket = e.store.ByDifficulty(q.Difficulty)
	default:
		return e.store.Patterns(), e.store.Examples()
	}

	var patterns []*types.Pattern
	var examples []*types.Example
	for _, rec := range bucket {
		switch r := rec.(type) {
		case *types.Pattern:
			patterns = append(patterns, r)
		case *types.Example:
			examples = append(examples, r)
		}
	}
	return patterns, examples
}

// passesFilters applies the hard filters. A record failing any filter is
// excluded before scoring, never merely down-ranked.
func passesFilters(c types.Classification, q *types.SearchQuery) bool {
	if q.Category != "" && c.Category != q.Category {
		return false
	}
	if q.ServerType != "" && !containsString(c.Servers, q.ServerType) {
		return false
	}
	if q.Difficulty != "" && c.Difficulty != q.Difficulty {
		return false
	}
	for _, tag := range q.Tags {
		if !containsString(c.Tags, tag) {
			return false
		}
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func patternContent(p *types.Pattern) string {
	return p.Name + " " + p.Description + " " + strings.Join(p.Tags, " ")
}

func exampleContent(e *types.Example) string {
	return e.Title + " " + e.Description + " " + strings.Join(e.Tags, " ")
}

// scoreContent computes the normalized relevance of content against the
// query tokens. With zero tokens the record matches on filters alone at
// relevance 1.0. The third return is false when the record scores zero
// and must be dropped from ranked output.
func scoreContent(content string, tokens []string, fuzzy bool) (float64, []string, bool) {
	if len(tokens) == 0 {
		return 1.0, nil, true
	}

	lowered := strings.ToLower(content)
	var words map[string]struct{}
	if !fuzzy {
		fields := strings.Fields(lowered)
		words = make(map[string]struct{}, len(fields))
		for _, w := range fields {
			words[w] = struct{}{}
		}
	}

	var matched []string
	for _, tok := range tokens {
		if fuzzy {
			if strings.Contains(lowered, tok) {
				matched = append(matched, tok)
			}
		} else if _, ok := words[tok]; ok {
			matched = append(matched, tok)
		}
	}
	if len(matched) == 0 {
		return 0, nil, false
	}
	return float64(len(matched)) / float64(len(tokens)), matched, true
}

// applyLimit splits an overall limit proportionally between the two ranked
// lists by their share of the unlimited result count: ceiling for
// patterns, remainder for examples. A list is only emptied when its
// unlimited count is zero or the remainder leaves it nothing.
func applyLimit(patterns []types.PatternMatch, examples []types.ExampleMatch, limit int) ([]types.PatternMatch, []types.ExampleMatch) {
	if limit <= 0 {
		return patterns, examples
	}
	total := len(patterns) + len(examples)
	if total <= limit {
		return patterns, examples
	}

	patternShare := int(math.Ceil(float64(limit) * float64(len(patterns)) / float64(total)))
	if patternShare > len(patterns) {
		patternShare = len(patterns)
	}
	exampleShare := limit - patternShare
	if exampleShare > len(examples) {
		exampleShare = len(examples)
	}
	return patterns[:patternShare], examples[:exampleShare]
}

// CacheKey builds the normalized cache key for a query. Two queries that
// differ only in free-text casing or surrounding whitespace share a key.
func CacheKey(q *types.SearchQuery) string {
	parts := []string{
		strings.Join(Tokenize(q.Query), " "),
		"c=" + q.Category,
		"s=" + q.ServerType,
		"d=" + string(q.Difficulty),
		"t=" + strings.Join(q.Tags, ","),
	}
	if q.FuzzyMatch {
		parts = append(parts, "fuzzy")
	}
	if q.Limit > 0 {
		parts = append(parts, "l="+strconv.Itoa(q.Limit))
	}
	return strings.Join(parts, "|")
}
