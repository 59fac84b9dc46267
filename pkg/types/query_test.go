package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr error
	}{
		{"free text only", SearchQuery{Query: "switch conditional"}, nil},
		{"filters only", SearchQuery{Category: "conditionals"}, nil},
		{"whitespace query with tag filter", SearchQuery{Query: "   ", Tags: []string{"loops"}}, nil},
		{"empty query no filters", SearchQuery{}, ErrEmptyQuery},
		{"whitespace only", SearchQuery{Query: "  \t "}, ErrEmptyQuery},
		{"negative limit", SearchQuery{Query: "x", Limit: -1}, ErrInvalidLimit},
		{"unknown difficulty", SearchQuery{Query: "x", Difficulty: "expert"}, ErrInvalidDifficulty},
		{"known difficulty", SearchQuery{Query: "x", Difficulty: DifficultyAdvanced}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.query.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		if !d.Valid() {
			t.Errorf("expected %q to be valid", d)
		}
	}
	if Difficulty("ninja").Valid() {
		t.Error("expected unknown difficulty to be invalid")
	}
}

func TestClassify(t *testing.T) {
	p := &Pattern{
		ID:                  "p-1",
		Category:            "conditionals",
		Difficulty:          DifficultyBeginner,
		ServerCompatibility: []string{"oxmysql", "mysql-async"},
		Tags:                []string{"switch"},
	}
	c := p.Classify()
	if c.Category != "conditionals" || c.Difficulty != DifficultyBeginner {
		t.Errorf("unexpected classification: %+v", c)
	}
	if len(c.Servers) != 2 {
		t.Errorf("expected 2 servers, got %d", len(c.Servers))
	}

	d := &Dialect{ID: "d-1", Name: "oxmysql"}
	if got := d.Classify().Servers; len(got) != 1 || got[0] != "oxmysql" {
		t.Errorf("dialect should index under its own name, got %v", got)
	}

	r := &SecurityRule{ID: "r-1", Category: "sql-injection"}
	if c := r.Classify(); c.Difficulty != "" || len(c.Servers) != 0 {
		t.Errorf("security rule should only classify by category and tags: %+v", c)
	}
}

func TestSearchResultsJSONShape(t *testing.T) {
	results := SearchResults{
		Patterns: []PatternMatch{{ID: "p-1", Confidence: 0.9, Relevance: 1.0, MatchedTerms: []string{"switch"}}},
		Examples: []ExampleMatch{},
		TotalResults: 1,
	}
	b, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, key := range []string{`"patterns"`, `"examples"`, `"totalResults"`, `"executionTimeMs"`, `"matchedTerms"`, `"confidence"`, `"relevance"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("expected %s in %s", key, b)
		}
	}
}
