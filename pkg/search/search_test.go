package search

import (
	"fmt"
	"testing"

	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

func newEngine(t *testing.T, records ...types.Record) *Engine {
	t.Helper()
	s := store.New(nil)
	for _, r := range records {
		if err := s.Add(r); err != nil {
			t.Fatalf("Add(%s): %v", r.RecordID(), err)
		}
	}
	return New(s, nil)
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Switch   CONDITIONAL\tbranch ")
	want := []string{"switch", "conditional", "branch"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(Tokenize("   ")) != 0 {
		t.Error("whitespace should tokenize to nothing")
	}
}

func TestWholeWordScoring(t *testing.T) {
	e := newEngine(t,
		&types.Pattern{ID: "p-1", Name: "Switch Function", Tags: []string{"switch", "conditional"}},
		&types.Example{ID: "e-1", Title: "Basic Object Creation"},
	)

	results, err := e.Search(&types.SearchQuery{Query: "switch conditional"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(results.Patterns))
	}
	p := results.Patterns[0]
	if p.ID != "p-1" || p.Relevance != 1.0 {
		t.Errorf("got %+v, want p-1 at relevance 1.0", p)
	}
	if len(p.MatchedTerms) != 2 || p.MatchedTerms[0] != "switch" || p.MatchedTerms[1] != "conditional" {
		t.Errorf("matched terms = %v", p.MatchedTerms)
	}
	if len(results.Examples) != 0 {
		t.Errorf("zero-score example must be dropped, got %v", results.Examples)
	}
	if results.TotalResults != 1 {
		t.Errorf("totalResults = %d", results.TotalResults)
	}
}

func TestWholeWordRejectsSubstrings(t *testing.T) {
	e := newEngine(t, &types.Pattern{ID: "p-1", Name: "Switchboard Operator"})

	exact, err := e.Search(&types.SearchQuery{Query: "switch"})
	if err != nil {
		t.Fatal(err)
	}
	if len(exact.Patterns) != 0 {
		t.Errorf("whole-word match must not match substring, got %v", exact.Patterns)
	}

	fuzzy, err := e.Search(&types.SearchQuery{Query: "switch", FuzzyMatch: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(fuzzy.Patterns) != 1 || fuzzy.Patterns[0].Relevance != 1.0 {
		t.Errorf("fuzzy match should score substring, got %v", fuzzy.Patterns)
	}
}

func TestScoringMonotonicity(t *testing.T) {
	e := newEngine(t,
		&types.Pattern{ID: "one", Name: "switch"},
		&types.Pattern{ID: "both", Name: "switch conditional"},
	)

	results, err := e.Search(&types.SearchQuery{Query: "switch conditional"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Patterns) != 2 {
		t.Fatalf("patterns = %d", len(results.Patterns))
	}
	if results.Patterns[0].ID != "both" {
		t.Errorf("record matching more tokens must rank first, got %v", results.Patterns)
	}
	if results.Patterns[0].Relevance <= results.Patterns[1].Relevance {
		t.Errorf("relevance %v must exceed %v", results.Patterns[0].Relevance, results.Patterns[1].Relevance)
	}
}

func TestStableTieBreak(t *testing.T) {
	var records []types.Record
	for i := 0; i < 6; i++ {
		records = append(records, &types.Pattern{
			ID:   fmt.Sprintf("p-%d", i),
			Name: "loop iteration",
		})
	}
	e := newEngine(t, records...)

	results, err := e.Search(&types.SearchQuery{Query: "loop"})
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range results.Patterns {
		if want := fmt.Sprintf("p-%d", i); m.ID != want {
			t.Errorf("rank %d = %s, want %s (insertion order)", i, m.ID, want)
		}
	}
}

func TestHardFiltersExcludeBeforeScoring(t *testing.T) {
	e := newEngine(t,
		&types.Pattern{ID: "p-1", Name: "query helper", Category: "database", Difficulty: types.DifficultyBeginner,
			ServerCompatibility: []string{"oxmysql"}, Tags: []string{"sql", "async"}},
		&types.Pattern{ID: "p-2", Name: "query helper", Category: "http", Difficulty: types.DifficultyAdvanced,
			ServerCompatibility: []string{"mysql-async"}, Tags: []string{"sql"}},
	)

	tests := []struct {
		name  string
		query types.SearchQuery
		want  []string
	}{
		{"category", types.SearchQuery{Query: "query", Category: "database"}, []string{"p-1"}},
		{"server", types.SearchQuery{Query: "query", ServerType: "mysql-async"}, []string{"p-2"}},
		{"difficulty", types.SearchQuery{Query: "query", Difficulty: types.DifficultyBeginner}, []string{"p-1"}},
		{"tags all required", types.SearchQuery{Query: "query", Tags: []string{"sql", "async"}}, []string{"p-1"}},
		{"no filter", types.SearchQuery{Query: "query"}, []string{"p-1", "p-2"}},
		{"filter matches nothing", types.SearchQuery{Query: "query", Category: "voice"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.Search(&tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(results.Patterns) != len(tt.want) {
				t.Fatalf("got %d patterns, want %d", len(results.Patterns), len(tt.want))
			}
			for i, id := range tt.want {
				if results.Patterns[i].ID != id {
					t.Errorf("pattern[%d] = %s, want %s", i, results.Patterns[i].ID, id)
				}
			}
		})
	}
}

func TestEmptyFreeTextScoresByFiltersAlone(t *testing.T) {
	e := newEngine(t,
		&types.Pattern{ID: "p-1", Name: "A", Category: "loops"},
		&types.Pattern{ID: "p-2", Name: "B", Category: "loops"},
		&types.Example{ID: "e-1", Title: "C", Category: "loops"},
		&types.Pattern{ID: "p-3", Name: "D", Category: "http"},
	)

	results, err := e.Search(&types.SearchQuery{Category: "loops"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Patterns) != 2 || len(results.Examples) != 1 {
		t.Fatalf("got %d/%d, want 2/1", len(results.Patterns), len(results.Examples))
	}
	for _, m := range results.Patterns {
		if m.Relevance != 1.0 || len(m.MatchedTerms) != 0 {
			t.Errorf("filter-only match should have relevance 1.0 and no terms: %+v", m)
		}
	}
	if results.Patterns[0].ID != "p-1" || results.Patterns[1].ID != "p-2" {
		t.Errorf("insertion order violated: %v", results.Patterns)
	}
}

func TestValidationErrors(t *testing.T) {
	e := newEngine(t)

	if _, err := e.Search(&types.SearchQuery{}); err != types.ErrEmptyQuery {
		t.Errorf("empty query: got %v", err)
	}
	if _, err := e.Search(&types.SearchQuery{Query: "x", Limit: -3}); err != types.ErrInvalidLimit {
		t.Errorf("negative limit: got %v", err)
	}
	if _, err := e.Search(&types.SearchQuery{Query: "x", Difficulty: "guru"}); err != types.ErrInvalidDifficulty {
		t.Errorf("bad difficulty: got %v", err)
	}
}

func TestProportionalLimiting(t *testing.T) {
	tests := []struct {
		name         string
		patterns     int
		examples     int
		limit        int
		wantPatterns int
		wantExamples int
	}{
		{"9 patterns 1 example limit 5", 9, 1, 5, 5, 0},
		{"6 patterns 4 examples limit 5", 6, 4, 5, 3, 2},
		{"under limit untouched", 2, 2, 10, 2, 2},
		{"no limit", 4, 4, 0, 4, 4},
		{"patterns empty", 0, 6, 4, 0, 4},
		{"examples empty", 6, 0, 4, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []types.Record
			for i := 0; i < tt.patterns; i++ {
				records = append(records, &types.Pattern{ID: fmt.Sprintf("p-%d", i), Name: "shared term"})
			}
			for i := 0; i < tt.examples; i++ {
				records = append(records, &types.Example{ID: fmt.Sprintf("e-%d", i), Title: "shared term"})
			}
			e := newEngine(t, records...)

			results, err := e.Search(&types.SearchQuery{Query: "shared", Limit: tt.limit})
			if err != nil {
				t.Fatal(err)
			}
			if len(results.Patterns) != tt.wantPatterns || len(results.Examples) != tt.wantExamples {
				t.Errorf("got %d/%d, want %d/%d",
					len(results.Patterns), len(results.Examples), tt.wantPatterns, tt.wantExamples)
			}
			if results.TotalResults != tt.patterns+tt.examples {
				t.Errorf("totalResults = %d, want unlimited count %d", results.TotalResults, tt.patterns+tt.examples)
			}
		})
	}
}

func TestIndexPreFilterAgreesWithFullScan(t *testing.T) {
	records := []types.Record{
		&types.Pattern{ID: "p-1", Name: "callback handler", Category: "events"},
		&types.Pattern{ID: "p-2", Name: "callback handler", Category: "http"},
		&types.Example{ID: "e-1", Title: "callback handler", Category: "events"},
	}
	e := newEngine(t, records...)

	filtered, err := e.Search(&types.SearchQuery{Query: "callback", Category: "events"})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered.Patterns) != 1 || filtered.Patterns[0].ID != "p-1" || len(filtered.Examples) != 1 {
		t.Errorf("index pre-filter returned wrong candidates: %+v", filtered)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	a := CacheKey(&types.SearchQuery{Query: "  Switch  CONDITIONAL ", Category: "loops"})
	b := CacheKey(&types.SearchQuery{Query: "switch conditional", Category: "loops"})
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	c := CacheKey(&types.SearchQuery{Query: "switch conditional", Category: "loops", FuzzyMatch: true})
	if a == c {
		t.Error("fuzzy flag must change the key")
	}
	d := CacheKey(&types.SearchQuery{Query: "switch conditional", Category: "loops", Limit: 5})
	if a == d {
		t.Error("limit must change the key")
	}
}
