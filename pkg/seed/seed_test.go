package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

const yamlSeed = `
patterns:
  - id: switch-function
    name: Switch Function
    category: conditionals
    difficulty: beginner
    serverCompatibility: [oxmysql]
    tags: [switch, conditional]
examples:
  - title: Basic Object Creation
    category: objects
securityRules:
  - id: param-queries
    name: Parameterize Queries
    category: sql-injection
    severity: critical
`

const jsonSeed = `{
  "dialects": [{"id": "d-oxmysql", "name": "oxmysql", "description": "async mysql"}],
  "learningPaths": [{"title": "Getting Started", "difficulty": "beginner", "patternIds": ["switch-function"]}]
}`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLFile(t *testing.T) {
	file, err := LoadFile(writeSeed(t, "seed.yaml", yamlSeed))
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Patterns) != 1 || len(file.Examples) != 1 || len(file.SecurityRules) != 1 {
		t.Fatalf("unexpected counts: %+v", file)
	}

	p := file.Patterns[0]
	if p.Name != "Switch Function" || p.Difficulty != types.DifficultyBeginner {
		t.Errorf("pattern fields lost in YAML bridge: %+v", p)
	}
	if len(p.ServerCompatibility) != 1 || p.ServerCompatibility[0] != "oxmysql" {
		t.Errorf("camelCase keys must survive the bridge: %v", p.ServerCompatibility)
	}
}

func TestRecordsAssignsIDsAndTimestamps(t *testing.T) {
	file, err := LoadFile(writeSeed(t, "seed.yaml", yamlSeed))
	if err != nil {
		t.Fatal(err)
	}

	records := file.Records()
	if len(records) != 3 {
		t.Fatalf("records = %d", len(records))
	}
	for _, rec := range records {
		if rec.RecordID() == "" {
			t.Errorf("record of kind %s missing id", rec.RecordKind())
		}
	}
	// The example had no id in the file.
	if file.Examples[0].ID == "" {
		t.Error("example id not assigned")
	}
	if file.Examples[0].CreatedAt.IsZero() || file.Examples[0].UpdatedAt.IsZero() {
		t.Error("timestamps not stamped")
	}
	// Explicit ids are preserved.
	if file.Patterns[0].ID != "switch-function" {
		t.Errorf("explicit id overwritten: %s", file.Patterns[0].ID)
	}
}

func TestPopulate(t *testing.T) {
	s := store.New(nil)
	paths := []string{
		writeSeed(t, "a.yaml", yamlSeed),
		writeSeed(t, "b.json", jsonSeed),
	}

	added, err := Populate(s, paths, nil)
	if err != nil {
		t.Fatal(err)
	}
	if added != 5 {
		t.Errorf("added = %d, want 5", added)
	}

	stats := s.Stats()
	if stats.Patterns != 1 || stats.Examples != 1 || stats.SecurityRules != 1 ||
		stats.Dialects != 1 || stats.LearningPaths != 1 {
		t.Errorf("unexpected stats after populate: %+v", stats)
	}

	if got := s.ByServer("oxmysql"); len(got) != 2 {
		t.Errorf("expected pattern and dialect under oxmysql, got %d", len(got))
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(writeSeed(t, "bad.json", "{not json")); err == nil {
		t.Error("expected error for malformed json")
	}
}
