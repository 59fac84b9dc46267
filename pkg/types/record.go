package types

import (
	"errors"
	"time"
)

// Validation errors
var (
	ErrEmptyID           = errors.New("id cannot be empty")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInvalidDifficulty = errors.New("difficulty must be beginner, intermediate, or advanced")
)

// Difficulty classifies a record by skill level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Severity classifies a security rule.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Kind identifies a record variant. Each variant has its own collection
// and ID namespace inside the store.
type Kind string

const (
	KindPattern      Kind = "pattern"
	KindExample      Kind = "example"
	KindSecurityRule Kind = "security_rule"
	KindDialect      Kind = "dialect"
	KindLearningPath Kind = "learning_path"
)

// Classification holds the filterable/indexable fields shared by all
// record variants. Variants that lack a field leave it zero.
type Classification struct {
	Category   string
	Difficulty Difficulty
	Servers    []string
	Tags       []string
}

// Record is the capability shared by every stored knowledge item. The
// store keys records by (Kind, ID) and derives its secondary indexes from
// Classify.
type Record interface {
	RecordID() string
	RecordKind() Kind
	Classify() Classification
}

// Pattern is a reusable code pattern with a worked good/bad example pair.
type Pattern struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Difficulty          Difficulty `json:"difficulty"`
	ServerCompatibility []string   `json:"serverCompatibility"`
	Tags                []string   `json:"tags"`
	GoodExample         string     `json:"goodExample,omitempty"`
	BadExample          string     `json:"badExample,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	Confidence          float64    `json:"confidence,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (p *Pattern) RecordID() string { return p.ID }

func (p *Pattern) RecordKind() Kind { return KindPattern }

func (p *Pattern) Classify() Classification {
	return Classification{
		Category:   p.Category,
		Difficulty: p.Difficulty,
		Servers:    p.ServerCompatibility,
		Tags:       p.Tags,
	}
}

// Example is a standalone, runnable code example.
type Example struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Difficulty          Difficulty `json:"difficulty"`
	ServerCompatibility []string   `json:"serverCompatibility"`
	Tags                []string   `json:"tags"`
	Code                string     `json:"code,omitempty"`
	Explanation         string     `json:"explanation,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (e *Example) RecordID() string { return e.ID }

func (e *Example) RecordKind() Kind { return KindExample }

func (e *Example) Classify() Classification {
	return Classification{
		Category:   e.Category,
		Difficulty: e.Difficulty,
		Servers:    e.ServerCompatibility,
		Tags:       e.Tags,
	}
}

// SecurityRule is a security guideline with severity and a concrete
// recommendation.
type SecurityRule struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Severity       Severity  `json:"severity"`
	Recommendation string    `json:"recommendation,omitempty"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (r *SecurityRule) RecordID() string { return r.ID }

func (r *SecurityRule) RecordKind() Kind { return KindSecurityRule }

func (r *SecurityRule) Classify() Classification {
	return Classification{
		Category: r.Category,
		Tags:     r.Tags,
	}
}

// Dialect describes a server dialect and the features it supports. The
// dialect's own name doubles as its server-compatibility value so that
// ByServer lookups surface the dialect description alongside compatible
// patterns.
type Dialect struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Features    []string  `json:"features,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Dialect) RecordID() string { return d.ID }

func (d *Dialect) RecordKind() Kind { return KindDialect }

func (d *Dialect) Classify() Classification {
	return Classification{
		Servers: []string{d.Name},
		Tags:    d.Tags,
	}
}

// LearningPath is an ordered sequence of patterns for a skill level.
type LearningPath struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	PatternIDs  []string   `json:"patternIds"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (l *LearningPath) RecordID() string { return l.ID }

func (l *LearningPath) RecordKind() Kind { return KindLearningPath }

func (l *LearningPath) Classify() Classification {
	return Classification{
		Difficulty: l.Difficulty,
		Tags:       l.Tags,
	}
}
