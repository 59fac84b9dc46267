package store

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/soundprediction/patternbase/pkg/types"
)

// Version is reported by Stats and lets callers detect incompatible
// snapshot payloads.
const Version = "1.3.0"

// ErrNilRecord is returned when Add is called with a nil or ID-less record.
var ErrNilRecord = errors.New("record must be non-nil and carry an id")

// ref locates a record in its variant's primary map. Index buckets hold
// refs, not record copies.
type ref struct {
	kind types.Kind
	id   string
}

// KnowledgeStore owns all records keyed by identity plus the secondary
// indexes derived from their classification fields.
type KnowledgeStore struct {
	mu sync.RWMutex

	patterns      map[string]*types.Pattern
	examples      map[string]*types.Example
	securityRules map[string]*types.SecurityRule
	dialects      map[string]*types.Dialect
	learningPaths map[string]*types.LearningPath

	// Insertion order per searchable variant. An overwrite keeps the
	// record's original position so ranking tie-breaks stay stable.
	patternOrder []string
	exampleOrder []string

	byCategory   map[string][]ref
	byServer     map[string][]ref
	byDifficulty map[string][]ref

	lastUpdated time.Time
	logger      *slog.Logger
}

// New creates an empty store. The logger may be nil.
func New(logger *slog.Logger) *KnowledgeStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &KnowledgeStore{logger: logger}
	s.reset()
	return s
}

// reset reinitializes the primary maps and index buckets. Callers hold the
// write lock (or own the store exclusively, as in New).
func (s *KnowledgeStore) reset() {
	s.patterns = make(map[string]*types.Pattern)
	s.examples = make(map[string]*types.Example)
	s.securityRules = make(map[string]*types.SecurityRule)
	s.dialects = make(map[string]*types.Dialect)
	s.learningPaths = make(map[string]*types.LearningPath)
	s.patternOrder = nil
	s.exampleOrder = nil

	// Keep previously seen classification values as empty buckets so a
	// cleared store answers the same lookups it did before, just emptily.
	s.byCategory = emptyBuckets(s.byCategory)
	s.byServer = emptyBuckets(s.byServer)
	s.byDifficulty = emptyBuckets(s.byDifficulty)
	for _, d := range []types.Difficulty{types.DifficultyBeginner, types.DifficultyIntermediate, types.DifficultyAdvanced} {
		if _, ok := s.byDifficulty[string(d)]; !ok {
			s.byDifficulty[string(d)] = nil
		}
	}
}

func emptyBuckets(old map[string][]ref) map[string][]ref {
	fresh := make(map[string][]ref, len(old))
	for k := range old {
		fresh[k] = nil
	}
	return fresh
}

// Add inserts or replaces a record and updates every secondary index
// derived from its classification fields. It fails only for nil or
// ID-less records; duplicate IDs overwrite the previous record.
func (s *KnowledgeStore) Add(rec types.Record) error {
	if rec == nil || rec.RecordID() == "" {
		return ErrNilRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.RecordID()
	kind := rec.RecordKind()

	if old, ok := s.lookup(kind, id); ok {
		// Overwrite: strip the old value's index references first so a
		// changed classification cannot leave stale bucket entries.
		s.removeFromIndexes(old.Classify(), ref{kind, id})
	} else {
		switch kind {
		case types.KindPattern:
			s.patternOrder = append(s.patternOrder, id)
		case types.KindExample:
			s.exampleOrder = append(s.exampleOrder, id)
		}
	}

	switch r := rec.(type) {
	case *types.Pattern:
		s.patterns[id] = r
	case *types.Example:
		s.examples[id] = r
	case *types.SecurityRule:
		s.securityRules[id] = r
	case *types.Dialect:
		s.dialects[id] = r
	case *types.LearningPath:
		s.learningPaths[id] = r
	default:
		return ErrNilRecord
	}

	s.appendToIndexes(rec.Classify(), ref{kind, id})
	s.lastUpdated = time.Now()

	s.logger.Debug("record added", "kind", string(kind), "id", id)
	return nil
}

func (s *KnowledgeStore) appendToIndexes(c types.Classification, r ref) {
	if c.Category != "" {
		s.byCategory[c.Category] = append(s.byCategory[c.Category], r)
	}
	for _, server := range c.Servers {
		s.byServer[server] = append(s.byServer[server], r)
	}
	if c.Difficulty != "" {
		s.byDifficulty[string(c.Difficulty)] = append(s.byDifficulty[string(c.Difficulty)], r)
	}
}

func (s *KnowledgeStore) removeFromIndexes(c types.Classification, r ref) {
	if c.Category != "" {
		s.byCategory[c.Category] = dropRef(s.byCategory[c.Category], r)
	}
	for _, server := range c.Servers {
		s.byServer[server] = dropRef(s.byServer[server], r)
	}
	if c.Difficulty != "" {
		s.byDifficulty[string(c.Difficulty)] = dropRef(s.byDifficulty[string(c.Difficulty)], r)
	}
}

func dropRef(bucket []ref, r ref) []ref {
	return slices.DeleteFunc(bucket, func(x ref) bool { return x == r })
}

// lookup resolves a ref against the primary maps. Callers hold a lock.
func (s *KnowledgeStore) lookup(kind types.Kind, id string) (types.Record, bool) {
	switch kind {
	case types.KindPattern:
		if p, ok := s.patterns[id]; ok {
			return p, true
		}
	case types.KindExample:
		if e, ok := s.examples[id]; ok {
			return e, true
		}
	case types.KindSecurityRule:
		if r, ok := s.securityRules[id]; ok {
			return r, true
		}
	case types.KindDialect:
		if d, ok := s.dialects[id]; ok {
			return d, true
		}
	case types.KindLearningPath:
		if l, ok := s.learningPaths[id]; ok {
			return l, true
		}
	}
	return nil, false
}

// Get returns the record with the given variant and ID. A miss is a normal
// outcome, not an error.
func (s *KnowledgeStore) Get(kind types.Kind, id string) (types.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(kind, id)
}

// Pattern returns the pattern with the given ID.
func (s *KnowledgeStore) Pattern(id string) (*types.Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[id]
	return p, ok
}

// Example returns the example with the given ID.
func (s *KnowledgeStore) Example(id string) (*types.Example, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.examples[id]
	return e, ok
}

// Patterns returns all patterns in insertion order.
func (s *KnowledgeStore) Patterns() []*types.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Pattern, 0, len(s.patternOrder))
	for _, id := range s.patternOrder {
		out = append(out, s.patterns[id])
	}
	return out
}

// Examples returns all examples in insertion order.
func (s *KnowledgeStore) Examples() []*types.Example {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Example, 0, len(s.exampleOrder))
	for _, id := range s.exampleOrder {
		out = append(out, s.examples[id])
	}
	return out
}

// Records returns every record in the store, grouped by variant. Used by
// persistence collaborators that must round-trip the full data model.
func (s *KnowledgeStore) Records() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Record, 0,
		len(s.patterns)+len(s.examples)+len(s.securityRules)+len(s.dialects)+len(s.learningPaths))
	for _, id := range s.patternOrder {
		out = append(out, s.patterns[id])
	}
	for _, id := range s.exampleOrder {
		out = append(out, s.examples[id])
	}
	for _, r := range s.securityRules {
		out = append(out, r)
	}
	for _, d := range s.dialects {
		out = append(out, d)
	}
	for _, l := range s.learningPaths {
		out = append(out, l)
	}
	return out
}

// ByCategory returns the records whose category matches, in insertion
// order. The result reflects the index, not a re-scan of the full set.
func (s *KnowledgeStore) ByCategory(category string) []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byCategory[category])
}

// ByServer returns the records compatible with the given server dialect,
// in insertion order.
func (s *KnowledgeStore) ByServer(server string) []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byServer[server])
}

// ByDifficulty returns the records with the given difficulty, in insertion
// order.
func (s *KnowledgeStore) ByDifficulty(d types.Difficulty) []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byDifficulty[string(d)])
}

func (s *KnowledgeStore) resolve(bucket []ref) []types.Record {
	out := make([]types.Record, 0, len(bucket))
	for _, r := range bucket {
		if rec, ok := s.lookup(r.kind, r.id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Clear resets the store to empty and reinitializes empty index buckets
// for every known classification value. Calling Clear twice is the same
// as calling it once.
func (s *KnowledgeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.lastUpdated = time.Now()
	s.logger.Info("knowledge store cleared")
}

// Stats returns record counts per variant and the last-updated timestamp.
func (s *KnowledgeStore) Stats() types.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.StoreStats{
		Patterns:      len(s.patterns),
		Dialects:      len(s.dialects),
		SecurityRules: len(s.securityRules),
		Examples:      len(s.examples),
		LearningPaths: len(s.learningPaths),
		LastUpdated:   s.lastUpdated,
		Version:       Version,
	}
}
