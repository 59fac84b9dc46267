// Package seed populates the knowledge store from record files. Seed
// files are YAML or JSON documents holding any mix of record variants;
// records without an ID are assigned one on load.
package seed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

// File is the on-disk seed document shape.
type File struct {
	Patterns      []*types.Pattern      `json:"patterns"`
	Examples      []*types.Example      `json:"examples"`
	SecurityRules []*types.SecurityRule `json:"securityRules"`
	Dialects      []*types.Dialect      `json:"dialects"`
	LearningPaths []*types.LearningPath `json:"learningPaths"`
}

// Records flattens the file into the record list, assigning IDs and
// timestamps where the file left them empty.
func (f *File) Records() []types.Record {
	now := time.Now()
	var out []types.Record
	for _, p := range f.Patterns {
		p.ID = orNewID(p.ID)
		p.CreatedAt, p.UpdatedAt = stamp(p.CreatedAt, p.UpdatedAt, now)
		out = append(out, p)
	}
	for _, e := range f.Examples {
		e.ID = orNewID(e.ID)
		e.CreatedAt, e.UpdatedAt = stamp(e.CreatedAt, e.UpdatedAt, now)
		out = append(out, e)
	}
	for _, r := range f.SecurityRules {
		r.ID = orNewID(r.ID)
		r.CreatedAt, r.UpdatedAt = stamp(r.CreatedAt, r.UpdatedAt, now)
		out = append(out, r)
	}
	for _, d := range f.Dialects {
		d.ID = orNewID(d.ID)
		d.CreatedAt, d.UpdatedAt = stamp(d.CreatedAt, d.UpdatedAt, now)
		out = append(out, d)
	}
	for _, l := range f.LearningPaths {
		l.ID = orNewID(l.ID)
		l.CreatedAt, l.UpdatedAt = stamp(l.CreatedAt, l.UpdatedAt, now)
		out = append(out, l)
	}
	return out
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func stamp(created, updated, now time.Time) (time.Time, time.Time) {
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return created, updated
}

// LoadFile parses a single seed file. YAML documents are bridged through
// JSON so the record types keep a single set of struct tags.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
		}
		data, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert seed file %s: %w", path, err)
		}
	}

	file := &File{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return file, nil
}

// Populate loads every seed file into the store and returns the number of
// records added.
func Populate(s *store.KnowledgeStore, paths []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	added := 0
	for _, path := range paths {
		file, err := LoadFile(path)
		if err != nil {
			return added, err
		}
		for _, rec := range file.Records() {
			if err := s.Add(rec); err != nil {
				return added, fmt.Errorf("seed file %s: record %q: %w", path, rec.RecordID(), err)
			}
			added++
		}
		logger.Info("seed file loaded", "path", path)
	}
	return added, nil
}
