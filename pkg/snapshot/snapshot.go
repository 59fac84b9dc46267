// Package snapshot round-trips the record model through a badger
// keyspace. It is the durable-storage collaborator: the in-memory store
// stays authoritative, and a snapshot must load back exactly the records
// that were saved.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

// Store wraps a badger database holding one key per record, prefixed by
// variant: "pattern/<id>", "example/<id>", and so on.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a snapshot database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db at %s: %w", path, err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot with the store's current contents.
func (s *Store) Save(ks *store.KnowledgeStore) error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("failed to reset snapshot: %w", err)
	}

	records := ks.Records()
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", rec.RecordKind(), rec.RecordID(), err)
		}
		if err := wb.Set(recordKey(rec.RecordKind(), rec.RecordID()), payload); err != nil {
			return fmt.Errorf("failed to write %s %s: %w", rec.RecordKind(), rec.RecordID(), err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	s.logger.Info("snapshot saved", "records", len(records))
	return nil
}

// Load reads every snapshotted record into the store and returns how many
// were restored. Loading into a non-empty store follows the store's
// overwrite semantics.
func (s *Store) Load(ks *store.KnowledgeStore) (int, error) {
	restored := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			kind, ok := keyKind(item.Key())
			if !ok {
				continue
			}
			err := item.Value(func(val []byte) error {
				rec, err := decodeRecord(kind, val)
				if err != nil {
					return err
				}
				if err := ks.Add(rec); err != nil {
					return err
				}
				restored++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return restored, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.logger.Info("snapshot loaded", "records", restored)
	return restored, nil
}

func recordKey(kind types.Kind, id string) []byte {
	return []byte(string(kind) + "/" + id)
}

func keyKind(key []byte) (types.Kind, bool) {
	i := bytes.IndexByte(key, '/')
	if i < 0 {
		return "", false
	}
	kind := types.Kind(key[:i])
	switch kind {
	case types.KindPattern, types.KindExample, types.KindSecurityRule,
		types.KindDialect, types.KindLearningPath:
		return kind, true
	}
	return "", false
}

func decodeRecord(kind types.Kind, payload []byte) (types.Record, error) {
	var rec types.Record
	switch kind {
	case types.KindPattern:
		rec = &types.Pattern{}
	case types.KindExample:
		rec = &types.Example{}
	case types.KindSecurityRule:
		rec = &types.SecurityRule{}
	case types.KindDialect:
		rec = &types.Dialect{}
	case types.KindLearningPath:
		rec = &types.LearningPath{}
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if err := json.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", kind, err)
	}
	return rec, nil
}
