// Package telemetry records search traffic to Parquet files for offline
// analysis. Events are buffered in memory and flushed in batches; a
// Recorder is safe for concurrent use.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/patternbase/pkg/types"
)

// SearchEvent is one executed search, flattened for columnar storage.
type SearchEvent struct {
	ID              string    `parquet:"id"`
	Timestamp       time.Time `parquet:"timestamp"`
	Query           string    `parquet:"query"`
	Category        string    `parquet:"category"`
	ServerType      string    `parquet:"server_type"`
	Difficulty      string    `parquet:"difficulty"`
	FuzzyMatch      bool      `parquet:"fuzzy_match"`
	Limit           int       `parquet:"limit"`
	Patterns        int       `parquet:"patterns"`
	Examples        int       `parquet:"examples"`
	TotalResults    int       `parquet:"total_results"`
	CacheHit        bool      `parquet:"cache_hit"`
	ExecutionTimeMs int64     `parquet:"execution_time_ms"`
}

// Recorder buffers search events and writes them out as Parquet files,
// one file per flush.
type Recorder struct {
	outputDir string
	logger    *slog.Logger

	mu        sync.Mutex
	buffer    []SearchEvent
	batchSize int
}

// NewRecorder creates a recorder writing under outputDir. The directory
// is created if missing.
func NewRecorder(outputDir string, logger *slog.Logger) (*Recorder, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		outputDir: outputDir,
		logger:    logger,
		batchSize: 100,
		buffer:    make([]SearchEvent, 0, 100),
	}, nil
}

// Record buffers one search execution. The buffer is flushed once it
// reaches the batch size.
func (r *Recorder) Record(q *types.SearchQuery, results *types.SearchResults, cacheHit bool) {
	event := SearchEvent{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		Query:      q.Query,
		Category:   q.Category,
		ServerType: q.ServerType,
		Difficulty: string(q.Difficulty),
		FuzzyMatch: q.FuzzyMatch,
		Limit:      q.Limit,
		CacheHit:   cacheHit,
	}
	if results != nil {
		event.Patterns = len(results.Patterns)
		event.Examples = len(results.Examples)
		event.TotalResults = results.TotalResults
		event.ExecutionTimeMs = results.ExecutionTimeMs
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, event)
	if len(r.buffer) >= r.batchSize {
		if err := r.flush(); err != nil {
			r.logger.Error("telemetry flush failed", "error", err)
		}
	}
}

// Flush writes any buffered events to a new Parquet file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Close flushes remaining events.
func (r *Recorder) Close() error {
	return r.Flush()
}

// Len returns the number of buffered, unflushed events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

// flush writes the buffer; caller must hold the lock.
func (r *Recorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	name := fmt.Sprintf("search_events_%s_%d.parquet",
		time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, name)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		return fmt.Errorf("failed to write telemetry file %s: %w", path, err)
	}

	r.logger.Debug("telemetry batch written", "path", path, "events", len(r.buffer))
	r.buffer = r.buffer[:0]
	return nil
}
