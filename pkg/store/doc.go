// Package store implements the in-memory indexed knowledge store.
//
// Records live in one owned collection per variant; secondary indexes
// (category, server compatibility, difficulty) hold only record references,
// never copies, so the primary maps and the indexes cannot diverge.
//
// # Index Maintenance
//
// Index maintenance happens synchronously inside Add: after the record is
// written to its primary map, its reference is appended to every matching
// index bucket. Buckets therefore enumerate records in insertion order,
// and lookups cost O(bucket size) rather than O(total records).
//
// Re-inserting an existing ID replaces the record and first strips the old
// value's index references, so an update can never leave a stale bucket
// entry behind. Apart from that overwrite path, index entries are only
// removed by Clear.
//
// # Concurrency
//
// The store guards all state with a single RWMutex: Add and Clear take the
// write lock, every lookup takes the read lock. Callers never need external
// serialization.
package store
