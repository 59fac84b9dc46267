// Package types defines the core data types for the patternbase knowledge store.
//
// This package contains the record model and the query/response contract:
//   - Pattern: A reusable code pattern with good/bad examples
//   - Example: A standalone code example
//   - SecurityRule: A security guideline with severity and recommendation
//   - Dialect: A description of a server dialect and its feature set
//   - LearningPath: An ordered sequence of patterns for a skill level
//   - SearchQuery/SearchResults: The search contract consumed by transports
//
// # Record Identity
//
// Every record carries a string ID that is unique within its variant's
// collection. Inserting a record with an existing ID replaces the previous
// record rather than duplicating it.
//
// # Classification
//
// Category, difficulty, server compatibility, and tags are classification
// fields: they drive secondary indexes and hard query filters. Free-text
// fields (name, title, description, bodies) participate only in relevance
// scoring, never in filtering.
//
// # Validation
//
// Query types provide Validate() methods. Validation failures are the only
// errors this layer produces; lookup misses are represented as (value, bool)
// returns by the store and cache, not as errors.
package types
