// Package search implements lexical relevance scoring over the knowledge
// store.
//
// The engine tokenizes the query's free text on whitespace (lower-cased),
// applies the structured filters as hard constraints, and scores every
// surviving pattern and example against its searchable content (name or
// title, description, and tags). With fuzzy matching a token scores on any
// substring hit; without it a token scores only on a whole-word match. The
// raw score is divided by the query token count so relevance always lies
// in [0,1].
//
// # Ranking
//
// Matches with score zero are dropped. The rest are sorted by score
// descending with a stable sort, so equal scores keep their insertion
// order. When a limit is set and the combined result count exceeds it, the
// limit is split proportionally: patterns receive the ceiling of their
// share, examples the remainder, and each list is truncated independently.
//
// # Empty Free Text
//
// A query whose free text tokenizes to nothing is treated as having no
// free-text constraint: every record passing the hard filters matches with
// relevance 1.0 and no matched terms. A query with neither free text nor
// filters is a validation error. TotalResults always reports the combined
// match count before limiting.
package search
