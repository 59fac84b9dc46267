// Package patternbase provides an in-memory knowledge store for scripting
// reference data with relevance-ranked lexical search and a cached query
// path.
//
// Patternbase stores five record variants (patterns, examples, security
// rules, dialects, learning paths), keeps secondary indexes by category,
// server compatibility, and difficulty, and answers free-text queries with
// normalized relevance scores. Repeated queries are served from an LRU/TTL
// cache sitting in front of the search engine.
//
// # Basic Usage
//
// Create a client and populate it:
//
//	client := patternbase.NewClient(nil)
//	defer client.Close()
//
//	client.Add(&types.Pattern{
//		ID:       "switch-function",
//		Name:     "Switch Function",
//		Category: "conditionals",
//		Tags:     []string{"switch", "conditional"},
//	})
//
// # Searching
//
// Queries combine free text with hard filters:
//
//	results, err := client.Search(&types.SearchQuery{
//		Query:      "switch conditional",
//		Difficulty: types.DifficultyBeginner,
//		Limit:      10,
//	})
//
// Results contain ranked pattern and example matches with the tokens that
// matched. The cache is transparent: a cold cache returns identical
// results to a warm one, merely slower.
//
// # Lifecycle
//
// The client owns the cache's background expiry sweeper; call Close on
// shutdown to stop it. ClearAll resets both the store and the cache.
package patternbase
