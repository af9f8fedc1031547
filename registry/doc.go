// Package registry parses a hardware API registry document into raw
// records and lowers them into the type database.
//
// Parsing is speculative: the registry's elements change meaning with
// context (a type element may be a typedef, a handle macro, a struct, or
// an external reference), so each alternative is tried against a saved
// tokenizer snapshot and the cursor is restored on mismatch. A shape
// that matches nothing is skipped whole; only malformed numeric
// literals fail the run.
//
// The pipeline over one document is ParseDocument, then Resolve, then
// Merge, after which the type database holds the deduplicated, queryable model
// and every name that was referenced but never defined is reported by
// its unresolved list.
package registry
