// Package findings holds the per-session state the classification pipeline
// writes to: the category-keyed Store of observation records and the
// TranscriptLog of resolved input text.
//
// Both structures are append-only with all-or-nothing batch appends and an
// optional capacity limit; exceeding it yields ErrCapacity, which callers
// surface as a store write failure. Neither structure deduplicates.
package findings
