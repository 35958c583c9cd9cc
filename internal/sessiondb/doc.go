// Package sessiondb persists inspection sessions in SQLite so findings and
// transcripts survive between CLI runs.
//
// Each submission is written by Commit in a single transaction: the batch of
// records and the one transcript entry are stored together. Schema changes
// bump schemaVersion; a database with another version fails to open with
// ErrSchemaMismatch.
package sessiondb
