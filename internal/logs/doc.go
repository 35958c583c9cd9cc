// Package logs reads the JSON log file written by the storevisit CLI.
//
// Tail returns the last N lines (optionally only those mentioning a session
// id) together with the byte offset to resume from, and can poll for new
// lines until a wait deadline passes. The `storevisit logs` command drives it
// in a loop for --follow.
package logs
