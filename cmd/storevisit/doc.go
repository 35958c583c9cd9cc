// Command storevisit records store visit observations and files them under
// retail inspection categories.
//
// Typical use:
//
//	storevisit submit 値段が安い、特売の表示も見やすい
//	storevisit submit --audio memo.wav
//	storevisit findings
//	storevisit export -o visit.json
//
// State lives in a SQLite database under the configured data directory.
// Mutating commands take a file lock so concurrent invocations do not
// interleave.
package main
