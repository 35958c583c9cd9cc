// Package session owns the findings store and transcript log of one store
// visit and is the only writer to them.
//
// Submissions are serialized by a weighted semaphore. Each one runs the
// pipeline, checks capacity, writes through the optional Persister, and only
// then appends to memory, so a failed submission leaves both the store and
// the log untouched. Every successful submission appends exactly one
// transcript entry, even when it yields no records.
//
// Open, Create, and Restore bind a session to a sessiondb.DB so state
// survives between CLI runs.
package session
