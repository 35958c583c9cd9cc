package findings

import (
	"fmt"
	"strings"
	"sync"
)

// TranscriptLog is the append-only history of resolved transcripts. It is
// independent of the Store: an invocation that yields no records still logs.
type TranscriptLog struct {
	maxEntries int

	mu      sync.RWMutex
	entries []Entry
}

// NewTranscriptLog creates an empty log. maxEntries <= 0 means unlimited.
func NewTranscriptLog(maxEntries int) *TranscriptLog {
	return &TranscriptLog{maxEntries: maxEntries}
}

// Fits reports whether n more entries can be appended.
func (l *TranscriptLog) Fits(n int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxEntries <= 0 || len(l.entries)+n <= l.maxEntries
}

// Append adds entries atomically.
func (l *TranscriptLog) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxEntries > 0 && len(l.entries)+len(entries) > l.maxEntries {
		return fmt.Errorf("append transcript (have %d, max %d): %w", len(l.entries), l.maxEntries, ErrCapacity)
	}
	l.entries = append(l.entries, entries...)
	return nil
}

// Entries returns a copy of the log.
func (l *TranscriptLog) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of entries.
func (l *TranscriptLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Text joins every entry with newlines.
func (l *TranscriptLog) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	parts := make([]string, len(l.entries))
	for i, e := range l.entries {
		parts[i] = e.Text
	}
	return strings.Join(parts, "\n")
}

// Reset drops every entry.
func (l *TranscriptLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
