package session

import (
	"time"

	"storevisit/internal/findings"
)

// CategoryFindings holds the texts recorded under one category.
type CategoryFindings struct {
	Category string   `json:"category"`
	Texts    []string `json:"texts"`
}

// Snapshot is a read-only copy of a session for reporting.
type Snapshot struct {
	SessionID  string             `json:"session_id"`
	TakenAt    time.Time          `json:"taken_at"`
	Categories []CategoryFindings `json:"categories"`
	Records    []findings.Record  `json:"records"`
	Transcript string             `json:"transcript"`
	Entries    []findings.Entry   `json:"transcript_entries"`
}

// Snapshot copies the current store and log. Categories without records are
// omitted; the rest follow taxonomy order.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SessionID:  s.id,
		TakenAt:    s.now(),
		Categories: []CategoryFindings{},
		Records:    s.store.All(),
		Transcript: s.log.Text(),
		Entries:    s.log.Entries(),
	}
	for _, name := range s.store.Categories() {
		records := s.store.Records(name)
		texts := make([]string, len(records))
		for i, rec := range records {
			texts[i] = rec.Text
		}
		snap.Categories = append(snap.Categories, CategoryFindings{Category: name, Texts: texts})
	}
	return snap
}

// Len reports the number of records and transcript entries.
func (s *Session) Len() (records, entries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len(), s.log.Len()
}
