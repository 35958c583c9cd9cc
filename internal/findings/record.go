package findings

import "time"

// Candidate is a category assignment proposed by the structured extractor or
// the keyword classifier. It is not yet part of any store.
type Candidate struct {
	Category   string  `json:"category"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Record is one classified observation held by a Store. Records are values;
// the store never edits one after it has been appended.
type Record struct {
	Category   string    `json:"category"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewRecord stamps a candidate with the merge time.
func NewRecord(c Candidate, at time.Time) Record {
	return Record{
		Category:   c.Category,
		Text:       c.Text,
		Confidence: c.Confidence,
		RecordedAt: at,
	}
}

// Entry is one transcript fragment.
type Entry struct {
	Text       string    `json:"text"`
	RecordedAt time.Time `json:"recorded_at"`
}
