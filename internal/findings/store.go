package findings

import (
	"errors"
	"fmt"
	"sync"

	"storevisit/internal/taxonomy"
)

var (
	// ErrCapacity reports that an append would exceed a configured limit.
	ErrCapacity = errors.New("findings capacity exhausted")
	// ErrUnknownCategory reports a record whose category is not in the taxonomy.
	ErrUnknownCategory = errors.New("unknown category")
)

// Store maps category names to their records in insertion order. Keys are
// always taxonomy categories; iteration follows taxonomy registration order.
type Store struct {
	tax        *taxonomy.Taxonomy
	maxRecords int

	mu         sync.RWMutex
	byCategory map[string][]Record
	total      int
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithMaxRecords caps the total number of records the store accepts. Zero or a
// negative value means unlimited.
func WithMaxRecords(n int) StoreOption {
	return func(s *Store) {
		s.maxRecords = n
	}
}

// NewStore creates an empty store bound to tax.
func NewStore(tax *taxonomy.Taxonomy, opts ...StoreOption) *Store {
	s := &Store{
		tax:        tax,
		byCategory: make(map[string][]Record, tax.Len()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fits reports whether n more records can be appended.
func (s *Store) Fits(n int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitsLocked(n)
}

func (s *Store) fitsLocked(n int) bool {
	return s.maxRecords <= 0 || s.total+n <= s.maxRecords
}

// Append adds records atomically: either every record is appended, in order,
// or none is.
func (s *Store) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if !s.tax.Contains(rec.Category) {
			return fmt.Errorf("append %q: %w", rec.Category, ErrUnknownCategory)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fitsLocked(len(records)) {
		return fmt.Errorf("append %d records (have %d, max %d): %w", len(records), s.total, s.maxRecords, ErrCapacity)
	}
	for _, rec := range records {
		s.byCategory[rec.Category] = append(s.byCategory[rec.Category], rec)
	}
	s.total += len(records)
	return nil
}

// Records returns a copy of the records filed under category.
func (s *Store) Records(category string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.byCategory[category]...)
}

// Categories returns the categories that hold at least one record, in
// taxonomy order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byCategory))
	for _, name := range s.tax.Names() {
		if len(s.byCategory[name]) > 0 {
			out = append(out, name)
		}
	}
	return out
}

// All returns every record grouped by category in taxonomy order, each group
// in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, s.total)
	for _, name := range s.tax.Names() {
		out = append(out, s.byCategory[name]...)
	}
	return out
}

// Len reports the total number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCategory = make(map[string][]Record, s.tax.Len())
	s.total = 0
}
