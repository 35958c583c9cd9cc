// Package dedup collapses near-identical candidates within one pipeline
// invocation.
package dedup

import (
	"storevisit/internal/findings"
	"storevisit/internal/textutil"
)

// DefaultPrefixLength is the number of leading runes of a candidate's text
// that take part in its key.
const DefaultPrefixLength = 50

// Config controls deduplication behavior.
type Config struct {
	PrefixLength int // runes of text in the key (default 50)
}

// Key identifies candidates that collapse together. Two texts sharing the
// same prefix collide even if they diverge later.
type Key struct {
	Category string
	Prefix   string
}

// Deduplicator drops repeated candidates from a batch.
type Deduplicator struct {
	cfg Config
}

// New creates a Deduplicator. A non-positive PrefixLength uses the default.
func New(cfg Config) *Deduplicator {
	if cfg.PrefixLength <= 0 {
		cfg.PrefixLength = DefaultPrefixLength
	}
	return &Deduplicator{cfg: cfg}
}

// KeyOf returns the dedup key for c.
func (d *Deduplicator) KeyOf(c findings.Candidate) Key {
	return Key{Category: c.Category, Prefix: textutil.PrefixRunes(c.Text, d.cfg.PrefixLength)}
}

// DeduplicateBatch keeps the first candidate per key, in first-occurrence
// order. Nothing outside the batch is consulted, so the same text submitted
// in a later invocation survives again.
func (d *Deduplicator) DeduplicateBatch(candidates []findings.Candidate) []findings.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	seen := make(map[Key]struct{}, len(candidates))
	out := make([]findings.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := d.KeyOf(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
