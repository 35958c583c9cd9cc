package classifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"storevisit/internal/findings"
	"storevisit/internal/taxonomy"
)

// Classifier assigns categories by literal keyword containment.
type Classifier struct {
	tax       *taxonomy.Taxonomy
	policy    ConfidencePolicy
	normalize bool

	// keywords mirrors tax in registration order, pre-normalized when
	// normalization is enabled.
	keywords [][]string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPolicy replaces the confidence policy. A nil policy is ignored.
func WithPolicy(p ConfidencePolicy) Option {
	return func(c *Classifier) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithUnicodeNormalization matches on the NFC forms of the input and the
// keywords, so decomposed kana (e.g. "か"+U+3099) still match "が". The
// candidate text is always the original input.
func WithUnicodeNormalization(enabled bool) Option {
	return func(c *Classifier) {
		c.normalize = enabled
	}
}

// New builds a classifier over tax.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Classifier {
	c := &Classifier{
		tax:    tax,
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	cats := tax.Categories()
	c.keywords = make([][]string, len(cats))
	for i, cat := range cats {
		kws := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			if c.normalize {
				kw = norm.NFC.String(kw)
			}
			kws = append(kws, kw)
		}
		c.keywords[i] = kws
	}
	return c
}

// Classify returns one candidate per category with at least one keyword hit,
// in taxonomy order. Matching is case-sensitive substring containment; each
// distinct keyword counts once no matter how often it occurs.
func (c *Classifier) Classify(text string) []findings.Candidate {
	subject := text
	if c.normalize {
		subject = norm.NFC.String(text)
	}
	names := c.tax.Names()
	var out []findings.Candidate
	for i, kws := range c.keywords {
		matched := CountMatches(subject, kws)
		if matched == 0 {
			continue
		}
		out = append(out, findings.Candidate{
			Category:   names[i],
			Text:       text,
			Confidence: c.policy(matched),
		})
	}
	return out
}

// CountMatches reports how many of keywords occur in text. Empty keywords
// never match.
func CountMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
