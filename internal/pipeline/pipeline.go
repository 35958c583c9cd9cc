package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storevisit/internal/classifier"
	"storevisit/internal/dedup"
	"storevisit/internal/extract"
	"storevisit/internal/findings"
	"storevisit/internal/logging"
	"storevisit/internal/taxonomy"
	"storevisit/internal/textutil"
)

// DefaultFallbackTranscript replaces a transcript that resolved to blank text.
const DefaultFallbackTranscript = "（音声を認識できませんでした）"

// Path records which branch produced the candidates.
type Path int

const (
	PathNone Path = iota
	PathStructured
	PathFallback
)

func (p Path) String() string {
	switch p {
	case PathStructured:
		return "structured"
	case PathFallback:
		return "fallback"
	default:
		return "none"
	}
}

// MarshalText renders the path name in JSON output.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a path name.
func (p *Path) UnmarshalText(text []byte) error {
	switch string(text) {
	case "structured":
		*p = PathStructured
	case "fallback":
		*p = PathFallback
	case "none", "":
		*p = PathNone
	default:
		return fmt.Errorf("unknown pipeline path %q", text)
	}
	return nil
}

// Decoded is the taxonomy-independent outcome of reading one raw response.
type Decoded struct {
	Path       Path
	Transcript string
	Candidates []findings.Candidate
	// RawTranscript is set on the structured path when the payload carried no
	// transcript and the raw response stands in for it.
	RawTranscript bool
	// ExtractErr is why the structured path was not taken. Nil on the
	// structured path.
	ExtractErr error
}

// Result is what one invocation hands back to the submitter. It is always
// well formed: on failure Transcript holds the placeholder and NewRecords is
// empty.
type Result struct {
	Transcript string            `json:"transcript"`
	NewRecords []findings.Record `json:"new_records"`
	Path       Path              `json:"path"`
	// Dropped lists candidates naming categories outside the taxonomy.
	Dropped []findings.Candidate `json:"dropped,omitempty"`
	// Duplicates counts candidates collapsed by the batch deduplicator.
	Duplicates int `json:"duplicates,omitempty"`
}

// Pipeline turns raw model text into records. It holds no findings state;
// committing a Result is the caller's job.
type Pipeline struct {
	tax                *taxonomy.Taxonomy
	classifier         *classifier.Classifier
	dedup              *dedup.Deduplicator
	fallbackTranscript string
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithDeduplicator replaces the default 50-rune deduplicator.
func WithDeduplicator(d *dedup.Deduplicator) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.dedup = d
		}
	}
}

// WithFallbackTranscript sets the placeholder used for blank transcripts.
func WithFallbackTranscript(text string) Option {
	return func(p *Pipeline) {
		if !textutil.IsBlank(text) {
			p.fallbackTranscript = text
		}
	}
}

// WithLogger attaches a logger. Nil keeps the no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a pipeline over tax.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Pipeline {
	p := &Pipeline{
		tax:                tax,
		fallbackTranscript: DefaultFallbackTranscript,
		logger:             logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.classifier == nil {
		p.classifier = classifier.New(tax)
	}
	if p.dedup == nil {
		p.dedup = dedup.New(dedup.Config{PrefixLength: dedup.DefaultPrefixLength})
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Taxonomy returns the categories the pipeline classifies against.
func (p *Pipeline) Taxonomy() *taxonomy.Taxonomy {
	return p.tax
}

// Decode tries the structured payload first and falls back to keyword
// matching over the raw text. Extraction failure is a branch, not an error.
func (p *Pipeline) Decode(raw string) Decoded {
	payload, err := extract.Parse(raw)
	if err == nil {
		return Decoded{
			Path:          PathStructured,
			Transcript:    payload.Transcript,
			Candidates:    payload.Items,
			RawTranscript: !payload.TranscriptFromPayload,
		}
	}
	return Decoded{
		Path:       PathFallback,
		Transcript: raw,
		Candidates: p.classifier.Classify(raw),
		ExtractErr: err,
	}
}

// Process decodes raw, deduplicates the batch, drops unknown categories, and
// stamps surviving candidates with now. It does not touch any store.
func (p *Pipeline) Process(ctx context.Context, raw string, now time.Time) Result {
	logger := logging.WithContext(ctx, p.logger)
	decoded := p.Decode(raw)
	if decoded.Path == PathFallback {
		logger.Debug("structured payload unavailable; using keyword classifier",
			logging.String("reason", extractReason(decoded.ExtractErr)),
			logging.String("raw", textutil.Snippet(raw, 80)),
		)
	}
	if decoded.Path == PathStructured && decoded.RawTranscript {
		logger.Debug("structured payload has no transcript; using raw response",
			logging.Bool("transcript_from_raw", true),
		)
	}

	unique := p.dedup.DeduplicateBatch(decoded.Candidates)
	result := Result{
		Transcript: p.ResolveTranscript(decoded.Transcript),
		NewRecords: make([]findings.Record, 0, len(unique)),
		Path:       decoded.Path,
		Duplicates: len(decoded.Candidates) - len(unique),
	}
	for _, cand := range unique {
		if !p.tax.Contains(cand.Category) {
			result.Dropped = append(result.Dropped, cand)
			logging.WarnWithContext(logger, "dropped candidate with unknown category", "unknown_category",
				logging.String("category", cand.Category),
				logging.String("text", textutil.Snippet(cand.Text, 60)),
				logging.String(logging.FieldErrorHint, "model returned a label outside the taxonomy"),
				logging.String(logging.FieldImpact, "observation not stored"),
			)
			continue
		}
		result.NewRecords = append(result.NewRecords, findings.NewRecord(cand, now))
	}

	attrs := []logging.Attr{
		logging.String("path", result.Path.String()),
		logging.Int("records", len(result.NewRecords)),
		logging.Int("dropped", len(result.Dropped)),
		logging.Int("duplicates", result.Duplicates),
	}
	if top, ok := topConfidence(result.NewRecords); ok {
		attrs = append(attrs, logging.Float64(logging.FieldConfidence, top))
	}
	logger.Info("observation classified", logging.Args(attrs...)...)
	return result
}

// ResolveTranscript substitutes the placeholder for blank text.
func (p *Pipeline) ResolveTranscript(text string) string {
	if textutil.IsBlank(text) {
		return p.fallbackTranscript
	}
	return text
}

// FailureResult is returned alongside an upstream model error.
func (p *Pipeline) FailureResult() Result {
	return Result{
		Transcript: p.fallbackTranscript,
		NewRecords: []findings.Record{},
		Path:       PathNone,
	}
}

func extractReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, extract.ErrNoPayload):
		return "no payload"
	case errors.Is(err, extract.ErrMalformedPayload):
		return "malformed payload"
	default:
		return err.Error()
	}
}

func topConfidence(records []findings.Record) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	top := records[0].Confidence
	for _, rec := range records[1:] {
		top = max(top, rec.Confidence)
	}
	return top, true
}
