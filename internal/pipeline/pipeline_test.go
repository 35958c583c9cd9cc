package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"storevisit/internal/classifier"
	"storevisit/internal/dedup"
	"storevisit/internal/extract"
	"storevisit/internal/logging"
	"storevisit/internal/pipeline"
	"storevisit/internal/taxonomy"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(taxonomy.Default(), opts...)
}

func TestProcessStructuredRoundTrip(t *testing.T) {
	p := newPipeline()
	raw := `{"transcript":"この商品は安い","categorized_items":[{"category":"価格情報","text":"安い","confidence":0.8}]}`

	res := p.Process(context.Background(), raw, fixedNow)
	if res.Path != pipeline.PathStructured {
		t.Fatalf("expected structured path, got %s", res.Path)
	}
	if res.Transcript != "この商品は安い" {
		t.Fatalf("unexpected transcript %q", res.Transcript)
	}
	if len(res.NewRecords) != 1 {
		t.Fatalf("expected one record, got %#v", res.NewRecords)
	}
	rec := res.NewRecords[0]
	if rec.Category != "価格情報" || rec.Text != "安い" || math.Abs(rec.Confidence-0.8) > 1e-9 {
		t.Fatalf("unexpected record %#v", rec)
	}
	if !rec.RecordedAt.Equal(fixedNow) {
		t.Fatalf("expected merge timestamp %v, got %v", fixedNow, rec.RecordedAt)
	}
}

func TestProcessFallbackKeywordMatch(t *testing.T) {
	p := newPipeline()
	res := p.Process(context.Background(), "値段が安い", fixedNow)
	if res.Path != pipeline.PathFallback {
		t.Fatalf("expected fallback path, got %s", res.Path)
	}
	if res.Transcript != "値段が安い" {
		t.Fatalf("expected raw text as transcript, got %q", res.Transcript)
	}
	if len(res.NewRecords) != 1 || res.NewRecords[0].Category != "価格情報" {
		t.Fatalf("unexpected records %#v", res.NewRecords)
	}
	if math.Abs(res.NewRecords[0].Confidence-0.8) > 1e-9 {
		t.Fatalf("expected confidence 0.8, got %v", res.NewRecords[0].Confidence)
	}
}

func TestProcessFallbackKeepsUnclampedConfidence(t *testing.T) {
	res := newPipeline().Process(context.Background(), "価格が安い、値段も高いが割引あり", fixedNow)
	if len(res.NewRecords) != 1 || math.Abs(res.NewRecords[0].Confidence-1.1) > 1e-9 {
		t.Fatalf("expected single record at 1.1, got %#v", res.NewRecords)
	}
}

func TestProcessBlankInputUsesPlaceholder(t *testing.T) {
	p := newPipeline()
	for _, raw := range []string{"", "   ", "\n\t　"} {
		res := p.Process(context.Background(), raw, fixedNow)
		if len(res.NewRecords) != 0 {
			t.Fatalf("expected no records for %q, got %#v", raw, res.NewRecords)
		}
		if res.Transcript != pipeline.DefaultFallbackTranscript {
			t.Fatalf("expected placeholder transcript for %q, got %q", raw, res.Transcript)
		}
	}
}

func TestProcessStructuredBlankTranscriptUsesPlaceholder(t *testing.T) {
	p := newPipeline(pipeline.WithFallbackTranscript("(聞き取れませんでした)"))
	res := p.Process(context.Background(), `{"transcript":"  ","categorized_items":[]}`, fixedNow)
	if res.Path != pipeline.PathStructured {
		t.Fatalf("expected structured path, got %s", res.Path)
	}
	if res.Transcript != "(聞き取れませんでした)" {
		t.Fatalf("expected custom placeholder, got %q", res.Transcript)
	}
}

func TestProcessDropsUnknownCategories(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	p := newPipeline(pipeline.WithLogger(logger))
	raw := `{"transcript":"t","categorized_items":[{"category":"天気","text":"晴れ"},{"category":"在庫状況","text":"欠品"}]}`

	res := p.Process(context.Background(), raw, fixedNow)
	if len(res.NewRecords) != 1 || res.NewRecords[0].Category != "在庫状況" {
		t.Fatalf("unexpected records %#v", res.NewRecords)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].Category != "天気" {
		t.Fatalf("expected 天気 to be dropped, got %#v", res.Dropped)
	}
	if !strings.Contains(buf.String(), "unknown_category") {
		t.Fatalf("expected warning log for dropped category, got %q", buf.String())
	}
}

func TestProcessCollapsesDuplicatesWithinBatch(t *testing.T) {
	p := newPipeline()
	long := strings.Repeat("陳列", 30)
	raw := `{"transcript":"t","categorized_items":[` +
		`{"category":"商品陳列","text":"` + long + `A"},` +
		`{"category":"商品陳列","text":"` + long + `B"},` +
		`{"category":"価格情報","text":"` + long + `A"}]}`
	res := p.Process(context.Background(), raw, fixedNow)
	if len(res.NewRecords) != 2 {
		t.Fatalf("expected 2 records after dedup, got %#v", res.NewRecords)
	}
	if res.Duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", res.Duplicates)
	}
	if !strings.HasSuffix(res.NewRecords[0].Text, "A") {
		t.Fatalf("expected first occurrence to survive, got %q", res.NewRecords[0].Text)
	}
}

func TestProcessIsBatchScoped(t *testing.T) {
	p := newPipeline()
	first := p.Process(context.Background(), "値段が安い", fixedNow)
	second := p.Process(context.Background(), "値段が安い", fixedNow.Add(time.Minute))
	if len(first.NewRecords) != 1 || len(second.NewRecords) != 1 {
		t.Fatalf("expected each invocation to yield a record, got %d and %d", len(first.NewRecords), len(second.NewRecords))
	}
}

func TestDecodeReportsExtractionFailure(t *testing.T) {
	p := newPipeline()
	decoded := p.Decode("棚が乱れている")
	if decoded.Path != pipeline.PathFallback {
		t.Fatalf("expected fallback, got %s", decoded.Path)
	}
	if !errors.Is(decoded.ExtractErr, extract.ErrNoPayload) {
		t.Fatalf("expected ErrNoPayload, got %v", decoded.ExtractErr)
	}
	malformed := p.Decode(`{"transcript": 5}`)
	if malformed.Path != pipeline.PathFallback || !errors.Is(malformed.ExtractErr, extract.ErrMalformedPayload) {
		t.Fatalf("expected malformed fallback, got %#v", malformed)
	}
}

func TestProcessWronglyTypedItemFallsBackToKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "string confidence",
			raw:  `{"transcript":"値段が安い","categorized_items":[{"category":"価格情報","text":"安い","confidence":"high"}]}`,
		},
		{
			name: "numeric text",
			raw:  `{"transcript":"値段が安い","categorized_items":[{"category":"価格情報","text":123}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newPipeline().Process(context.Background(), tt.raw, fixedNow)
			if res.Path != pipeline.PathFallback {
				t.Fatalf("expected fallback path, got %s", res.Path)
			}
			if res.Transcript != tt.raw {
				t.Fatalf("expected raw response as transcript, got %q", res.Transcript)
			}
			if len(res.NewRecords) != 1 || res.NewRecords[0].Category != "価格情報" {
				t.Fatalf("expected one 価格情報 record, got %#v", res.NewRecords)
			}
			// The raw response contains 価格, 値段 and 安い.
			if math.Abs(res.NewRecords[0].Confidence-0.9) > 1e-9 {
				t.Fatalf("expected confidence 0.9, got %v", res.NewRecords[0].Confidence)
			}
		})
	}
}

func TestProcessLogsRawTranscriptSubstitution(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	p := newPipeline(pipeline.WithLogger(logger))
	raw := `{"categorized_items":[{"category":"在庫状況","text":"欠品"}]}`

	res := p.Process(context.Background(), raw, fixedNow)
	if res.Path != pipeline.PathStructured || res.Transcript != raw {
		t.Fatalf("expected structured path with raw transcript, got %#v", res)
	}
	if !strings.Contains(buf.String(), `"transcript_from_raw":true`) {
		t.Fatalf("expected debug log for raw transcript, got %q", buf.String())
	}
}

func TestCustomPolicyAndDedup(t *testing.T) {
	tax := taxonomy.Default()
	p := pipeline.New(tax,
		pipeline.WithClassifier(classifier.New(tax, classifier.WithPolicy(classifier.Clamped(classifier.DefaultPolicy(), 1.0)))),
		pipeline.WithDeduplicator(dedup.New(dedup.Config{PrefixLength: 2})),
	)
	res := p.Process(context.Background(), "価格が安い、値段も高いが割引あり", fixedNow)
	if len(res.NewRecords) != 1 || res.NewRecords[0].Confidence != 1.0 {
		t.Fatalf("expected clamped confidence, got %#v", res.NewRecords)
	}
}

func TestFailureResult(t *testing.T) {
	res := newPipeline().FailureResult()
	if res.Transcript != pipeline.DefaultFallbackTranscript || res.NewRecords == nil || len(res.NewRecords) != 0 {
		t.Fatalf("unexpected failure result %#v", res)
	}
}

func TestResultJSONUsesPathNames(t *testing.T) {
	res := newPipeline().Process(context.Background(), "値段が安い", fixedNow)
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"path":"fallback"`) {
		t.Fatalf("expected path name in JSON, got %s", data)
	}
	var back pipeline.Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Path != pipeline.PathFallback {
		t.Fatalf("expected fallback after decode, got %s", back.Path)
	}
}
