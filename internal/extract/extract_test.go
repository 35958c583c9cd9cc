package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storevisit/internal/findings"
)

func TestParseStructuredPayload(t *testing.T) {
	raw := `{"transcript":"値段が安い","categorized_items":[{"category":"価格情報","text":"安い","confidence":0.8}]}`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Payload{
		Transcript:            "値段が安い",
		TranscriptFromPayload: true,
		Items:                 []findings.Candidate{{Category: "価格情報", Text: "安い", Confidence: 0.8}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaultsConfidence(t *testing.T) {
	raw := `{"transcript":"x","categorized_items":[{"category":"在庫状況","text":"欠品"},{"category":"在庫状況","text":"補充","confidence":null}]}`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	for _, item := range got.Items {
		if math.Abs(item.Confidence-1.0) > 1e-9 {
			t.Fatalf("expected default confidence 1.0, got %v", item.Confidence)
		}
	}
}

func TestParseWithProseAndCodeFence(t *testing.T) {
	raw := "結果は以下の通りです。\n```json\n{\"transcript\":\"棚が見やすい\",\"categorized_items\":[]}\n```\n以上です。"
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Transcript != "棚が見やすい" {
		t.Fatalf("unexpected transcript %q", got.Transcript)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(got.Items))
	}
}

func TestParseBracesInsideStrings(t *testing.T) {
	raw := `note {"transcript":"a } b { c","categorized_items":[]} tail`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Transcript != "a } b { c" {
		t.Fatalf("unexpected transcript %q", got.Transcript)
	}
}

func TestParseSkipsUndecodableLeadingSpan(t *testing.T) {
	raw := `{not json} {"transcript":"ok"}`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Transcript != "ok" {
		t.Fatalf("unexpected transcript %q", got.Transcript)
	}
}

func TestParseMissingTranscriptFallsBackToRaw(t *testing.T) {
	raw := `{"categorized_items":[{"category":"価格情報","text":"安い"}]}`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Transcript != raw || got.TranscriptFromPayload {
		t.Fatalf("expected raw fallback transcript, got %q (from payload %v)", got.Transcript, got.TranscriptFromPayload)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
}

func TestParseNonArrayItemsYieldsEmpty(t *testing.T) {
	got, err := Parse(`{"transcript":"t","categorized_items":"oops"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty items, got %#v", got.Items)
	}
}

func TestParseRejectsWronglyTypedItems(t *testing.T) {
	tests := []struct {
		name string
		item string
	}{
		{name: "string confidence", item: `{"category":"価格情報","text":"安い","confidence":"high"}`},
		{name: "numeric text", item: `{"category":"価格情報","text":123}`},
		{name: "numeric category", item: `{"category":7,"text":"安い"}`},
		{name: "not an object", item: `1`},
		{name: "null item", item: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"transcript":"値段が安い","categorized_items":[{"category":"価格情報","text":"安い"},` + tt.item + `]}`
			_, err := Parse(raw)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty", raw: "", want: ErrNoPayload},
		{name: "plain text", raw: "値段が安い", want: ErrNoPayload},
		{name: "unterminated", raw: `{"transcript":"x"`, want: ErrNoPayload},
		{name: "not json", raw: "{価格}", want: ErrMalformedPayload},
		{name: "numeric transcript", raw: `{"transcript":12}`, want: ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeObject(t *testing.T) {
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeObject("```json\n{\"ok\":true}\n```", &parsed); err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if !parsed.OK {
		t.Fatal("expected ok=true")
	}
	if err := DecodeObject("nothing here", &parsed); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("expected ErrNoPayload, got %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json fence", in: "```json\n{}\n```", want: "{}"},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "inline fence", in: "```json {\"a\":1}```", want: `{"a":1}`},
		{name: "prose around fence", in: "結果:\n```json\n{}\n```\n以上", want: "{}"},
		{name: "no fence", in: "  {\"a\":\"```\"} ", want: "{\"a\":\"```\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Fatalf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKeepsBackticksInsideStrings(t *testing.T) {
	raw := "```json\n{\"transcript\":\"a```b\",\"categorized_items\":[{\"category\":\"商品陳列\",\"text\":\"x```python y\"}]}\n```"
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Payload{
		Transcript:            "a```b",
		TranscriptFromPayload: true,
		Items:                 []findings.Candidate{{Category: "商品陳列", Text: "x```python y", Confidence: 1.0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}
