package classifier_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storevisit/internal/classifier"
	"storevisit/internal/taxonomy"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassifyPriceKeywords(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	got := c.Classify("値段が安い")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %#v", got)
	}
	if got[0].Category != "価格情報" || got[0].Text != "値段が安い" {
		t.Fatalf("unexpected candidate %#v", got[0])
	}
	if !approx(got[0].Confidence, 0.8) {
		t.Fatalf("expected confidence 0.8, got %v", got[0].Confidence)
	}
}

func TestClassifyConfidenceIsUnclamped(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	got := c.Classify("価格が安い、値段も高いが割引あり")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %#v", got)
	}
	if !approx(got[0].Confidence, 1.1) {
		t.Fatalf("expected unclamped confidence 1.1, got %v", got[0].Confidence)
	}
}

func TestClassifyClampedPolicy(t *testing.T) {
	c := classifier.New(taxonomy.Default(), classifier.WithPolicy(classifier.Clamped(classifier.DefaultPolicy(), 1.0)))
	got := c.Classify("価格が安い、値段も高いが割引あり")
	if len(got) != 1 || !approx(got[0].Confidence, 1.0) {
		t.Fatalf("expected clamped confidence 1.0, got %#v", got)
	}
}

func TestClassifyMultipleCategoriesInTaxonomyOrder(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	got := c.Classify("店員の説明は丁寧で、棚の陳列も見やすい。価格も安い")
	var names []string
	for _, cand := range got {
		names = append(names, cand.Category)
	}
	want := []string{"商品陳列", "価格情報", "接客対応"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("category order mismatch (-want +got):\n%s", diff)
	}
	if !approx(got[0].Confidence, 0.9) {
		t.Fatalf("expected 商品陳列 confidence 0.9, got %v", got[0].Confidence)
	}
}

func TestClassifyCountsDistinctKeywordsOnce(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	got := c.Classify("安い安い安い")
	if len(got) != 1 || !approx(got[0].Confidence, 0.7) {
		t.Fatalf("expected single match at 0.7, got %#v", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	for _, input := range []string{"", "   ", "今日は晴れ"} {
		if got := c.Classify(input); len(got) != 0 {
			t.Fatalf("expected no candidates for %q, got %#v", input, got)
		}
	}
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	c := classifier.New(taxonomy.Default())
	if got := c.Classify("pop が目立つ"); len(got) != 0 {
		t.Fatalf("expected lowercase pop not to match POP, got %#v", got)
	}
	if got := c.Classify("POP が目立つ"); len(got) != 1 || got[0].Category != "販促活動" {
		t.Fatalf("expected 販促活動 match, got %#v", got)
	}
}

func TestClassifyUnicodeNormalization(t *testing.T) {
	decomposed := "値段か\u3099安い"

	plain := classifier.New(taxonomy.Default())
	if got := plain.Classify(decomposed); len(got) != 1 || !approx(got[0].Confidence, 0.8) {
		t.Fatalf("expected plain match on kanji keywords, got %#v", got)
	}

	tax := taxonomy.MustNew([]taxonomy.Category{{Name: "表示", Keywords: []string{"が"}}})
	if got := classifier.New(tax).Classify(decomposed); len(got) != 0 {
		t.Fatalf("expected decomposed kana not to match without normalization, got %#v", got)
	}
	got := classifier.New(tax, classifier.WithUnicodeNormalization(true)).Classify(decomposed)
	if len(got) != 1 {
		t.Fatalf("expected NFC match, got %#v", got)
	}
	if got[0].Text != decomposed {
		t.Fatalf("expected original text preserved, got %q", got[0].Text)
	}
}

func TestLinearPolicy(t *testing.T) {
	p := classifier.DefaultPolicy()
	for k, want := range map[int]float64{1: 0.7, 2: 0.8, 4: 1.0, 5: 1.1} {
		if got := p(k); !approx(got, want) {
			t.Fatalf("policy(%d) = %v, want %v", k, got, want)
		}
	}
}
