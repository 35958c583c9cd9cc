package findings_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"storevisit/internal/findings"
	"storevisit/internal/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Category{
		{Name: "陳列"},
		{Name: "価格"},
		{Name: "在庫"},
	})
	if err != nil {
		t.Fatalf("taxonomy.New: %v", err)
	}
	return tax
}

func rec(category, text string) findings.Record {
	return findings.Record{
		Category:   category,
		Text:       text,
		Confidence: 1,
		RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStoreAppendKeepsInsertionOrderAndTaxonomyOrder(t *testing.T) {
	store := findings.NewStore(testTaxonomy(t))
	if err := store.Append(rec("在庫", "a"), rec("価格", "b")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(rec("価格", "c")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if diff := cmp.Diff([]string{"価格", "在庫"}, store.Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	got := store.Records("価格")
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Fatalf("unexpected 価格 records: %#v", got)
	}
	all := store.All()
	var texts []string
	for _, r := range all {
		texts = append(texts, r.Text)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, texts); diff != "" {
		t.Fatalf("All order mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", store.Len())
	}
}

func TestStoreRejectsUnknownCategoryWithoutPartialAppend(t *testing.T) {
	store := findings.NewStore(testTaxonomy(t))
	err := store.Append(rec("価格", "ok"), rec("謎", "bad"))
	if !errors.Is(err, findings.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no records after rejected batch, got %d", store.Len())
	}
	for _, name := range store.Categories() {
		if name == "謎" {
			t.Fatal("unknown category leaked into store keys")
		}
	}
}

func TestStoreCapacity(t *testing.T) {
	store := findings.NewStore(testTaxonomy(t), findings.WithMaxRecords(2))
	if err := store.Append(rec("価格", "a")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if store.Fits(2) {
		t.Fatal("expected Fits(2) to be false with one slot left")
	}
	err := store.Append(rec("価格", "b"), rec("価格", "c"))
	if !errors.Is(err, findings.ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected store untouched, got %d records", store.Len())
	}
}

func TestStoreRecordsReturnsCopy(t *testing.T) {
	store := findings.NewStore(testTaxonomy(t))
	if err := store.Append(rec("価格", "a")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got := store.Records("価格")
	got[0].Text = "mutated"
	if store.Records("価格")[0].Text != "a" {
		t.Fatal("record mutated through returned slice")
	}
}

func TestStoreReset(t *testing.T) {
	store := findings.NewStore(testTaxonomy(t))
	if err := store.Append(rec("価格", "a")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	store.Reset()
	if store.Len() != 0 || len(store.Categories()) != 0 {
		t.Fatalf("expected empty store after reset, got %d", store.Len())
	}
}

func TestTranscriptLog(t *testing.T) {
	log := findings.NewTranscriptLog(2)
	at := time.Now()
	if err := log.Append(findings.Entry{Text: "一", RecordedAt: at}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(findings.Entry{Text: "二", RecordedAt: at}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(findings.Entry{Text: "三", RecordedAt: at}); !errors.Is(err, findings.ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if log.Text() != "一\n二" {
		t.Fatalf("unexpected transcript text %q", log.Text())
	}
	log.Reset()
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d", log.Len())
	}
}
