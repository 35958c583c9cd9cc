package taxonomy_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storevisit/internal/taxonomy"
)

func TestNewPreservesOrderAndDedupesKeywords(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Category{
		{Name: " B ", Keywords: []string{"x", "", "y", "x"}},
		{Name: "A", Keywords: []string{"z"}},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "A"}, tax.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	cat, ok := tax.Lookup("B")
	if !ok {
		t.Fatal("expected category B")
	}
	if diff := cmp.Diff([]string{"x", "y"}, cat.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
	if tax.Position("A") != 1 || tax.Position("missing") != -1 {
		t.Fatalf("unexpected positions: A=%d missing=%d", tax.Position("A"), tax.Position("missing"))
	}
}

func TestNewRejectsInvalidCategories(t *testing.T) {
	cases := map[string][]taxonomy.Category{
		"empty":     nil,
		"blank":     {{Name: "  "}},
		"duplicate": {{Name: "A"}, {Name: "A"}},
	}
	for name, cats := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := taxonomy.New(cats); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	tax := taxonomy.Default()
	cats := tax.Categories()
	cats[0].Keywords[0] = "mutated"
	cats[0].Name = "mutated"
	if tax.Names()[0] == "mutated" {
		t.Fatal("taxonomy names changed through returned slice")
	}
	cat, _ := tax.Lookup(tax.Names()[0])
	if cat.Keywords[0] == "mutated" {
		t.Fatal("taxonomy keywords changed through returned slice")
	}
}

func TestDefaultIncludesPriceCategory(t *testing.T) {
	tax := taxonomy.Default()
	cat, ok := tax.Lookup("価格情報")
	if !ok {
		t.Fatal("expected 価格情報 in default taxonomy")
	}
	for _, kw := range []string{"値段", "安い"} {
		found := false
		for _, have := range cat.Keywords {
			if have == kw {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected keyword %q in %v", kw, cat.Keywords)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	doc := `categories:
  - name: 価格情報
    description: prices
    keywords: [価格, 値段]
  - name: 在庫状況
    keywords:
      - 欠品
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write taxonomy: %v", err)
	}
	tax, err := taxonomy.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"価格情報", "在庫状況"}, tax.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	tax, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if tax.Len() != taxonomy.Default().Len() {
		t.Fatalf("expected default taxonomy, got %d categories", tax.Len())
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := taxonomy.Decode(strings.NewReader("categories:\n  - name: A\n    weight: 3\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}
