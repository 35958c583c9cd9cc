package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one inspection category. Keywords are only consulted by the
// keyword classifier; Description is display text.
type Category struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy is an immutable, ordered registry of categories.
type Taxonomy struct {
	categories []Category
	index      map[string]int
}

// New validates the supplied categories and returns a Taxonomy that preserves
// their registration order. Names must be unique and non-empty. Keywords are
// reduced to an ordered set with empty entries removed.
func New(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, errors.New("taxonomy: at least one category required")
	}
	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for i, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy: category %d has an empty name", i)
		}
		if _, exists := t.index[name]; exists {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", name)
		}
		t.index[name] = len(t.categories)
		t.categories = append(t.categories, Category{
			Name:        name,
			Description: strings.TrimSpace(cat.Description),
			Keywords:    keywordSet(cat.Keywords),
		})
	}
	return t, nil
}

// MustNew is New for static category tables; it panics on invalid input.
func MustNew(categories []Category) *Taxonomy {
	t, err := New(categories)
	if err != nil {
		panic(err)
	}
	return t
}

func keywordSet(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// Len reports the number of registered categories.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// Categories returns a copy of the categories in registration order.
func (t *Taxonomy) Categories() []Category {
	if t == nil {
		return nil
	}
	out := make([]Category, len(t.categories))
	for i, cat := range t.categories {
		cat.Keywords = append([]string(nil), cat.Keywords...)
		out[i] = cat
	}
	return out
}

// Names returns category names in registration order.
func (t *Taxonomy) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.categories))
	for i, cat := range t.categories {
		names[i] = cat.Name
	}
	return names
}

// Lookup returns the category registered under name.
func (t *Taxonomy) Lookup(name string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	idx, ok := t.index[name]
	if !ok {
		return Category{}, false
	}
	cat := t.categories[idx]
	cat.Keywords = append([]string(nil), cat.Keywords...)
	return cat, true
}

// Contains reports whether name is a registered category.
func (t *Taxonomy) Contains(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Position returns the registration index of name, or -1.
func (t *Taxonomy) Position(name string) int {
	if t == nil {
		return -1
	}
	if idx, ok := t.index[name]; ok {
		return idx
	}
	return -1
}
