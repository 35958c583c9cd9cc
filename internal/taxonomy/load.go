package taxonomy

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type document struct {
	Categories []Category `yaml:"categories"`
}

// Load reads a YAML taxonomy file of the form
//
//	categories:
//	  - name: 価格情報
//	    description: ...
//	    keywords: [価格, 値段]
//
// An empty path yields the built-in taxonomy.
func Load(path string) (*Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	tax, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return tax, nil
}

// Decode parses a YAML taxonomy document.
func Decode(r io.Reader) (*Taxonomy, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode taxonomy: empty document")
		}
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	return New(doc.Categories)
}
