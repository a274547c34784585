package instance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/knapsack/knapsack"
)

// Item is one named item of a Document.
type Item struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Value  int64  `yaml:"value" json:"value"`
	Weight int64  `yaml:"weight" json:"weight"`
}

// Document is the structured instance format shared by YAML files and the
// HTTP API.
type Document struct {
	Capacity int64  `yaml:"capacity" json:"capacity"`
	Items    []Item `yaml:"items" json:"items"`
}

// LoadDocument decodes a YAML (or JSON) document from r. Unknown fields are
// rejected.
func LoadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, ErrEmpty
		}
		return Document{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	return doc, nil
}

// LoadDocumentFile opens path and decodes it with LoadDocument.
func LoadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("instance: could not open %q: %w", path, err)
	}
	defer f.Close()

	doc, err := LoadDocument(f)
	if err != nil {
		return Document{}, fmt.Errorf("instance: could not parse %q: %w", path, err)
	}

	return doc, nil
}

// Problem converts the document into a validated Problem.
func (d Document) Problem() (*knapsack.Problem, error) {
	values := make([]int64, len(d.Items))
	weights := make([]int64, len(d.Items))
	for i, it := range d.Items {
		values[i] = it.Value
		weights[i] = it.Weight
	}

	return knapsack.NewProblem(values, weights, d.Capacity)
}

// Names returns item names; unnamed items are called "item-<index>".
func (d Document) Names() []string {
	out := make([]string, len(d.Items))
	for i, it := range d.Items {
		if it.Name == "" {
			out[i] = fmt.Sprintf("item-%d", i)
			continue
		}
		out[i] = it.Name
	}

	return out
}

// FromProblem builds an unnamed Document from p.
func FromProblem(p *knapsack.Problem) Document {
	doc := Document{Capacity: p.Capacity(), Items: make([]Item, p.Len())}
	for i := range doc.Items {
		doc.Items[i] = Item{Value: p.Value(i), Weight: p.Weight(i)}
	}

	return doc
}

// Encode writes d as YAML.
func (d Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("instance: encode: %w", err)
	}

	return enc.Close()
}
