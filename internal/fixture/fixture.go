// Package fixture loads YAML word fixtures: fragment geometry with the
// classifier output of each fragment span, and an optional dictionary
// bundle for the language model.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// ErrUnknownWord is returned when a classifier is asked about a word that
// is not part of its fixture set
var ErrUnknownWord = errors.New("word not in fixture")

// File is one fixture document
type File struct {
	Dictionary *Dictionary `yaml:"dictionary"`
	Words      []Word      `yaml:"words"`
}

// Word is one word image and its classifier output
type Word struct {
	Name string `yaml:"name"`

	// Prev is the text of the preceding word on the line
	Prev string `yaml:"prev"`

	// Expect is the text the search should produce, empty when unknown
	Expect string `yaml:"expect"`

	blob.Word `yaml:",inline"`

	Spans []Span `yaml:"spans"`
}

// Span is the classifier output for fragments Col..Row
type Span struct {
	Col  int          `yaml:"col"`
	Row  int          `yaml:"row"`
	Hyps []Hypothesis `yaml:"hyps"`
}

// Hypothesis is the YAML form of a ratings.Hypothesis. Unset fields keep
// the defaults of ratings.NewHypothesis; an unset certainty is the negated
// rating.
type Hypothesis struct {
	Unichar    string   `yaml:"unichar"`
	Rating     float64  `yaml:"rating"`
	Certainty  *float64 `yaml:"certainty"`
	Fonts      []int    `yaml:"fonts"`
	Fragmented bool     `yaml:"fragmented"`
	YShift     float64  `yaml:"y_shift"`
	MinXHeight float64  `yaml:"min_x_height"`
	MaxXHeight *float64 `yaml:"max_x_height"`
}

// Hypothesis converts to the matrix representation
func (h Hypothesis) Hypothesis() ratings.Hypothesis {
	cert := -h.Rating
	if h.Certainty != nil {
		cert = *h.Certainty
	}
	out := ratings.NewHypothesis(h.Unichar, h.Rating, cert)
	for i := 0; i < len(h.Fonts) && i < len(out.Fonts); i++ {
		out.Fonts[i] = h.Fonts[i]
	}
	out.Fragmented = h.Fragmented
	out.YShift = h.YShift
	out.MinXHeight = h.MinXHeight
	if h.MaxXHeight != nil {
		out.MaxXHeight = *h.MaxXHeight
	}
	return out
}

// Load reads and validates a fixture file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a fixture document
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every word and span
func (f *File) Validate() error {
	for i := range f.Words {
		w := &f.Words[i]
		if w.Name == "" {
			w.Name = fmt.Sprintf("word%d", i+1)
		}
		if err := w.Word.Validate(); err != nil {
			return fmt.Errorf("word %q: %w", w.Name, err)
		}
		seen := make(map[ratings.Coord]bool, len(w.Spans))
		for _, s := range w.Spans {
			c := ratings.Coord{Col: s.Col, Row: s.Row}
			if !c.Valid(w.Len(), w.Len()) {
				return fmt.Errorf("word %q: span %s outside %d fragments", w.Name, c, w.Len())
			}
			if seen[c] {
				return fmt.Errorf("word %q: duplicate span %s", w.Name, c)
			}
			seen[c] = true
		}
	}
	if f.Dictionary != nil {
		if _, err := f.Dictionary.AmbigTable(); err != nil {
			return err
		}
	}
	return nil
}

// Merge appends the words of other and combines the dictionaries
func (f *File) Merge(other *File) {
	f.Words = append(f.Words, other.Words...)
	switch {
	case other.Dictionary == nil:
	case f.Dictionary == nil:
		d := *other.Dictionary
		f.Dictionary = &d
	default:
		f.Dictionary.merge(other.Dictionary)
	}
}

// Classifier answers classification requests from the spans of a set of
// fixture words. Spans without an entry classify to nothing.
type Classifier struct {
	words map[*blob.Word]map[ratings.Coord][]ratings.Hypothesis
}

// Classifier returns the classifier of every word in the file. It must be
// rebuilt after the word list changes.
func (f *File) Classifier() *Classifier {
	c := &Classifier{words: make(map[*blob.Word]map[ratings.Coord][]ratings.Hypothesis, len(f.Words))}
	for i := range f.Words {
		w := &f.Words[i]
		spans := make(map[ratings.Coord][]ratings.Hypothesis, len(w.Spans))
		for _, s := range w.Spans {
			hyps := make([]ratings.Hypothesis, len(s.Hyps))
			for j, h := range s.Hyps {
				hyps[j] = h.Hypothesis()
			}
			spans[ratings.Coord{Col: s.Col, Row: s.Row}] = hyps
		}
		c.words[&w.Word] = spans
	}
	return c
}

// Classify implements segsearch.Classifier
func (c *Classifier) Classify(ctx context.Context, word *blob.Word, col, row int) ([]ratings.Hypothesis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spans, ok := c.words[word]
	if !ok {
		return nil, ErrUnknownWord
	}
	return spans[ratings.Coord{Col: col, Row: row}], nil
}
