// Package ngram provides the character n-gram collaborator of the language
// model: P(next unichar | preceding context).
package ngram

import (
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
)

// DefaultOrder is the default n-gram order (context of order-1 characters)
const DefaultOrder = 3

// Model returns the probability of a unichar following a context string
type Model interface {
	Probability(context, unichar string) float64
}

type contextStats struct {
	total float64
	next  map[string]float64
}

// CharModel is a counted character n-gram model with Witten-Bell
// interpolation down to an add-one unigram distribution.
//
// Training methods are not safe for concurrent use; Probability is safe once
// training is done.
type CharModel struct {
	order    int
	foldCase bool
	contexts []map[string]*contextStats
	unigrams map[string]float64
	total    float64
}

// CharModelOption configures a CharModel
type CharModelOption func(*CharModel)

// WithOrder sets the n-gram order
func WithOrder(order int) CharModelOption {
	return func(m *CharModel) {
		if order > 0 {
			m.order = order
		}
	}
}

// WithCaseFolding makes training and lookups case-insensitive
func WithCaseFolding(fold bool) CharModelOption {
	return func(m *CharModel) {
		m.foldCase = fold
	}
}

// NewCharModel creates an empty model
func NewCharModel(opts ...CharModelOption) *CharModel {
	m := &CharModel{
		order:    DefaultOrder,
		foldCase: true,
		unigrams: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.contexts = make([]map[string]*contextStats, m.order)
	for k := range m.contexts {
		m.contexts[k] = make(map[string]*contextStats)
	}
	return m
}

// Order returns the n-gram order
func (m *CharModel) Order() int {
	return m.order
}

func (m *CharModel) fold(s string) string {
	if m.foldCase {
		return strings.ToLower(s)
	}
	return s
}

func (m *CharModel) add(context, next string, count float64) {
	k := utf8.RuneCountInString(context)
	if k == 0 {
		m.unigrams[next] += count
		m.total += count
		return
	}
	if k >= m.order {
		return
	}
	cs := m.contexts[k][context]
	if cs == nil {
		cs = &contextStats{next: make(map[string]float64)}
		m.contexts[k][context] = cs
	}
	cs.next[next] += count
	cs.total += count
}

// Train counts every n-gram of the text. The text is preceded by a space so
// word-initial characters get a word-boundary context.
func (m *CharModel) Train(text string) {
	runes := []rune(" " + m.fold(text))
	for i := 1; i < len(runes); i++ {
		next := string(runes[i])
		for k := 0; k < m.order && k <= i; k++ {
			m.add(string(runes[i-k:i]), next, 1)
		}
	}
}

// TrainWords trains on each word separately
func (m *CharModel) TrainWords(words []string) {
	for _, w := range words {
		m.Train(w)
	}
}

// AddFrequencies seeds the model from relative bigram and letter frequency
// tables, scaled to the given pseudo-count mass.
func (m *CharModel) AddFrequencies(bigrams map[string]float64, letters map[rune]float64, mass float64) {
	if len(bigrams) > 0 {
		keys := make([]string, 0, len(bigrams))
		vals := make([]float64, 0, len(bigrams))
		for k, v := range bigrams {
			if utf8.RuneCountInString(k) != 2 {
				continue
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
		if sum := floats.Sum(vals); sum > 0 {
			floats.Scale(mass/sum, vals)
		}
		for i, k := range keys {
			r := []rune(m.fold(k))
			m.add(string(r[0]), string(r[1]), vals[i])
		}
	}

	if len(letters) > 0 {
		keys := make([]rune, 0, len(letters))
		vals := make([]float64, 0, len(letters))
		for k, v := range letters {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		if sum := floats.Sum(vals); sum > 0 {
			floats.Scale(mass/sum, vals)
		}
		for i, k := range keys {
			m.add("", m.fold(string(k)), vals[i])
		}
	}
}

// Probability implements Model
func (m *CharModel) Probability(context, unichar string) float64 {
	unichar = m.fold(unichar)
	context = m.fold(context)

	vocab := float64(len(m.unigrams) + 1)
	p := (m.unigrams[unichar] + 1) / (m.total + vocab)

	ctx := []rune(context)
	for k := 1; k < m.order && k <= len(ctx); k++ {
		cs := m.contexts[k][string(ctx[len(ctx)-k:])]
		if cs == nil {
			break
		}
		types := float64(len(cs.next))
		p = (cs.next[unichar] + types*p) / (cs.total + types)
	}
	return p
}
