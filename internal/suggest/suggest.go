// Package suggest finds dictionary words that a misread word could have
// come from when the recognizer dropped characters: the misread word must be
// a subsequence of the suggestion.
package suggest

import (
	"sort"
	"strings"
	"unicode"
)

// Suggestion is a candidate word for a query
type Suggestion struct {
	Word    string
	Score   int
	Indices []int // rune positions of the query characters in Word
}

// Scoring weights
const (
	firstAtStart   = 100
	firstInside    = 50
	consecutive    = 50
	gap            = 20
	startBonus     = 10
	boundaryBonus  = 15
	dropPenalty    = 30
	maxLengthBonus = 100
)

// Matcher scores dictionary words against misread words
type Matcher struct {
	caseSensitive bool
	maxDropped    int
}

// Option configures a Matcher
type Option func(*Matcher)

// WithCaseSensitive compares characters without folding case
func WithCaseSensitive(enabled bool) Option {
	return func(m *Matcher) {
		m.caseSensitive = enabled
	}
}

// WithMaxDropped bounds the number of characters a suggestion may add, 0
// for no bound
func WithMaxDropped(n int) Option {
	return func(m *Matcher) {
		if n >= 0 {
			m.maxDropped = n
		}
	}
}

// New creates a matcher that allows up to two dropped characters
func New(opts ...Option) *Matcher {
	m := &Matcher{maxDropped: 2}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Suggest returns at most limit words containing query as a subsequence,
// best first. The query itself is never suggested.
func (m *Matcher) Suggest(query string, words []string, limit int) []Suggestion {
	if query == "" {
		return nil
	}
	seen := make(map[string]bool, len(words))
	var out []Suggestion
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		if s, ok := m.score(query, w); ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Matcher) score(query, word string) (Suggestion, bool) {
	q, w := []rune(query), []rune(word)
	if !m.caseSensitive {
		q, w = []rune(strings.ToLower(query)), []rune(strings.ToLower(word))
	}
	dropped := len(w) - len(q)
	if dropped <= 0 || (m.maxDropped > 0 && dropped > m.maxDropped) {
		return Suggestion{}, false
	}

	indices := make([]int, 0, len(q))
	score := 0
	for i, r := range w {
		if len(indices) == len(q) || r != q[len(indices)] {
			continue
		}
		switch {
		case len(indices) == 0 && i == 0:
			score += firstAtStart
		case len(indices) == 0:
			score += firstInside
		case indices[len(indices)-1] == i-1:
			score += consecutive
		default:
			score += gap
		}
		indices = append(indices, i)
	}
	if len(indices) < len(q) {
		return Suggestion{}, false
	}

	score -= dropped * dropPenalty
	score += max(0, maxLengthBonus-len(w))
	score += boundaries([]rune(word), indices)
	return Suggestion{Word: word, Score: score, Indices: indices}, true
}

// boundaries rewards matches at the start of the word and of its parts
func boundaries(word []rune, indices []int) int {
	bonus := 0
	for _, i := range indices {
		if i == 0 {
			bonus += startBonus
			continue
		}
		prev := word[i-1]
		if prev == '-' || prev == '\'' || unicode.IsSpace(prev) {
			bonus += boundaryBonus
		} else if unicode.IsLower(prev) && unicode.IsUpper(word[i]) {
			bonus += startBonus
		}
	}
	return bonus
}

// Highlight applies mark to each run of characters that were not in the
// query, the ones the recognizer dropped
func (s Suggestion) Highlight(mark func(string) string) string {
	matched := make(map[int]bool, len(s.Indices))
	for _, i := range s.Indices {
		matched[i] = true
	}
	var b, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(mark(run.String()))
			run.Reset()
		}
	}
	for i, r := range []rune(s.Word) {
		if matched[i] {
			flush()
			b.WriteRune(r)
		} else {
			run.WriteRune(r)
		}
	}
	flush()
	return b.String()
}
