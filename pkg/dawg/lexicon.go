package dawg

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// NumberRepeat is the pattern token standing for a run of digits
const NumberRepeat = "#"

// DefaultNumberPatterns are the number shapes accepted by NewNumberTrie
var DefaultNumberPatterns = []string{
	"#", "#.#", "#,#", "#,#.#", "#,#,#", "#,#,#.#",
	"$#", "$#.#", "$#,#", "$#,#.#", "€#", "£#",
	"#%", "#.#%", "-#", "-#.#", "+#", "+#.#",
	"#/#", "#/#/#", "#:#", "#:#:#", "#-#", "#-#-#", "#.#.#",
	"(#)", "#x#", "#'s",
}

// DefaultCompoundMarkers join two dictionary words into a compound
var DefaultCompoundMarkers = []string{"-", "/"}

// NewNumberTrie builds a pattern trie where every digit maps to NumberRepeat
func NewNumberTrie(patterns []string) *Trie {
	t := NewPatternTrie(MatchNumber, func(tok string) string {
		if unichar.IsDigit(tok) {
			return NumberRepeat
		}
		return tok
	}, NumberRepeat)
	for _, p := range patterns {
		t.Insert(p)
	}
	return t
}

// Lexicon combines several tries into a Dictionary
type Lexicon struct {
	tries           []*Trie
	foldCase        bool
	hyphenEnd       bool
	compoundMarkers map[string]bool
}

// LexiconOption configures a Lexicon
type LexiconOption func(*Lexicon)

// WithCaseFolding makes word-list lookups case-insensitive (the default)
func WithCaseFolding(fold bool) LexiconOption {
	return func(l *Lexicon) {
		l.foldCase = fold
	}
}

// WithHyphenatedLineEnd allows a word-final hyphen to continue the word on
// the next line.
func WithHyphenatedLineEnd(allow bool) LexiconOption {
	return func(l *Lexicon) {
		l.hyphenEnd = allow
	}
}

// WithCompoundMarkers replaces the compound marker set
func WithCompoundMarkers(markers []string) LexiconOption {
	return func(l *Lexicon) {
		l.compoundMarkers = make(map[string]bool, len(markers))
		for _, m := range markers {
			l.compoundMarkers[m] = true
		}
	}
}

// NewLexicon creates a dictionary over the given tries
func NewLexicon(tries []*Trie, opts ...LexiconOption) *Lexicon {
	l := &Lexicon{
		tries:    tries,
		foldCase: true,
	}
	WithCompoundMarkers(DefaultCompoundMarkers)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tries returns the underlying tries
func (l *Lexicon) Tries() []*Trie {
	return l.tries
}

// Beginning implements Dictionary
func (l *Lexicon) Beginning() Positions {
	positions := make(Positions, len(l.tries))
	for i := range l.tries {
		positions[i] = Position{Trie: i}
	}
	return positions
}

func (l *Lexicon) token(t *Trie, tok string) string {
	if l.foldCase && t.mapper == nil {
		return cases.Fold().String(tok)
	}
	return tok
}

// Extend implements Dictionary
func (l *Lexicon) Extend(active Positions, tok string, wordEnd bool) (Positions, DictionaryMatch) {
	var next Positions
	match := MatchNone
	for _, pos := range active {
		if pos.Trie < 0 || pos.Trie >= len(l.tries) {
			continue
		}
		t := l.tries[pos.Trie]
		np, ok := t.step(pos, l.token(t, tok), wordEnd)
		if !ok {
			continue
		}
		next = append(next, np)
		if t.kind > match {
			match = t.kind
		}
	}
	return next, match
}

// EndsWord implements Dictionary. Number patterns do not count as words.
func (l *Lexicon) EndsWord(active Positions) bool {
	for _, pos := range active {
		if pos.Trie < 0 || pos.Trie >= len(l.tries) {
			continue
		}
		t := l.tries[pos.Trie]
		if t.kind.IsWordList() && t.terminal(pos) {
			return true
		}
	}
	return false
}

// HasHyphenContinuation implements Dictionary
func (l *Lexicon) HasHyphenContinuation(tok string, wordEnd bool) bool {
	return l.hyphenEnd && wordEnd && unichar.IsHyphen(tok)
}

// IsCompoundMarker implements Dictionary
func (l *Lexicon) IsCompoundMarker(tok string) bool {
	for _, n := range unichar.Normalize(tok) {
		if l.compoundMarkers[n] {
			return true
		}
	}
	return false
}

// WordMatch walks a whole word through a dictionary and returns the match
// kind of the complete word, MatchNone if it is not a word.
func WordMatch(d Dictionary, word string) DictionaryMatch {
	var tokens []string
	for _, step := range unichar.Steps(word) {
		tokens = append(tokens, unichar.Normalize(step)...)
	}
	if len(tokens) == 0 {
		return MatchNone
	}
	active := d.Beginning()
	match := MatchNone
	for i, tok := range tokens {
		active, match = d.Extend(active, tok, i == len(tokens)-1)
		if match == MatchNone {
			return MatchNone
		}
	}
	return match
}

// ReadWordList reads one word per line, skipping blanks and '#' comments
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return words, nil
}

// BuildTrie creates a word trie from a list of words
func BuildTrie(kind DictionaryMatch, words []string) *Trie {
	t := NewTrie(kind)
	for _, w := range words {
		var b strings.Builder
		for _, step := range unichar.Steps(w) {
			for _, n := range unichar.Normalize(step) {
				b.WriteString(cases.Fold().String(n))
			}
		}
		t.Insert(b.String())
	}
	return t
}
