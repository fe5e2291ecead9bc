package dawg

import (
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// Token mapping functions for pattern tries
type TokenMapper func(string) string

type trieNode struct {
	children map[string]int32
	terminal bool
}

// Trie is a word trie over unichar tokens.
//
// A pattern trie maps each token through a TokenMapper before lookup; tokens
// that map to the repeat token collapse into a single edge, so the pattern
// "#.#" accepts "3.14".
type Trie struct {
	kind   DictionaryMatch
	nodes  []trieNode
	mapper TokenMapper
	repeat string
	words  int
}

// NewTrie creates an empty word trie of the given match kind
func NewTrie(kind DictionaryMatch) *Trie {
	return &Trie{
		kind:  kind,
		nodes: []trieNode{{}},
	}
}

// NewPatternTrie creates a trie whose tokens are mapped before insertion and
// lookup, with runs of the repeat token collapsed.
func NewPatternTrie(kind DictionaryMatch, mapper TokenMapper, repeat string) *Trie {
	t := NewTrie(kind)
	t.mapper = mapper
	t.repeat = repeat
	return t
}

// Kind returns the match kind reported for words of this trie
func (t *Trie) Kind() DictionaryMatch {
	return t.kind
}

// Len returns the number of inserted words
func (t *Trie) Len() int {
	return t.words
}

func (t *Trie) mapToken(tok string) string {
	if t.mapper == nil {
		return tok
	}
	return t.mapper(tok)
}

// Insert adds a word (or pattern) to the trie. Pattern tries insert the
// pattern as written, without mapping.
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}
	node := int32(0)
	prevRepeat := false
	for _, tok := range unichar.Steps(word) {
		if t.repeat != "" && tok == t.repeat && prevRepeat {
			continue
		}
		prevRepeat = t.repeat != "" && tok == t.repeat
		next, ok := t.nodes[node].children[tok]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, trieNode{})
			if t.nodes[node].children == nil {
				t.nodes[node].children = make(map[string]int32)
			}
			t.nodes[node].children[tok] = next
		}
		node = next
	}
	if !t.nodes[node].terminal {
		t.nodes[node].terminal = true
		t.words++
	}
}

// step advances one position by one token
func (t *Trie) step(pos Position, tok string, wordEnd bool) (Position, bool) {
	tok = t.mapToken(tok)
	// a repeated pattern token stays on the collapsed edge
	next := pos
	if t.repeat == "" || tok != t.repeat || !pos.InPattern {
		child, ok := t.nodes[pos.Node].children[tok]
		if !ok {
			return Position{}, false
		}
		next = Position{Trie: pos.Trie, Node: child, InPattern: t.repeat != "" && tok == t.repeat}
	}
	if wordEnd && !t.nodes[next.Node].terminal {
		return Position{}, false
	}
	return next, true
}

// terminal reports whether the position completes a word
func (t *Trie) terminal(pos Position) bool {
	return t.nodes[pos.Node].terminal
}

// Contains reports whether the trie accepts the whole token sequence
func (t *Trie) Contains(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	pos := Position{}
	for i, tok := range tokens {
		var ok bool
		pos, ok = t.step(pos, tok, i == len(tokens)-1)
		if !ok {
			return false
		}
	}
	return true
}
