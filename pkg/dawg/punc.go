package dawg

import (
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// WordPattern is the token standing for a run of word characters in a
// punctuation pattern.
const WordPattern = "w"

// NoPunc is the punctuation reference of a path that has not started a
// punctuation walk.
const NoPunc = int32(-1)

// DefaultPuncPatterns are the punctuation shapes a word may take
var DefaultPuncPatterns = []string{
	"w", "w.", "w,", "w;", "w:", "w!", "w?", "w...", "w?!", "w!?",
	"(w)", "(w).", "(w),", "(w", "w)", "w).", "w),",
	"[w]", "{w}", "<w>",
	"\"w\"", "\"w", "w\"", "w.\"", "w,\"", "w!\"", "w?\"", "\"w.", "\"w,",
	"'w'", "'w", "w'", "w.'", "w,'",
	"w'w", "w'w.", "w'w,", "w-w", "w-w.", "w-w,", "w/w", "w.w", "w.w.",
	"$w", "w%", "#w", "-w", "+w", "@w", "&w", "*w", "w*",
}

// PuncTrie walks the punctuation pattern a path is building. Word characters
// map to WordPattern, and a run of them occupies a single edge.
type PuncTrie struct {
	trie      *Trie
	wordNodes map[int32]bool
}

// NewPuncTrie builds a punctuation trie from patterns
func NewPuncTrie(patterns []string) *PuncTrie {
	t := NewTrie(MatchNone)
	for _, p := range patterns {
		t.Insert(p)
	}
	wordNodes := make(map[int32]bool)
	for _, n := range t.nodes {
		if c, ok := n.children[WordPattern]; ok {
			wordNodes[c] = true
		}
	}
	return &PuncTrie{trie: t, wordNodes: wordNodes}
}

// Extend advances a punctuation reference by one pattern token. The token is
// WordPattern for word characters. A reference of NoPunc starts at the root.
// The second result is false when no pattern continues.
func (p *PuncTrie) Extend(ref int32, token string, wordEnd bool) (int32, bool) {
	node := int32(0)
	if ref != NoPunc {
		node = ref
	}
	child, ok := p.trie.nodes[node].children[token]
	if !ok {
		return NoPunc, false
	}
	if wordEnd && !p.trie.nodes[child].terminal {
		return NoPunc, false
	}
	return child, true
}

// EdgeIsWord reports whether the reference was reached through a WordPattern edge
func (p *PuncTrie) EdgeIsWord(ref int32) bool {
	return ref != NoPunc && p.wordNodes[ref]
}

// PatternToken maps a unichar to its punctuation pattern token
func PatternToken(u string, prevApostrophe bool) string {
	if unichar.IsAlnum(u) || (unichar.IsApostrophe(u) && !prevApostrophe) {
		return WordPattern
	}
	if n := unichar.Normalize(u); len(n) > 0 {
		return n[0]
	}
	return u
}
