// Package dawg provides the dictionary collaborators of the segmentation
// search: word tries walked one unichar at a time, a punctuation pattern
// trie, and a table of known character ambiguities.
package dawg

// DictionaryMatch explains why a path is considered a word
type DictionaryMatch int

const (
	MatchNone DictionaryMatch = iota
	MatchTopChoice
	MatchNumber
	MatchCompound
	MatchSystem
	MatchUser
	MatchFrequent
)

// String returns the name of the match kind
func (m DictionaryMatch) String() string {
	switch m {
	case MatchNone:
		return "none"
	case MatchTopChoice:
		return "top-choice"
	case MatchNumber:
		return "number"
	case MatchCompound:
		return "compound"
	case MatchSystem:
		return "system"
	case MatchUser:
		return "user"
	case MatchFrequent:
		return "frequent"
	}
	return "unknown"
}

// MarshalText encodes the match kind by name
func (m DictionaryMatch) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// IsWordList reports whether the match comes from a word list (system, user
// or frequent), the dictionaries whose paths are never pruned by capacity.
func (m DictionaryMatch) IsWordList() bool {
	switch m {
	case MatchSystem, MatchUser, MatchFrequent:
		return true
	case MatchNone, MatchTopChoice, MatchNumber, MatchCompound:
		return false
	}
	return false
}

// Position is one active trie-walk state
type Position struct {
	Trie      int
	Node      int32
	InPattern bool
}

// Positions is the set of active trie-walk states of a path
type Positions []Position

// Dictionary is the trie-walk collaborator of the language model
type Dictionary interface {
	// Beginning returns the active positions at the start of a word
	Beginning() Positions

	// Extend walks every active position by one normalized unichar. It returns
	// the surviving positions and the strongest match among them, MatchNone
	// when no position survives. When wordEnd is set only positions that end
	// a word survive.
	Extend(active Positions, unichar string, wordEnd bool) (Positions, DictionaryMatch)

	// EndsWord reports whether any active word-list position completes a word
	EndsWord(active Positions) bool

	// HasHyphenContinuation reports whether a word-final hyphen continues the
	// word on the next line.
	HasHyphenContinuation(unichar string, wordEnd bool) bool

	// IsCompoundMarker reports whether the unichar joins two words
	IsCompoundMarker(unichar string) bool
}
