package dawg

import (
	"strings"

	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// Ambig is a known confusion between two unichar sequences
type Ambig struct {
	From []string `json:"from" yaml:"from"`
	To   []string `json:"to" yaml:"to"`
}

// Fixpoint marks a run of characters in a word that matches an ambiguity.
// Begin and End index characters of the word, End exclusive.
type Fixpoint struct {
	Begin       int    `json:"begin"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`

	// Dangerous is set when the replacement turns the word into a
	// dictionary word, so the search should try the other segmentation.
	Dangerous bool `json:"dangerous"`
}

// AmbigTable holds character ambiguities
type AmbigTable struct {
	ambigs []Ambig
}

// DefaultAmbigs are common shape confusions of Latin text
var DefaultAmbigs = []Ambig{
	{From: []string{"r", "n"}, To: []string{"m"}},
	{From: []string{"m"}, To: []string{"r", "n"}},
	{From: []string{"c", "l"}, To: []string{"d"}},
	{From: []string{"d"}, To: []string{"c", "l"}},
	{From: []string{"v", "v"}, To: []string{"w"}},
	{From: []string{"w"}, To: []string{"v", "v"}},
	{From: []string{"i", "i"}, To: []string{"u"}},
	{From: []string{"l", "i"}, To: []string{"h"}},
	{From: []string{"I", "I"}, To: []string{"U"}},
	{From: []string{"r", "i"}, To: []string{"n"}},
}

// NewAmbigTable creates a table from ambiguity entries
func NewAmbigTable(ambigs []Ambig) *AmbigTable {
	return &AmbigTable{ambigs: ambigs}
}

// ParseAmbig parses the "from -> to" notation where each side is a sequence
// of unichars, e.g. "rn -> m".
func ParseAmbig(s string) (Ambig, bool) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		return Ambig{}, false
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return Ambig{}, false
	}
	return Ambig{From: unichar.Steps(from), To: unichar.Steps(to)}, true
}

// Len returns the number of entries
func (t *AmbigTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ambigs)
}

// Fixpoints returns every ambiguity match in the word. A nil dictionary
// reports no match as dangerous.
func (t *AmbigTable) Fixpoints(word []string, d Dictionary) []Fixpoint {
	if t == nil {
		return nil
	}
	var fixpoints []Fixpoint
	for i := range word {
		for _, a := range t.ambigs {
			if !hasPrefix(word[i:], a.From) {
				continue
			}
			replaced := make([]string, 0, len(word)-len(a.From)+len(a.To))
			replaced = append(replaced, word[:i]...)
			replaced = append(replaced, a.To...)
			replaced = append(replaced, word[i+len(a.From):]...)
			candidate := unichar.Join(replaced)

			fp := Fixpoint{
				Begin:       i,
				End:         i + len(a.From),
				Replacement: candidate,
			}
			if d != nil {
				fp.Dangerous = WordMatch(d, candidate).IsWordList() &&
					!WordMatch(d, unichar.Join(word)).IsWordList()
			}
			fixpoints = append(fixpoints, fp)
		}
	}
	return fixpoints
}

func hasPrefix(s, prefix []string) bool {
	if len(prefix) == 0 || len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}
