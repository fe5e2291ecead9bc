package langmodel

import (
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// dawgResult is the dictionary state of a new entry
type dawgResult struct {
	info      *DictionaryInfo
	dictChars int
	walkStart int
	committed int
}

// generateDawgInfo extends the parent's dictionary walk with h. A nil info
// demotes the path to non-dictionary.
func (m *Model) generateDawgInfo(b *Bundle, wordEnd bool, h ratings.Hypothesis, parent *Entry) dawgResult {
	var res dawgResult
	if parent != nil {
		res.dictChars = parent.DictChars
		res.walkStart = parent.walkStart
		res.committed = parent.committed
	}
	if m.dict == nil {
		return res
	}

	var active dawg.Positions
	permuter := dawg.MatchNone
	switch {
	case parent == nil:
		active = b.beginning
	case parent.Dawg != nil:
		active = parent.Dawg.Positions
		permuter = parent.Dawg.Permuter
	case m.cfg.PartialDictionaryCredit:
		return m.restartDawgWalk(b, wordEnd, h, parent, res)
	default:
		return res
	}

	if wordEnd && m.dict.HasHyphenContinuation(h.Unichar, wordEnd) {
		res.info = &DictionaryInfo{Positions: active, Permuter: dawg.MatchCompound}
		return res
	}

	if m.dict.IsCompoundMarker(h.Unichar) && (parent == nil || permuter != dawg.MatchNumber) {
		if parent == nil || wordEnd || permuter == dawg.MatchCompound ||
			parent.Length < m.cfg.MinCompoundLength || !m.dict.EndsWord(active) {
			return res
		}
		res.info = &DictionaryInfo{Positions: b.beginning, Permuter: dawg.MatchCompound}
		res.committed = parent.Length + 1
		res.dictChars = res.committed
		res.walkStart = parent.Length + 1
		return res
	}

	next, match := m.walk(active, h.Unichar, wordEnd)
	if match == dawg.MatchNone {
		if m.cfg.PartialDictionaryCredit && parent != nil {
			return m.restartDawgWalk(b, wordEnd, h, parent, res)
		}
		return res
	}
	if permuter == dawg.MatchCompound {
		match = dawg.MatchCompound
	}
	res.info = &DictionaryInfo{Positions: next, Permuter: match}
	length := 1
	if parent != nil {
		length = parent.Length + 1
	}
	if m.dict.EndsWord(next) {
		res.dictChars = res.committed + length - res.walkStart
	}
	return res
}

// restartDawgWalk starts a new dictionary walk at h, keeping the credit
// earned by earlier sub-words
func (m *Model) restartDawgWalk(b *Bundle, wordEnd bool, h ratings.Hypothesis, parent *Entry, res dawgResult) dawgResult {
	res.walkStart = parent.Length
	res.committed = parent.DictChars
	next, match := m.walk(b.beginning, h.Unichar, wordEnd)
	if match == dawg.MatchNone {
		return res
	}
	res.info = &DictionaryInfo{Positions: next, Permuter: match}
	if m.dict.EndsWord(next) {
		res.dictChars = res.committed + 1
	}
	return res
}

// walk extends active positions by every normalized part of u
func (m *Model) walk(active dawg.Positions, u string, wordEnd bool) (dawg.Positions, dawg.DictionaryMatch) {
	parts := unichar.Normalize(u)
	match := dawg.MatchNone
	for i, part := range parts {
		active, match = m.dict.Extend(active, part, wordEnd && i == len(parts)-1)
		if match == dawg.MatchNone {
			return nil, dawg.MatchNone
		}
	}
	return active, match
}
