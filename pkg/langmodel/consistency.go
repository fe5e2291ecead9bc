package langmodel

import (
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/fontinfo"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// x-height bands
const (
	BandSub = iota
	BandNormal
	BandSuper
	numBands
)

// Expected/actual gap ratios outside [minGapRatio, maxGapRatio] count as an
// inconsistent space.
const (
	minGapRatio = 0.5
	maxGapRatio = 2.0
)

// noBand marks a state that has not placed a character yet
const noBand = -1

// ConsistencyState holds the running consistency counters of a path. It is a
// value type: extending a path copies the parent's state.
type ConsistencyState struct {
	PuncRef     int32
	InvalidPunc bool
	NumPunc     int

	NumLower         int
	NumNonFirstUpper int

	NumAlphas int
	NumDigits int
	NumOther  int

	NumInconsistentSpaces int

	Script             unichar.Script
	InconsistentScript bool
	InconsistentFont   bool

	XHeightBand     int
	XHeightCount    [numBands]int
	XHeightPunc     [numBands]int
	XHeightLo       [numBands]float64
	XHeightHi       [numBands]float64
	XPosEntropy     int
	XHeightDecision XHeightDecision
}

// NewConsistencyState returns the state of an empty path
func NewConsistencyState() ConsistencyState {
	s := ConsistencyState{
		PuncRef:     dawg.NoPunc,
		Script:      unichar.ScriptCommon,
		XHeightBand: noBand,
	}
	for i := range s.XHeightHi {
		s.XHeightHi[i] = ratings.UnboundedXHeight
	}
	return s
}

// NumInconsistentPunc returns the punctuation count charged when the
// punctuation pattern broke
func (s ConsistencyState) NumInconsistentPunc() int {
	if s.InvalidPunc {
		return s.NumPunc
	}
	return 0
}

// NumInconsistentCase returns the minority count of a case mix
func (s ConsistencyState) NumInconsistentCase() int {
	return min(s.NumNonFirstUpper, s.NumLower)
}

// NumInconsistentChartype returns the punctuation count plus the minority
// count of a letter/digit mix
func (s ConsistencyState) NumInconsistentChartype() int {
	return s.NumInconsistentPunc() + min(s.NumAlphas, s.NumDigits)
}

// InconsistentXHeight reports whether the x-height decision is inconsistent
func (s ConsistencyState) InconsistentXHeight() bool {
	return s.XHeightDecision == XHeightInconsistent
}

// Consistent reports whether the path carries no contradiction at all
func (s ConsistencyState) Consistent() bool {
	return s.NumInconsistentPunc() == 0 &&
		s.NumInconsistentCase() == 0 &&
		s.NumInconsistentChartype() == 0 &&
		s.NumInconsistentSpaces == 0 &&
		!s.InconsistentScript &&
		!s.InconsistentFont &&
		!s.InconsistentXHeight()
}

// ConsistencyTracker extends consistency states one character at a time
type ConsistencyTracker struct {
	Punc              *dawg.PuncTrie
	Dict              dawg.Dictionary
	Fonts             fontinfo.SpacingTable
	MaxXHeightEntropy int
}

// Step describes the character a path is extended with
type Step struct {
	Hyp ratings.Hypothesis

	// Gap is the pixel gap between the parent's last fragment and this one
	Gap     float64
	WordEnd bool
}

// Extend returns the state of the path parent extended by step. parent and
// parentHyp are nil for the first character of a word.
func (t *ConsistencyTracker) Extend(parent *ConsistencyState, parentHyp *ratings.Hypothesis, step Step) ConsistencyState {
	s := t.ExtendXHeight(parent, step.Hyp)
	t.Fill(&s, parentHyp, step)
	return s
}

// ExtendXHeight copies the parent state and applies the x-height banding
// of h. It is split from Fill so a caller can reject a path on x-height
// alone before paying for the rest.
func (t *ConsistencyTracker) ExtendXHeight(parent *ConsistencyState, h ratings.Hypothesis) ConsistencyState {
	var s ConsistencyState
	if parent != nil {
		s = *parent
	} else {
		s = NewConsistencyState()
	}
	if s.XHeightDecision == XHeightInconsistent {
		return s
	}

	parentBand := s.XHeightBand
	band := BandNormal
	switch {
	case h.YShift > XHeightShiftThreshold:
		band = BandSuper
	case h.YShift < -XHeightShiftThreshold:
		band = BandSub
	}
	s.XHeightBand = band
	s.XHeightCount[band]++
	if unichar.IsPunct(h.Unichar) {
		s.XHeightPunc[band]++
	}
	if parentBand != noBand {
		s.XPosEntropy += abs(parentBand - band)
	}
	lo, hi := h.XHeightRange()
	s.XHeightLo[band] = max(s.XHeightLo[band], lo)
	s.XHeightHi[band] = min(s.XHeightHi[band], hi)

	if parentBand == noBand {
		if s.XHeightCount[BandNormal] == 1 {
			s.XHeightDecision = XHeightGood
		} else {
			s.XHeightDecision = XHeightSubNormal
		}
		return s
	}

	for i := range numBands {
		if s.XHeightLo[i] > s.XHeightHi[i] {
			s.XHeightDecision = XHeightInconsistent
			return s
		}
	}
	if float64(s.XHeightPunc[BandSub]) > float64(s.XHeightCount[BandSub])*XHeightMaxPuncShare ||
		float64(s.XHeightPunc[BandSuper]) > float64(s.XHeightCount[BandSuper])*XHeightMaxPuncShare {
		s.XHeightDecision = XHeightInconsistent
		return s
	}
	if mainline := s.XHeightLo[BandNormal]; mainline > 0 &&
		(s.XHeightHi[BandSub]/mainline < XHeightMinSizeRatio || s.XHeightHi[BandSuper]/mainline < XHeightMinSizeRatio) {
		s.XHeightDecision = XHeightInconsistent
		return s
	}
	if s.XPosEntropy > t.MaxXHeightEntropy {
		s.XHeightDecision = XHeightInconsistent
		return s
	}
	if s.XHeightCount[BandSub] == 0 && s.XHeightCount[BandSuper] == 0 {
		s.XHeightDecision = XHeightGood
	} else {
		s.XHeightDecision = XHeightSubNormal
	}
	return s
}

// Fill applies the punctuation, case, script, chartype and font rules of
// step to s, whose x-height has already been extended.
func (t *ConsistencyTracker) Fill(s *ConsistencyState, parentHyp *ratings.Hypothesis, step Step) {
	u := step.Hyp.Unichar
	compound := t.Dict != nil && t.Dict.IsCompoundMarker(u)

	// punctuation, no longer walked once the patterns are broken
	switch {
	case s.InvalidPunc:
	case parentHyp != nil && compound && unichar.IsAlnum(parentHyp.Unichar):
		s.PuncRef = dawg.NoPunc
	case t.Punc != nil:
		prevApostrophe := parentHyp != nil && unichar.IsApostrophe(parentHyp.Unichar)
		token := dawg.PatternToken(u, prevApostrophe)
		if s.PuncRef == dawg.NoPunc || token != dawg.WordPattern || !t.Punc.EdgeIsWord(s.PuncRef) {
			ref, ok := t.Punc.Extend(s.PuncRef, token, step.WordEnd)
			s.PuncRef = ref
			if !ok {
				s.InvalidPunc = true
			}
		}
	}
	if unichar.IsPunct(u) {
		s.NumPunc++
	}

	// case
	firstLetter := s.NumAlphas == 0
	switch {
	case parentHyp != nil && !step.WordEnd && compound:
		s.NumLower = 0
		s.NumNonFirstUpper = 0
	case unichar.IsLower(u):
		s.NumLower++
	case unichar.IsUpper(u):
		if !firstLetter && (parentHyp == nil || !unichar.IsUpper(parentHyp.Unichar)) {
			s.NumNonFirstUpper++
		}
	}

	// script
	script := unichar.ScriptOf(u)
	if script == unichar.ScriptHiragana || script == unichar.ScriptKatakana {
		script = unichar.ScriptHan
	}
	switch {
	case s.Script == unichar.ScriptCommon:
		s.Script = script
	case script != unichar.ScriptCommon && script != s.Script:
		s.InconsistentScript = true
	}

	// chartype
	switch {
	case unichar.IsAlpha(u):
		s.NumAlphas++
	case unichar.IsDigit(u):
		s.NumDigits++
	case !unichar.IsPunct(u):
		s.NumOther++
	}

	if parentHyp != nil {
		t.fillSpacing(s, *parentHyp, step)
	}
}

// fillSpacing compares the fonts and the gap between two adjacent characters
func (t *ConsistencyTracker) fillSpacing(s *ConsistencyState, parent ratings.Hypothesis, step Step) {
	h := step.Hyp
	if t.Fonts == nil || !hasFontHint(parent) || !hasFontHint(h) {
		return
	}

	font := ratings.NoFont
	for _, f := range h.Fonts {
		if parent.HasFont(f) {
			font = f
			break
		}
	}

	var expected float64
	found := false
	if font != ratings.NoFont {
		expected, found = t.Fonts.ExpectedGap(font, parent.Unichar, h.Unichar)
	} else {
		s.InconsistentFont = true
		sum, n := 0.0, 0
		for _, f := range []int{parent.Fonts[0], parent.Fonts[1], h.Fonts[0], h.Fonts[1]} {
			if f == ratings.NoFont {
				continue
			}
			if gap, ok := t.Fonts.ExpectedGap(f, parent.Unichar, h.Unichar); ok {
				sum += gap
				n++
			}
		}
		if n > 0 {
			expected, found = sum/float64(n), true
		}
	}
	if !found {
		return
	}

	if step.Gap == 0 {
		if expected != 0 {
			s.NumInconsistentSpaces++
		}
		return
	}
	ratio := expected / step.Gap
	if ratio < minGapRatio || ratio > maxGapRatio {
		s.NumInconsistentSpaces++
	}
}

func hasFontHint(h ratings.Hypothesis) bool {
	return h.Fonts[0] != ratings.NoFont || h.Fonts[1] != ratings.NoFont
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
