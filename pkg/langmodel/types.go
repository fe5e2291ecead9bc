package langmodel

import (
	"strings"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
)

// TopChoiceFlags records which top-choice criteria a path satisfies
type TopChoiceFlags uint8

const (
	// FlagSmallestRating marks the path with the smallest ratings sum
	FlagSmallestRating TopChoiceFlags = 1 << iota
	// FlagLowerCase marks the best all-lower-case path
	FlagLowerCase
	// FlagUpperCase marks the best all-upper-case path
	FlagUpperCase
	// FlagDigit marks the best all-digit path
	FlagDigit
	// FlagXHeightConsistent is cleared when the x-height decision is inconsistent
	FlagXHeightConsistent
)

// AllTopChoiceFlags is the union of every top-choice flag
const AllTopChoiceFlags = FlagSmallestRating | FlagLowerCase | FlagUpperCase | FlagDigit | FlagXHeightConsistent

// String returns a string representation of the flags
func (f TopChoiceFlags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	names := []struct {
		flag TopChoiceFlags
		name string
	}{
		{FlagSmallestRating, "smallest"},
		{FlagLowerCase, "lower"},
		{FlagUpperCase, "upper"},
		{FlagDigit, "digit"},
		{FlagXHeightConsistent, "xht"},
	}
	for _, n := range names {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// XHeightDecision classifies the vertical consistency of a path
type XHeightDecision int

const (
	XHeightGood XHeightDecision = iota
	XHeightSubNormal
	XHeightInconsistent
)

// String returns the name of the decision
func (d XHeightDecision) String() string {
	switch d {
	case XHeightGood:
		return "good"
	case XHeightSubNormal:
		return "subnormal"
	case XHeightInconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// DictionaryInfo is the dictionary walk state of a path
type DictionaryInfo struct {
	Positions dawg.Positions
	Permuter  dawg.DictionaryMatch
}

// NgramInfo is the n-gram state of a path
type NgramInfo struct {
	// Context holds the last unichars of the path, at most the model order
	Context      string
	ContextSteps int

	// Pruned is set once a step hit the probability floor; it is inherited
	Pruned bool

	// NgramCost is the accumulated language model cost
	NgramCost float64

	// Cost is the accumulated n-gram and classifier cost
	Cost float64
}

// AssociateStats holds the shape statistics of a fragment span
type AssociateStats struct {
	ShapeCost float64
	BadShape  bool

	FullWhRatio      float64
	FullWhRatioTotal float64
	FullWhRatioVar   float64

	BadFixedPitchRightGap bool
	BadFixedPitchWhRatio  bool

	GapSum float64
}
