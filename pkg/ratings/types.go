package ratings

import (
	"fmt"
	"math"
)

// NoFont marks an unset font hint
const NoFont = -1

// Coord addresses one cell of the ratings matrix: fragments Col..Row merged
// into a single character candidate.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// String returns a string representation of the coordinate
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Span returns the number of fragments the cell covers
func (c Coord) Span() int {
	return c.Row - c.Col + 1
}

// Valid reports whether the coordinate lies inside a matrix of the given
// dimension and bandwidth.
func (c Coord) Valid(dimension, bandwidth int) bool {
	return c.Col >= 0 && c.Row < dimension && c.Col <= c.Row && c.Row-c.Col < bandwidth
}

// Hypothesis is one classifier-proposed character identity for a fragment span
type Hypothesis struct {
	Unichar string `json:"unichar" yaml:"unichar"`

	// Rating is the raw classifier distance (lower is better, non-negative)
	Rating float64 `json:"rating" yaml:"rating"`

	// Certainty is the raw classifier confidence (negative, closer to 0 is better)
	Certainty float64 `json:"certainty" yaml:"certainty"`

	// Fonts holds up to two font hints, NoFont when unset
	Fonts [2]int `json:"fonts" yaml:"fonts"`

	// Fragmented marks a result that is itself several merged glyph pieces
	Fragmented bool `json:"fragmented" yaml:"fragmented"`

	// YShift is the vertical offset from the baseline in pixels
	// (positive: superscript, negative: subscript)
	YShift float64 `json:"y_shift" yaml:"y_shift"`

	// MinXHeight and MaxXHeight bound the plausible x-height in pixels
	MinXHeight float64 `json:"min_x_height" yaml:"min_x_height"`
	MaxXHeight float64 `json:"max_x_height" yaml:"max_x_height"`
}

// NewHypothesis creates a hypothesis without font or size information
func NewHypothesis(unichar string, rating, certainty float64) Hypothesis {
	return Hypothesis{
		Unichar:    unichar,
		Rating:     rating,
		Certainty:  certainty,
		Fonts:      [2]int{NoFont, NoFont},
		MaxXHeight: UnboundedXHeight,
	}
}

// UnboundedXHeight is the default upper x-height bound of a hypothesis
const UnboundedXHeight = 1 << 15

// XHeightRange returns the plausible x-height range, treating an unset upper
// bound as unbounded.
func (h Hypothesis) XHeightRange() (lo, hi float64) {
	hi = h.MaxXHeight
	if hi <= 0 {
		hi = UnboundedXHeight
	}
	return h.MinXHeight, hi
}

// Position and size agreement limits, as fractions of the line x-height
const (
	maxBaselineDrift      = 0.0625
	maxOverlapDenominator = 0.125
	minXHeightMatch       = 0.5
)

// PosAndSizeAgree reports whether h and other sit on the same baseline and
// admit overlapping x-heights on a line of the given x-height.
func (h Hypothesis) PosAndSizeAgree(other Hypothesis, xHeight float64) bool {
	if math.Abs(h.YShift-other.YShift) > maxBaselineDrift*xHeight {
		return false
	}
	lo, hi := h.XHeightRange()
	otherLo, otherHi := other.XHeightRange()
	denom := max(1, min(hi-lo, otherHi-otherLo, maxOverlapDenominator*xHeight))
	overlap := min(hi, otherHi) - max(lo, otherLo)
	return overlap/denom >= minXHeightMatch
}

// HasFont reports whether the hypothesis carries the given font hint
func (h Hypothesis) HasFont(font int) bool {
	return font != NoFont && (h.Fonts[0] == font || h.Fonts[1] == font)
}

// String returns a string representation of the hypothesis
func (h Hypothesis) String() string {
	return fmt.Sprintf("%q r=%.3f c=%.3f", h.Unichar, h.Rating, h.Certainty)
}
