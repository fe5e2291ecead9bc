// Package blob describes the fragment geometry of one word image.
//
// A word is an ordered sequence of fragments ("blobs"), each with a bounding
// box. The segmentation search groups runs of consecutive fragments into
// characters; this package answers the geometric questions it asks about
// such runs: how wide a run is, how large the gap after a fragment is, and
// which height to normalize widths by.
package blob

import (
	"fmt"
)

// DefaultXHeight is the normalized x-height used when a word does not carry one
const DefaultXHeight = 128.0

// Box is an axis-aligned bounding box in image coordinates (y grows downwards)
type Box struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Width returns the horizontal extent of the box
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box
func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// Union returns the smallest box containing both boxes
func (b Box) Union(o Box) Box {
	return Box{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// String returns a compact representation used as a cache key
func (b Box) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Left, b.Top, b.Right, b.Bottom)
}

// Word is the immutable fragment sequence of a single word image
type Word struct {
	Fragments []Box `json:"fragments" yaml:"fragments"`

	// XHeight is the estimated x-height of the text line in pixels
	XHeight float64 `json:"x_height" yaml:"x_height"`

	// BodySize is the full text body height (x-height plus ascenders); used
	// as the normalizing height for fixed-pitch scripts.
	BodySize float64 `json:"body_size" yaml:"body_size"`

	// FixedPitch marks words set in a fixed-pitch font or script (e.g. CJK)
	FixedPitch bool `json:"fixed_pitch" yaml:"fixed_pitch"`
}

// Len returns the number of fragments
func (w *Word) Len() int {
	return len(w.Fragments)
}

// Validate checks that the word is usable for a search
func (w *Word) Validate() error {
	if len(w.Fragments) == 0 {
		return fmt.Errorf("word has no fragments")
	}
	for i, f := range w.Fragments {
		if f.Width() < 0 || f.Height() < 0 {
			return fmt.Errorf("fragment %d has a negative extent", i)
		}
	}
	return nil
}

// SpanBox returns the union box of fragments first..last inclusive
func (w *Word) SpanBox(first, last int) Box {
	box := w.Fragments[first]
	for i := first + 1; i <= last; i++ {
		box = box.Union(w.Fragments[i])
	}
	return box
}

// SpanWidth returns the width of fragments first..last merged into one
func (w *Word) SpanWidth(first, last int) float64 {
	return w.Fragments[last].Right - w.Fragments[first].Left
}

// Gap returns the horizontal gap between fragment i and fragment i+1.
// Overlapping fragments produce a negative gap.
func (w *Word) Gap(i int) float64 {
	if i < 0 || i+1 >= len(w.Fragments) {
		return 0
	}
	return w.Fragments[i+1].Left - w.Fragments[i].Right
}

// NormalizingHeight returns the height that character widths are divided by
func (w *Word) NormalizingHeight() float64 {
	if w.FixedPitch && w.BodySize > 0 {
		return w.BodySize
	}
	if w.XHeight > 0 {
		return w.XHeight
	}
	return DefaultXHeight
}
