package painpoints

import (
	"fmt"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// Type is the kind of a pain point. Heaps are popped in Type order.
type Type int

const (
	// TypeAmbig covers a dangerous ambiguity of the best choice
	TypeAmbig Type = iota
	// TypePath merges two characters of the best choice
	TypePath
	// TypeShape joins a cell with its neighbors
	TypeShape

	numTypes
)

// Types lists every pain point type in pop order
var Types = []Type{TypeAmbig, TypePath, TypeShape}

// String returns the name of the type
func (t Type) String() string {
	switch t {
	case TypeAmbig:
		return "ambig"
	case TypePath:
		return "path"
	case TypeShape:
		return "shape"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// PainPoint is a request to classify one unclassified cell
type PainPoint struct {
	ratings.Coord
	Priority float64
	Type     Type

	seq uint64
}

// String returns a string representation of the pain point
func (p PainPoint) String() string {
	return fmt.Sprintf("%s %s p=%.4f", p.Type, p.Coord, p.Priority)
}

// Stats counts pain points per type
type Stats struct {
	Generated [numTypes]int
	Rejected  [numTypes]int
	Popped    [numTypes]int
}

// TotalGenerated returns the number of pain points pushed on any heap
func (s Stats) TotalGenerated() int {
	n := 0
	for _, g := range s.Generated {
		n += g
	}
	return n
}
