// Package ratings implements the memoization table of classifier results,
// indexed by fragment span.
package ratings

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrAlreadyClassified is returned when a cell is classified twice
	ErrAlreadyClassified = errors.New("cell already classified")

	// ErrOutOfRange is returned for coordinates outside the matrix band
	ErrOutOfRange = errors.New("coordinate out of range")
)

type cell struct {
	hyps    atomic.Pointer[[]Hypothesis]
	claimed atomic.Bool
}

// Matrix is an upper-triangular, band-limited table of classifier results.
//
// Cells are filled lazily and never unfilled. Each cell moves from
// unclassified to classified exactly once, enforced with a compare-and-set,
// so concurrent classification of distinct cells needs no locking.
type Matrix struct {
	dimension int
	bandwidth int
	cells     []cell
}

// NewMatrix creates a matrix for a word of dimension fragments. A bandwidth
// of 0 or more than dimension allows a character to span the whole word.
func NewMatrix(dimension, bandwidth int) *Matrix {
	if bandwidth <= 0 || bandwidth > dimension {
		bandwidth = dimension
	}
	return &Matrix{
		dimension: dimension,
		bandwidth: bandwidth,
		cells:     make([]cell, dimension*bandwidth),
	}
}

// Dimension returns the number of fragments
func (m *Matrix) Dimension() int {
	return m.dimension
}

// Bandwidth returns the maximum number of fragments per character
func (m *Matrix) Bandwidth() int {
	return m.bandwidth
}

// Valid reports whether the coordinate is addressable
func (m *Matrix) Valid(c Coord) bool {
	return c.Valid(m.dimension, m.bandwidth)
}

func (m *Matrix) at(col, row int) (*cell, error) {
	if !m.Valid(Coord{Col: col, Row: row}) {
		return nil, fmt.Errorf("%w: (%d,%d) in %dx%d band", ErrOutOfRange, col, row, m.dimension, m.bandwidth)
	}
	return &m.cells[col*m.bandwidth+(row-col)], nil
}

// Get returns the hypotheses of a classified cell. The second result is false
// when the cell is unclassified or out of range. The returned slice must not
// be modified.
func (m *Matrix) Get(col, row int) ([]Hypothesis, bool) {
	c, err := m.at(col, row)
	if err != nil {
		return nil, false
	}
	p := c.hyps.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// IsClassified reports whether the cell holds a classifier result
func (m *Matrix) IsClassified(col, row int) bool {
	_, ok := m.Get(col, row)
	return ok
}

// Claim marks an unclassified cell as being classified by the caller.
// It returns false if the cell was already claimed or classified.
func (m *Matrix) Claim(col, row int) bool {
	c, err := m.at(col, row)
	if err != nil {
		return false
	}
	if c.hyps.Load() != nil {
		return false
	}
	return c.claimed.CompareAndSwap(false, true)
}

// Classify stores the hypotheses for a cell. An empty list is a valid result
// and marks the cell as a dead end. The list is copied; the stored list is
// immutable afterwards.
func (m *Matrix) Classify(col, row int, hyps []Hypothesis) error {
	c, err := m.at(col, row)
	if err != nil {
		return err
	}
	stored := make([]Hypothesis, len(hyps))
	copy(stored, hyps)
	if !c.hyps.CompareAndSwap(nil, &stored) {
		return fmt.Errorf("%w: (%d,%d)", ErrAlreadyClassified, col, row)
	}
	c.claimed.Store(true)
	return nil
}

// ClassifiedCount returns the number of classified cells
func (m *Matrix) ClassifiedCount() int {
	n := 0
	for i := range m.cells {
		if m.cells[i].hyps.Load() != nil {
			n++
		}
	}
	return n
}
