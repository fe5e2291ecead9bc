package langmodel

import (
	"errors"
	"fmt"
	"math"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// ErrUnencodable is returned for segmentations the run-length state cannot
// represent
var ErrUnencodable = errors.New("segmentation not encodable")

// StateFromCells encodes a segmentation as the number of fragments of each
// character. The cells must tile the word from fragment 0 without gaps.
func StateFromCells(cells []ratings.Coord) ([]uint8, error) {
	state := make([]uint8, len(cells))
	next := 0
	for i, c := range cells {
		if c.Col != next || c.Row < c.Col {
			return nil, fmt.Errorf("%w: cell %s does not start at fragment %d", ErrUnencodable, c, next)
		}
		if c.Span() > math.MaxUint8 {
			return nil, fmt.Errorf("%w: cell %s spans more than %d fragments", ErrUnencodable, c, math.MaxUint8)
		}
		state[i] = uint8(c.Span())
		next = c.Row + 1
	}
	return state, nil
}

// StateFromPath encodes the segmentation of the path ending at h
func (b *Bundle) StateFromPath(h EntryHandle) ([]uint8, error) {
	path, err := b.Path(h)
	if err != nil {
		return nil, err
	}
	cells := make([]ratings.Coord, len(path))
	for i, e := range path {
		cells[i] = e.Cell
	}
	return StateFromCells(cells)
}

// PathFromState decodes a run-length state into the cells of a word of
// dimension fragments
func PathFromState(state []uint8, dimension int) ([]ratings.Coord, error) {
	cells := make([]ratings.Coord, 0, len(state))
	col := 0
	for _, n := range state {
		if n == 0 {
			return nil, fmt.Errorf("%w: zero-length character", ErrUnencodable)
		}
		c := ratings.Coord{Col: col, Row: col + int(n) - 1}
		cells = append(cells, c)
		col = c.Row + 1
	}
	if col != dimension {
		return nil, fmt.Errorf("%w: state covers %d of %d fragments", ErrUnencodable, col, dimension)
	}
	return cells, nil
}
