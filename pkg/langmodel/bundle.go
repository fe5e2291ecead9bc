package langmodel

import (
	"fmt"
	"sort"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// Bundle is the search state of one word: every cell state, the entry arena
// and the best choice found so far. A Bundle is used by one goroutine; the
// Model it was created from may be shared.
type Bundle struct {
	Word   *blob.Word
	Matrix *ratings.Matrix

	arena *Arena
	cells map[ratings.Coord]*CellState

	fixedPitch  bool
	prevContext string
	prevSteps   int
	beginning   dawg.Positions

	best      BestChoiceTracker
	discarded int
}

// InitForWord creates the search state of a word. prevWord is the best
// choice of the preceding word on the line, empty at the start of a line,
// and seeds the n-gram context.
func (m *Model) InitForWord(word *blob.Word, matrix *ratings.Matrix, prevWord string) *Bundle {
	b := &Bundle{
		Word:       word,
		Matrix:     matrix,
		arena:      NewArena(),
		cells:      make(map[ratings.Coord]*CellState),
		fixedPitch: m.cfg.FixedPitch || (word != nil && word.FixedPitch),
	}
	b.prevContext = " "
	if prevWord != "" {
		b.prevContext = prevWord + " "
	}
	b.prevSteps = unichar.StepCount(b.prevContext)
	if m.dict != nil {
		b.beginning = m.dict.Beginning()
	}
	return b
}

// Release drops every entry of the word. Handles issued before Release fail
// with ErrStaleHandle.
func (b *Bundle) Release() {
	b.arena.Reset()
	b.cells = make(map[ratings.Coord]*CellState)
	b.best = BestChoiceTracker{}
	b.discarded = 0
}

// FixedPitch reports whether the word is scored with the fixed-pitch model
func (b *Bundle) FixedPitch() bool {
	return b.fixedPitch
}

// Entry resolves a handle
func (b *Bundle) Entry(h EntryHandle) (*Entry, error) {
	return b.arena.Get(h)
}

// EntryCount returns the number of entries created for the word
func (b *Bundle) EntryCount() int {
	return b.arena.Len()
}

// DiscardedCount returns the number of candidate entries the language model
// dropped
func (b *Bundle) DiscardedCount() int {
	return b.discarded
}

// Cell returns the state of a cell, nil when no entry ends there
func (b *Bundle) Cell(c ratings.Coord) *CellState {
	return b.cells[c]
}

func (b *Bundle) cellOrNew(c ratings.Coord) *CellState {
	s, ok := b.cells[c]
	if !ok {
		s = newCellState(c)
		b.cells[c] = s
	}
	return s
}

// Parents returns the entries of every cell ending at fragment col-1,
// sorted by cost.
func (b *Bundle) Parents(col int) []EntryHandle {
	if col <= 0 {
		return nil
	}
	type ranked struct {
		h    EntryHandle
		cost float64
	}
	var all []ranked
	end := col - 1
	for start := max(0, end-b.Matrix.Bandwidth()+1); start <= end; start++ {
		s := b.cells[ratings.Coord{Col: start, Row: end}]
		if s == nil {
			continue
		}
		for i, h := range s.entries {
			all = append(all, ranked{h: h, cost: s.costs[i]})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].cost < all[j].cost })
	out := make([]EntryHandle, len(all))
	for i, r := range all {
		out[i] = r.h
	}
	return out
}

// Path returns the entries of the path ending at h, first character first
func (b *Bundle) Path(h EntryHandle) ([]*Entry, error) {
	var path []*Entry
	for cur := h; !cur.IsNil(); {
		e, err := b.arena.Get(cur)
		if err != nil {
			return nil, err
		}
		path = append(path, e)
		if len(path) > b.Matrix.Dimension() {
			return nil, fmt.Errorf("path from %s is longer than the word", h)
		}
		cur = e.Parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// RecomputeRatings walks the path ending at h and returns its ratings sum
// and length computed from the hypotheses alone.
func (b *Bundle) RecomputeRatings(h EntryHandle) (float64, int, error) {
	path, err := b.Path(h)
	if err != nil {
		return 0, 0, err
	}
	sum := 0.0
	for _, e := range path {
		sum += e.Hyp.Rating
	}
	return sum, len(path), nil
}

// ClearUpdated resets the Updated bit of every entry
func (b *Bundle) ClearUpdated() {
	for _, s := range b.cells {
		for _, h := range s.entries {
			if e, err := b.arena.Get(h); err == nil {
				e.Updated = false
			}
		}
	}
}

// Best returns the adjusted best choice, nil before any complete path
func (b *Bundle) Best() *WordChoice {
	return b.best.best
}

// Raw returns the best choice by ratings sum alone
func (b *Bundle) Raw() *WordChoice {
	return b.best.raw
}

// BestUpdated reports whether the best choice changed since the last
// ClearBestUpdated
func (b *Bundle) BestUpdated() bool {
	return b.best.updated
}

// ClearBestUpdated resets the best-choice change marker
func (b *Bundle) ClearBestUpdated() {
	b.best.updated = false
}

// AcceptableFound reports whether an acceptable choice has been found
func (b *Bundle) AcceptableFound() bool {
	return b.best.acceptable
}

// BestChanges returns how many times the best choice improved
func (b *Bundle) BestChanges() int {
	return b.best.changes
}
