package langmodel

import (
	"fmt"
	"math"
	"sort"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// CellState holds the Viterbi entries ending at the last hypothesis of one
// cell, sorted by cost. Entries of equal cost keep their insertion order.
// Capacity and the prunable quota are counted per hypothesis.
type CellState struct {
	Coord ratings.Coord

	entries []EntryHandle
	costs   []float64
	hyps    []int

	quotas map[int]*hypQuota
}

// hypQuota counts the entries of one hypothesis of a cell
type hypQuota struct {
	count           int
	prunable        int
	prunableMaxCost float64
}

func newCellState(c ratings.Coord) *CellState {
	return &CellState{Coord: c, quotas: make(map[int]*hypQuota)}
}

func (s *CellState) quota(hyp int) *hypQuota {
	q, ok := s.quotas[hyp]
	if !ok {
		q = &hypQuota{prunableMaxCost: math.MaxFloat64}
		s.quotas[hyp] = q
	}
	return q
}

// Len returns the number of entries
func (s *CellState) Len() int {
	return len(s.entries)
}

// HypLen returns the number of entries ending at hypothesis hyp
func (s *CellState) HypLen(hyp int) int {
	if q, ok := s.quotas[hyp]; ok {
		return q.count
	}
	return 0
}

// Entries returns the entry handles in cost order
func (s *CellState) Entries() []EntryHandle {
	out := make([]EntryHandle, len(s.entries))
	copy(out, s.entries)
	return out
}

// Best returns the lowest-cost entry
func (s *CellState) Best() (EntryHandle, bool) {
	if len(s.entries) == 0 {
		return NilHandle, false
	}
	return s.entries[0], true
}

// PrunableLen returns the number of prunable entries of hypothesis hyp
func (s *CellState) PrunableLen(hyp int) int {
	if q, ok := s.quotas[hyp]; ok {
		return q.prunable
	}
	return 0
}

// PrunableMaxCost returns the cost a new prunable entry of hypothesis hyp
// must beat once its prunable quota is full
func (s *CellState) PrunableMaxCost(hyp int) float64 {
	if q, ok := s.quotas[hyp]; ok {
		return q.prunableMaxCost
	}
	return math.MaxFloat64
}

// insert adds h for hypothesis hyp in cost order after every entry of equal
// cost
func (s *CellState) insert(h EntryHandle, hyp int, cost float64, limit int) error {
	q := s.quota(hyp)
	if q.count >= limit {
		return fmt.Errorf("%w: cell %s holds %d entries for hypothesis %d", ErrCapacity, s.Coord, q.count, hyp)
	}
	i := sort.Search(len(s.costs), func(i int) bool { return s.costs[i] > cost })
	s.entries = append(s.entries, NilHandle)
	s.costs = append(s.costs, 0)
	s.hyps = append(s.hyps, 0)
	copy(s.entries[i+1:], s.entries[i:])
	copy(s.costs[i+1:], s.costs[i:])
	copy(s.hyps[i+1:], s.hyps[i:])
	s.entries[i] = h
	s.costs[i] = cost
	s.hyps[i] = hyp
	q.count++
	return nil
}

// remove drops the entry at position i
func (s *CellState) remove(i int) {
	s.quota(s.hyps[i]).count--
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.costs = append(s.costs[:i], s.costs[i+1:]...)
	s.hyps = append(s.hyps[:i], s.hyps[i+1:]...)
}
