// Package painpoints schedules the cells of the ratings matrix that the
// segmentation search classifies next. Pain points live in one bounded heap
// per Type; Pop drains the Ambig heap first, then Path, then Shape, and
// returns the lowest priority within a heap.
package painpoints

import (
	"log/slog"
	"math"

	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// Scheduler holds the pain points of one word search. It is not safe for
// concurrent use.
type Scheduler struct {
	cfg    Config
	model  *langmodel.Model
	bundle *langmodel.Bundle
	logger *slog.Logger

	heaps  [numTypes]*priorityqueue.Queue
	queued map[ratings.Coord]float64
	seq    uint64
	stats  Stats
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithConfig replaces the whole configuration
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		s.cfg = cfg
	}
}

// WithMaxHeapSize sets the maximum number of pain points per heap
func WithMaxHeapSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.cfg.MaxHeapSize = n
		}
	}
}

// WithMaxGenerated sets the maximum number of pain points per word
func WithMaxGenerated(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.cfg.MaxGenerated = n
		}
	}
}

// WithMaxCharWhRatio sets the width-to-height bound of scheduled cells
func WithMaxCharWhRatio(r float64) Option {
	return func(s *Scheduler) {
		if r > 0 {
			s.cfg.MaxCharWhRatio = r
		}
	}
}

// WithLogger sets the logger, slog.Default() when unset
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates the scheduler of the word searched with bundle
func New(model *langmodel.Model, bundle *langmodel.Bundle, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:    DefaultConfig(),
		model:  model,
		bundle: bundle,
		queued: make(map[ratings.Coord]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cfg.MaxCharWhRatio <= 0 {
		s.cfg.MaxCharWhRatio = model.Config().MaxCharWhRatio
	}
	for i := range s.heaps {
		s.heaps[i] = priorityqueue.NewWith(byPriority)
	}
	return s
}

// byPriority orders pain points by priority, then by generation order
func byPriority(a, b interface{}) int {
	pa, pb := a.(PainPoint), b.(PainPoint)
	switch {
	case pa.Priority < pb.Priority:
		return -1
	case pa.Priority > pb.Priority:
		return 1
	case pa.seq < pb.seq:
		return -1
	case pa.seq > pb.seq:
		return 1
	}
	return 0
}

// Len returns the number of queued pain points, superseded ones included
func (s *Scheduler) Len() int {
	n := 0
	for _, h := range s.heaps {
		n += h.Size()
	}
	return n
}

// HeapLen returns the number of pain points in the heap of one type
func (s *Scheduler) HeapLen(t Type) int {
	if t < 0 || t >= numTypes {
		return 0
	}
	return s.heaps[t].Size()
}

// Stats returns the pain point counters
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Clear drops every queued pain point. Counters are kept.
func (s *Scheduler) Clear() {
	for _, h := range s.heaps {
		h.Clear()
	}
	s.queued = make(map[ratings.Coord]float64)
}

// Pop removes the next pain point. Pain points superseded by a better
// priority for the same cell are skipped. The second result is false when
// every heap is empty.
func (s *Scheduler) Pop() (PainPoint, bool) {
	for _, t := range Types {
		h := s.heaps[t]
		for !h.Empty() {
			v, _ := h.Dequeue()
			pp := v.(PainPoint)
			if best, ok := s.queued[pp.Coord]; !ok || best != pp.Priority {
				continue
			}
			delete(s.queued, pp.Coord)
			s.stats.Popped[t]++
			return pp, true
		}
	}
	return PainPoint{}, false
}

// GeneratePainPoint schedules cell (col,row) for classification. okToExtend
// lets a fixed-pitch word widen the cell rightwards while it overlaps the
// next fragment. parent is the entry the merged character would extend, nil
// when unknown. It reports whether a pain point was added; cells already
// classified or queued with a better priority, cells of bad shape and full
// heaps are rejected.
func (s *Scheduler) GeneratePainPoint(t Type, col, row int, priority float64, okToExtend bool, maxCharWhRatio float64, parent *langmodel.Entry) bool {
	if t < 0 || t >= numTypes {
		return false
	}
	matrix := s.bundle.Matrix
	coord := ratings.Coord{Col: col, Row: row}
	if !matrix.Valid(coord) || matrix.IsClassified(col, row) {
		return false
	}

	params := s.model.AssociateParams(s.bundle.FixedPitch(), maxCharWhRatio)
	stats := langmodel.ComputeAssociateStats(s.bundle.Word, col, row, nil, 0, params, false)
	if okToExtend && s.bundle.FixedPitch() {
		for stats.BadFixedPitchRightGap && row+1 < matrix.Dimension() && !stats.BadFixedPitchWhRatio {
			row++
			stats = langmodel.ComputeAssociateStats(s.bundle.Word, col, row, nil, 0, params, false)
		}
		coord.Row = row
		if !matrix.Valid(coord) || matrix.IsClassified(col, row) {
			return false
		}
	}
	if stats.BadShape {
		s.stats.Rejected[t]++
		return false
	}

	priority = s.priority(t, col, row, priority, stats, parent)
	if queued, ok := s.queued[coord]; ok && queued <= priority {
		return false
	}
	if s.heaps[t].Size() >= s.cfg.MaxHeapSize || s.stats.TotalGenerated() >= s.cfg.MaxGenerated {
		s.stats.Rejected[t]++
		return false
	}

	s.seq++
	s.heaps[t].Enqueue(PainPoint{Coord: coord, Priority: priority, Type: t, seq: s.seq})
	s.queued[coord] = priority
	s.stats.Generated[t]++
	return true
}

// priority scales the base priority of a pain point by its shape, the
// certainty of its pieces and the parent path. Path pain points keep their
// base priority.
func (s *Scheduler) priority(t Type, col, row int, base float64, stats langmodel.AssociateStats, parent *langmodel.Entry) float64 {
	if t == TypePath {
		return base
	}
	p := base
	if stats.ShapeCost > 0 {
		p *= stats.ShapeCost
	}
	worst, fragmented := s.worstPieceCertainty(col, row)
	if best := s.bundle.Best(); best != nil {
		worst = max(worst, best.Certainty)
	}
	p *= s.model.CertaintyScore(min(worst, maxPieceCertainty))
	if fragmented {
		p /= FragmentedAdjustment
	}
	if parent != nil && col > 0 {
		p *= math.Sqrt(math.Max(parent.Cost, 0) / float64(col))
		if parent.Dawg != nil && parent.Length > 0 {
			p /= math.Sqrt(float64(parent.Length))
		}
	}
	return p
}

// worstPieceCertainty returns the lowest certainty among the top
// non-fragment choices of the two pieces (col,row-1) and (col+1,row), and
// whether either piece's top choice is a fragment.
func (s *Scheduler) worstPieceCertainty(col, row int) (float64, bool) {
	cert, fragmented := 0.0, false
	piece := func(c, r int) {
		hyps, ok := s.bundle.Matrix.Get(c, r)
		if !ok || len(hyps) == 0 {
			return
		}
		if hyps[0].Fragmented {
			fragmented = true
		}
		for _, h := range hyps {
			if !h.Fragmented {
				cert = min(cert, h.Certainty)
				break
			}
		}
	}
	if row > 0 {
		piece(col, row-1)
	}
	if col+1 < s.bundle.Matrix.Dimension() {
		piece(col+1, row)
	}
	return cert, fragmented
}
