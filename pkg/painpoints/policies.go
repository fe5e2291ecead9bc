package painpoints

import (
	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// GenerateInitial schedules every unclassified cell next to a classified
// one: (col,row) when (col,row-1) or (col+1,row) is classified. It returns
// the number of pain points added.
func (s *Scheduler) GenerateInitial() int {
	matrix := s.bundle.Matrix
	dim := matrix.Dimension()
	added := 0
	for col := range dim {
		last := min(dim-1, col+matrix.Bandwidth()-1)
		for row := col + 1; row <= last; row++ {
			if matrix.IsClassified(col, row) {
				continue
			}
			if matrix.IsClassified(col, row-1) || (col+1 < dim && matrix.IsClassified(col+1, row)) {
				if s.GeneratePainPoint(TypeShape, col, row, InitialPriority, true, s.cfg.MaxCharWhRatio, nil) {
					added++
				}
			}
		}
	}
	return added
}

// GenerateAfterClassify schedules the merges of a newly classified cell with
// its left and right neighbors
func (s *Scheduler) GenerateAfterClassify(col, row int) {
	hyps, ok := s.bundle.Matrix.Get(col, row)
	if !ok || len(hyps) == 0 {
		return
	}
	if col > 0 {
		s.GeneratePainPoint(TypeShape, col-1, row, DefaultPriority, true, s.cfg.MaxCharWhRatio, nil)
	}
	if row+1 < s.bundle.Matrix.Dimension() {
		s.GeneratePainPoint(TypeShape, col, row+1, DefaultPriority, true, s.cfg.MaxCharWhRatio, nil)
	}
}

// GenerateFromCell runs the pain point policy of the language model on a
// cell whose entries just changed: the n-gram policy when n-gram scoring is
// on, the problematic-path policy otherwise.
func (s *Scheduler) GenerateFromCell(col, row int) error {
	if s.model.NgramEnabled() {
		return s.generateNgram(col, row)
	}
	return s.generateProblematic(col, row)
}

// generateProblematic schedules a merge to the left and an extension to the
// right of the best entry of a cell when its last character is where the
// path went wrong
func (s *Scheduler) generateProblematic(col, row int) error {
	e, err := s.bestEntry(col, row, false)
	if e == nil || err != nil {
		return err
	}
	problematic, err := s.model.ProblematicPath(s.bundle, e)
	if err != nil || !problematic {
		return err
	}
	parent, err := s.parent(e)
	if err != nil {
		return err
	}
	if col > 0 {
		s.GeneratePainPoint(TypeShape, col-1, row, DefaultPriority, true, s.cfg.MaxCharWhRatio, nil)
	}
	if row+1 < s.bundle.Matrix.Dimension() {
		s.GeneratePainPoint(TypeShape, col, row+1, DefaultPriority, true, s.cfg.MaxCharWhRatio, parent)
	}
	return nil
}

// generateNgram schedules a merge of the top-choice entry of a cell with its
// predecessor when the n-gram probability dips at this character. A dip
// caused by punctuation also merges the character before.
func (s *Scheduler) generateNgram(col, row int) error {
	e, err := s.bestEntry(col, row, true)
	if e == nil || err != nil {
		return err
	}
	if e.Ngram == nil || !e.Ngram.Pruned {
		return nil
	}
	parent, err := s.parent(e)
	if err != nil || parent == nil || parent.Ngram == nil || parent.Ngram.Pruned {
		return err
	}
	grandparent, err := s.parent(parent)
	if err != nil {
		return err
	}

	s.GeneratePainPoint(TypeShape, parent.Cell.Col, row, DefaultPriority, true, s.cfg.MaxCharWhRatio, grandparent)
	if unichar.IsPunct(parent.Hyp.Unichar) && grandparent != nil {
		s.GeneratePainPoint(TypeShape, grandparent.Cell.Col, row, DefaultPriority, true, s.cfg.MaxCharWhRatio, nil)
	} else if row+1 < s.bundle.Matrix.Dimension() {
		s.GeneratePainPoint(TypeShape, col, row+1, DefaultPriority, true, s.cfg.MaxCharWhRatio, parent)
	}
	return nil
}

// GenerateFromBestChoice schedules the pain points of a new best choice:
// a Path pain point merging each character with its predecessor, pain
// points around every problematic character and every punctuation or digit
// run, and an Ambig pain point per dangerous ambiguity.
func (s *Scheduler) GenerateFromBestChoice() error {
	best := s.bundle.Best()
	if best == nil {
		return nil
	}
	path, err := s.bundle.Path(best.Entry)
	if err != nil {
		return err
	}
	s.generateFromPath(path)
	if err := s.rescanPath(path); err != nil {
		return err
	}
	for _, a := range best.DangerousAmbiguities() {
		s.GeneratePainPoint(TypeAmbig, a.Span.Col, a.Span.Row, DefaultPriority, false, langmodel.LooseMaxCharWhRatio, nil)
	}
	return nil
}

// generateFromPath schedules merges of adjacent characters, the ones with
// the lowest rating per outline length first
func (s *Scheduler) generateFromPath(path []*langmodel.Entry) {
	for i := 1; i < len(path); i++ {
		e, p := path[i], path[i-1]
		outline := s.model.OutlineLength(e.Hyp) + s.model.OutlineLength(p.Hyp)
		if outline <= 0 {
			continue
		}
		priority := (e.Hyp.Rating + p.Hyp.Rating) / outline
		s.GeneratePainPoint(TypePath, p.Cell.Col, e.Cell.Row, priority, true, s.cfg.MaxCharWhRatio, nil)
	}
}

// rescanPath schedules pain points for every problematic character of the
// best path and merges for runs of punctuation or digits
func (s *Scheduler) rescanPath(path []*langmodel.Entry) error {
	dim := s.bundle.Matrix.Dimension()
	for i, e := range path {
		problematic, err := s.model.ProblematicPath(s.bundle, e)
		if err != nil {
			return err
		}
		if !problematic {
			continue
		}
		if i > 0 {
			var grandparent *langmodel.Entry
			if i > 1 {
				grandparent = path[i-2]
			}
			s.GeneratePainPoint(TypeShape, path[i-1].Cell.Col, e.Cell.Row, BestChoicePriority, true, s.cfg.MaxCharWhRatio, grandparent)
		}
		if e.Cell.Row+1 < dim {
			var parent *langmodel.Entry
			if i > 0 {
				parent = path[i-1]
			}
			s.GeneratePainPoint(TypeShape, e.Cell.Col, e.Cell.Row+1, BestChoicePriority, true, s.cfg.MaxCharWhRatio, parent)
		}
	}

	for _, run := range streaks(path) {
		var parent *langmodel.Entry
		if run.first > 0 {
			parent = path[run.first-1]
		}
		s.GeneratePainPoint(TypeShape, path[run.first].Cell.Col, path[run.last].Cell.Row, BestChoicePriority, false, s.cfg.MaxCharWhRatio, parent)
	}
	return nil
}

type streak struct {
	first, last int
}

// streaks returns the runs of two or more consecutive punctuation or digit
// characters
func streaks(path []*langmodel.Entry) []streak {
	kind := func(u string) int {
		switch {
		case unichar.IsPunct(u):
			return 1
		case unichar.IsDigit(u):
			return 2
		}
		return 0
	}
	var out []streak
	start := 0
	for i := 1; i <= len(path); i++ {
		if i < len(path) {
			k := kind(path[i].Hyp.Unichar)
			if k != 0 && k == kind(path[start].Hyp.Unichar) {
				continue
			}
		}
		if i-start > 1 && kind(path[start].Hyp.Unichar) != 0 {
			out = append(out, streak{first: start, last: i - 1})
		}
		start = i
	}
	return out
}

// bestEntry returns the lowest-cost entry of a cell, or with topChoice the
// lowest-cost entry holding a top-choice flag
func (s *Scheduler) bestEntry(col, row int, topChoice bool) (*langmodel.Entry, error) {
	cell := s.bundle.Cell(ratings.Coord{Col: col, Row: row})
	if cell == nil || cell.Len() == 0 {
		return nil, nil
	}
	handles := cell.Entries()
	var first *langmodel.Entry
	for _, h := range handles {
		e, err := s.bundle.Entry(h)
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = e
		}
		if !topChoice || e.TopChoice != 0 {
			return e, nil
		}
	}
	return first, nil
}

func (s *Scheduler) parent(e *langmodel.Entry) (*langmodel.Entry, error) {
	if e.Parent.IsNil() {
		return nil, nil
	}
	return s.bundle.Entry(e.Parent)
}
