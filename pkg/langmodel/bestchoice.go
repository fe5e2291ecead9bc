package langmodel

import (
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// Acceptable choice certainty thresholds per character
const (
	// CertaintyPerChar lowers the acceptable certainty for each letter beyond
	// SmallWordSize in the shortest letter run of a dictionary word
	CertaintyPerChar = -0.5

	// SmallWordSize is the letter run length that needs the full certainty
	SmallWordSize = 2
)

// Ambiguity is a known character confusion found in a word choice, with the
// fragment span it covers
type Ambiguity struct {
	dawg.Fixpoint
	Span ratings.Coord `json:"span"`
}

// WordChoice is a complete path materialized into a word
type WordChoice struct {
	Text     string          `json:"text"`
	Unichars []string        `json:"unichars"`
	Cells    []ratings.Coord `json:"cells"`

	RatingsSum float64 `json:"ratings_sum"`
	Certainty  float64 `json:"certainty"`
	Cost       float64 `json:"cost"`
	ShapeCost  float64 `json:"shape_cost"`

	Permuter    dawg.DictionaryMatch `json:"permuter"`
	NgramBacked bool                 `json:"ngram_backed"`
	XHeight     XHeightDecision      `json:"x_height"`
	Consistent  bool                 `json:"consistent"`

	// State holds the number of fragments of each character
	State []uint8 `json:"state"`

	Ambiguities []Ambiguity `json:"ambiguities,omitempty"`

	Entry EntryHandle `json:"-"`
}

// DangerousAmbiguities returns the ambiguities whose replacement is a word
func (w *WordChoice) DangerousAmbiguities() []Ambiguity {
	var out []Ambiguity
	for _, a := range w.Ambiguities {
		if a.Dangerous {
			out = append(out, a)
		}
	}
	return out
}

// BestChoiceTracker holds the best complete paths of a word
type BestChoiceTracker struct {
	best       *WordChoice
	raw        *WordChoice
	updated    bool
	acceptable bool
	changes    int
}

// ConstructWord materializes the path ending at h. In fixed-pitch mode the
// width variance is recomputed over the whole path, skipping leading and
// trailing punctuation, and the cost is recomputed with it.
func (m *Model) ConstructWord(b *Bundle, h EntryHandle) (*WordChoice, error) {
	path, err := b.Path(h)
	if err != nil {
		return nil, err
	}
	last := path[len(path)-1]

	w := &WordChoice{
		Unichars:   make([]string, len(path)),
		Cells:      make([]ratings.Coord, len(path)),
		RatingsSum: last.RatingsSum,
		Certainty:  last.MinCertainty,
		XHeight:    last.Consistency.XHeightDecision,
		Consistent: m.EntryConsistent(last),
		Entry:      h,
	}
	for i, e := range path {
		w.Unichars[i] = e.Hyp.Unichar
		w.Cells[i] = e.Cell
	}
	w.Text = unichar.Join(w.Unichars)

	switch {
	case last.Dawg != nil:
		w.Permuter = last.Dawg.Permuter
	case last.TopChoice != 0:
		w.Permuter = dawg.MatchTopChoice
	}
	w.NgramBacked = last.Ngram != nil && !last.Ngram.Pruned

	shape := last.Associate.ShapeCost
	if b.fixedPitch {
		ratios := make([]float64, len(path))
		include := make([]bool, len(path))
		for i, e := range path {
			ratios[i] = e.Associate.FullWhRatio
			include[i] = (i > 0 && i < len(path)-1) || !unichar.IsPunct(e.Hyp.Unichar)
		}
		shape += FullPathWhVariance(ratios, include)
	}
	w.ShapeCost = shape
	w.Cost = m.PathCost(m.costInputs(last, shape))

	state, err := StateFromCells(w.Cells)
	if err != nil {
		return nil, err
	}
	w.State = state

	for _, fp := range m.ambigs.Fixpoints(w.Unichars, m.dict) {
		w.Ambiguities = append(w.Ambiguities, Ambiguity{
			Fixpoint: fp,
			Span:     ratings.Coord{Col: w.Cells[fp.Begin].Col, Row: w.Cells[fp.End-1].Row},
		})
	}
	return w, nil
}

// Consider offers the path ending at h as a best choice. Paths that do not
// end the word are ignored. It reports whether the adjusted best choice
// improved.
func (m *Model) Consider(b *Bundle, h EntryHandle, wordEnd bool) (bool, error) {
	if !wordEnd {
		return false, nil
	}
	e, err := b.Entry(h)
	if err != nil {
		return false, err
	}
	w, err := m.ConstructWord(b, h)
	if err != nil {
		return false, err
	}

	t := &b.best
	if t.raw == nil || w.RatingsSum < t.raw.RatingsSum {
		t.raw = w
	}
	if t.best != nil && w.Cost >= t.best.Cost {
		return false, nil
	}

	t.best = w
	t.updated = true
	t.changes++
	if m.acceptableChoice(w, e) {
		t.acceptable = true
	}
	m.logger.Debug("New best choice",
		"word", w.Text,
		"cost", w.Cost,
		"ratings_sum", w.RatingsSum,
		"permuter", w.Permuter.String(),
		"acceptable", t.acceptable)
	return true, nil
}

// acceptableChoice reports whether a best choice is good enough to stop the
// search: a consistent, unambiguous dictionary word of sufficient certainty
func (m *Model) acceptableChoice(w *WordChoice, e *Entry) bool {
	switch w.Permuter {
	case dawg.MatchNumber, dawg.MatchCompound, dawg.MatchSystem, dawg.MatchUser, dawg.MatchFrequent:
	default:
		return false
	}
	if !m.AcceptablePath(e) || len(w.DangerousAmbiguities()) > 0 {
		return false
	}
	if w.XHeight == XHeightInconsistent || e.Consistency.NumInconsistentCase() > 0 {
		return false
	}
	threshold := m.cfg.NonDictCertainty
	if run := shortestAlphaRun(w.Unichars) - SmallWordSize; run > 0 {
		threshold += float64(run) * CertaintyPerChar
	}
	threshold = max(threshold, m.cfg.DictCertainty)
	return w.Certainty > threshold
}

// shortestAlphaRun returns the length of the shortest run of letters, 0 when
// the word has none
func shortestAlphaRun(unichars []string) int {
	shortest, run := 0, 0
	flush := func() {
		if run > 0 && (shortest == 0 || run < shortest) {
			shortest = run
		}
		run = 0
	}
	for _, u := range unichars {
		if unichar.IsAlpha(u) {
			run++
			continue
		}
		flush()
	}
	flush()
	return shortest
}
