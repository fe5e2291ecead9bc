// Package segsearch drives the segmentation search of a word: it classifies
// the cells the pain point scheduler asks for, propagates the language
// model through the ratings matrix and stops when the pain points run out,
// the futile classification budget is spent, or an acceptable choice has
// been stable for a few classifications.
package segsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/painpoints"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// Driver searches words with one language model and classifier. A Driver
// holds no per-word state and may search several words concurrently when
// its classifier allows it.
type Driver struct {
	cfg        Config
	model      *langmodel.Model
	classifier Classifier
	logger     *slog.Logger
}

// Option configures a Driver
type Option func(*Driver)

// WithConfig replaces the whole configuration
func WithConfig(cfg Config) Option {
	return func(d *Driver) {
		d.cfg = cfg
	}
}

// WithFutileBudget sets the number of classifications over the whole search
// that may fail to improve the best choice
func WithFutileBudget(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.cfg.FutileBudget = n
		}
	}
}

// WithStabilityWindow sets the number of classifications allowed after the
// first acceptable choice
func WithStabilityWindow(n int) Option {
	return func(d *Driver) {
		if n >= 0 {
			d.cfg.StabilityWindow = n
		}
	}
}

// WithMaxPainPoints sets the maximum number of pain points per word
func WithMaxPainPoints(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.cfg.MaxPainPoints = n
		}
	}
}

// WithBandwidth sets the maximum number of fragments per character
func WithBandwidth(n int) Option {
	return func(d *Driver) {
		if n >= 0 {
			d.cfg.Bandwidth = n
		}
	}
}

// WithLogger sets the logger, slog.Default() when unset
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// New creates a driver
func New(model *langmodel.Model, classifier Classifier, opts ...Option) *Driver {
	d := &Driver{
		cfg:        DefaultConfig(),
		model:      model,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Config returns the driver configuration
func (d *Driver) Config() Config {
	return d.cfg
}

// Step is one character of a result path
type Step struct {
	Unichar   string        `json:"unichar"`
	Span      ratings.Coord `json:"span"`
	Rating    float64       `json:"rating"`
	Certainty float64       `json:"certainty"`
	Cost      float64       `json:"cost"`
	Permuter  string        `json:"permuter"`
}

// Result is the outcome of a word search
type Result struct {
	Best    *langmodel.WordChoice `json:"best"`
	Raw     *langmodel.WordChoice `json:"raw"`
	Steps   []Step                `json:"steps"`
	Metrics *Metrics              `json:"metrics"`
}

// Text returns the best choice, empty when nothing was recognized
func (r *Result) Text() string {
	if r.Best == nil {
		return ""
	}
	return r.Best.Text
}

// search is the state of one word search
type search struct {
	*Driver

	word    *blob.Word
	matrix  *ratings.Matrix
	bundle  *langmodel.Bundle
	sched   *painpoints.Scheduler
	pending []pending
	metrics *Metrics
}

// Search segments and recognizes word. prevWord is the best choice of the
// preceding word on the line, empty at the start of a line. Every fragment
// is classified on its own before the search starts. Search returns
// ctx.Err() when the context is cancelled between classifications.
func (d *Driver) Search(ctx context.Context, word *blob.Word, prevWord string) (*Result, error) {
	if word == nil {
		return nil, errors.New("nil word")
	}
	if err := word.Validate(); err != nil {
		return nil, err
	}
	s := &search{
		Driver:  d,
		word:    word,
		matrix:  ratings.NewMatrix(word.Len(), d.cfg.Bandwidth),
		pending: newPending(word.Len()),
		metrics: NewMetrics(),
	}
	for i := range word.Len() {
		if err := s.classify(ctx, i, i); err != nil {
			return nil, err
		}
	}

	s.bundle = d.model.InitForWord(word, s.matrix, prevWord)
	defer s.bundle.Release()
	s.sched = painpoints.New(d.model, s.bundle,
		painpoints.WithMaxHeapSize(d.cfg.MaxHeapSize),
		painpoints.WithMaxGenerated(d.cfg.MaxPainPoints),
		painpoints.WithLogger(d.logger),
	)

	reason, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	return s.result(reason)
}

func (s *search) run(ctx context.Context) (StopReason, error) {
	s.sched.GenerateInitial()
	s.pending[0].setColumnClassified()
	if err := s.updateNodes(0); err != nil {
		return 0, err
	}
	s.bundle.ClearBestUpdated()

	futile := 0
	stable := -1
	if s.bundle.AcceptableFound() {
		stable = 0
	}
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		switch {
		case futile >= s.cfg.FutileBudget:
			s.logger.Debug("Futile classification budget spent", "word", s.wordText(), "futile", futile)
			return StopFutile, nil
		case stable >= s.cfg.StabilityWindow:
			s.logger.Debug("Acceptable choice is stable", "word", s.wordText())
			return StopAcceptable, nil
		}

		pp, ok := s.nextPainPoint()
		if !ok {
			return StopExhausted, nil
		}
		s.logger.Debug("Pain point popped",
			"col", pp.Col,
			"row", pp.Row,
			"priority", pp.Priority,
			"type", pp.Type.String())

		if err := s.classify(ctx, pp.Col, pp.Row); err != nil {
			return 0, err
		}
		s.sched.GenerateAfterClassify(pp.Col, pp.Row)
		s.pending[pp.Col].setBlobClassified(pp.Row)
		if err := s.updateNodes(pp.Col); err != nil {
			return 0, err
		}

		if !s.bundle.BestUpdated() {
			futile++
			s.metrics.FutileClassifications++
		}
		s.bundle.ClearBestUpdated()
		switch {
		case stable >= 0:
			stable++
		case s.bundle.AcceptableFound():
			stable = 0
		}
	}
}

// nextPainPoint pops pain points until one names a cell that is still
// unclassified
func (s *search) nextPainPoint() (painpoints.PainPoint, bool) {
	for {
		pp, ok := s.sched.Pop()
		if !ok {
			return pp, false
		}
		if !s.matrix.IsClassified(pp.Col, pp.Row) {
			return pp, true
		}
	}
}

func (s *search) classify(ctx context.Context, col, row int) error {
	if !s.matrix.Claim(col, row) {
		return nil
	}
	hyps, err := s.classifier.Classify(ctx, s.word, col, row)
	if err != nil {
		return fmt.Errorf("classify (%d,%d): %w", col, row, err)
	}
	if err := s.matrix.Classify(col, row, hyps); err != nil {
		return err
	}
	s.metrics.Classifications++
	if len(hyps) == 0 {
		s.metrics.EmptyClassifications++
	}
	return nil
}

// updateNodes propagates the language model through every column from
// start on that has pending work, then schedules the pain points of a new
// best choice.
func (s *search) updateNodes(start int) error {
	dim := s.matrix.Dimension()
	for col := start; col < dim; col++ {
		p := &s.pending[col]
		if !p.workToDo() {
			continue
		}
		first, last := col, min(dim-1, col+s.matrix.Bandwidth()-1)
		if row := p.singleRow(); row >= 0 {
			first, last = row, row
		}
		for row := first; row <= last; row++ {
			changed, err := s.model.UpdateState(s.bundle, p.isRowJustClassified(row), col, row)
			if err != nil {
				return fmt.Errorf("update (%d,%d): %w", col, row, err)
			}
			if !changed {
				continue
			}
			if row+1 < dim {
				s.pending[row+1].revisitWholeColumn()
			}
			if err := s.sched.GenerateFromCell(col, row); err != nil {
				return err
			}
		}
	}

	if s.bundle.BestUpdated() {
		s.metrics.BestUpdates++
		if err := s.sched.GenerateFromBestChoice(); err != nil {
			return err
		}
	}
	for i := range s.pending {
		s.pending[i].clear()
	}
	s.bundle.ClearUpdated()
	return nil
}

func (s *search) wordText() string {
	if best := s.bundle.Best(); best != nil {
		return best.Text
	}
	return ""
}

// result materializes the best path before the bundle is released
func (s *search) result(reason StopReason) (*Result, error) {
	s.metrics.EntriesCreated = s.bundle.EntryCount()
	s.metrics.EntriesDiscarded = s.bundle.DiscardedCount()
	s.metrics.recordPainPoints(s.sched.Stats())
	s.metrics.finish(reason)

	r := &Result{
		Best:    s.bundle.Best(),
		Raw:     s.bundle.Raw(),
		Metrics: s.metrics,
	}
	if r.Best == nil {
		return r, nil
	}
	path, err := s.bundle.Path(r.Best.Entry)
	if err != nil {
		return nil, err
	}
	for _, e := range path {
		r.Steps = append(r.Steps, Step{
			Unichar:   e.Hyp.Unichar,
			Span:      e.Cell,
			Rating:    e.Hyp.Rating,
			Certainty: e.Hyp.Certainty,
			Cost:      e.Cost,
			Permuter:  e.Permuter().String(),
		})
	}
	s.logger.Debug("Search finished",
		"word", r.Best.Text,
		"cost", r.Best.Cost,
		"stop", reason.String(),
		"classifications", s.metrics.Classifications)
	return r, nil
}
