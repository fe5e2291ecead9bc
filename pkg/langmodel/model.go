// Package langmodel scores segmentation paths. It keeps, per ratings-matrix
// cell, a bounded list of Viterbi entries combining classifier ratings with
// dictionary, character n-gram, consistency and shape evidence, and tracks
// the best complete word.
//
// A Model is immutable after NewModel and safe for concurrent use. Each
// word is searched with its own Bundle.
package langmodel

import (
	"log/slog"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/fontinfo"
	"github.com/Hanaasagi/wordseg/pkg/ngram"
)

// Model is the language model of the segmentation search
type Model struct {
	cfg    Config
	dict   dawg.Dictionary
	punc   *dawg.PuncTrie
	ngram  ngram.Model
	fonts  fontinfo.SpacingTable
	ambigs *dawg.AmbigTable
	logger *slog.Logger

	tracker ConsistencyTracker
}

// Option configures a Model
type Option func(*Model)

// WithConfig replaces the whole configuration
func WithConfig(cfg Config) Option {
	return func(m *Model) {
		m.cfg = cfg
	}
}

// WithDictionary sets the dictionary collaborator
func WithDictionary(d dawg.Dictionary) Option {
	return func(m *Model) {
		m.dict = d
	}
}

// WithPunctuation sets the punctuation pattern trie
func WithPunctuation(p *dawg.PuncTrie) Option {
	return func(m *Model) {
		m.punc = p
	}
}

// WithNgramModel sets the character n-gram model and enables n-gram scoring
func WithNgramModel(model ngram.Model) Option {
	return func(m *Model) {
		m.ngram = model
		m.cfg.NgramEnabled = model != nil
	}
}

// WithSpacingTable sets the font spacing collaborator
func WithSpacingTable(t fontinfo.SpacingTable) Option {
	return func(m *Model) {
		m.fonts = t
	}
}

// WithAmbiguities sets the character ambiguity table
func WithAmbiguities(t *dawg.AmbigTable) Option {
	return func(m *Model) {
		m.ambigs = t
	}
}

// WithLogger sets the logger, slog.Default() when unset
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// WithMaxViterbiListSize sets the maximum number of entries per hypothesis
func WithMaxViterbiListSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.cfg.MaxViterbiListSize = n
		}
	}
}

// WithMaxPrunable sets the maximum number of prunable entries per hypothesis
func WithMaxPrunable(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.cfg.MaxPrunable = n
		}
	}
}

// WithPenalties sets the consistency penalty weights
func WithPenalties(p Penalties) Option {
	return func(m *Model) {
		m.cfg.Penalties = p
	}
}

// WithSigmoidalCertainty selects the sigmoidal certainty score
func WithSigmoidalCertainty(enabled bool) Option {
	return func(m *Model) {
		m.cfg.UseSigmoidalCertainty = enabled
	}
}

// WithPartialDictionaryCredit enables credit for dictionary sub-words
func WithPartialDictionaryCredit(enabled bool) Option {
	return func(m *Model) {
		m.cfg.PartialDictionaryCredit = enabled
	}
}

// WithFixedPitch forces the fixed-pitch shape model
func WithFixedPitch(enabled bool) Option {
	return func(m *Model) {
		m.cfg.FixedPitch = enabled
	}
}

// NewModel creates a language model
func NewModel(opts ...Option) *Model {
	m := &Model{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.ngram == nil {
		m.cfg.NgramEnabled = false
	}
	if m.cfg.MaxPrunable > m.cfg.MaxViterbiListSize {
		m.cfg.MaxPrunable = m.cfg.MaxViterbiListSize
	}
	m.tracker = ConsistencyTracker{
		Punc:              m.punc,
		Dict:              m.dict,
		Fonts:             m.fonts,
		MaxXHeightEntropy: m.cfg.XHeightMaxEntropy,
	}
	return m
}

// Config returns the model configuration
func (m *Model) Config() Config {
	return m.cfg
}

// Dictionary returns the dictionary collaborator, nil when none is set
func (m *Model) Dictionary() dawg.Dictionary {
	return m.dict
}

// NgramEnabled reports whether paths are scored with the n-gram model
func (m *Model) NgramEnabled() bool {
	return m.cfg.NgramEnabled
}

// Tracker returns the consistency tracker of the model
func (m *Model) Tracker() *ConsistencyTracker {
	return &m.tracker
}

// AssociateParams returns the shape parameters for a word with the given
// pitch and width ratio bound
func (m *Model) AssociateParams(fixedPitch bool, maxCharWhRatio float64) AssociateParams {
	return AssociateParams{
		FixedPitch:     fixedPitch,
		MaxCharWhRatio: maxCharWhRatio,
		MinGap:         m.cfg.FixedPitchMinGap,
	}
}
