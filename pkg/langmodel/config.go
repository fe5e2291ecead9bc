package langmodel

// Viterbi list bounds
const (
	// DefaultMaxViterbiListSize is the maximum number of entries per hypothesis
	// of a cell
	DefaultMaxViterbiListSize = 500

	// DefaultMaxPrunable is the maximum number of prunable entries per
	// hypothesis of a cell
	DefaultMaxPrunable = 10
)

// Character n-gram model
const (
	// DefaultNgramOrder is the maximum context length in unichars
	DefaultNgramOrder = 8

	// DefaultNgramSmallProb is the probability floor; paths hitting it are pruned
	DefaultNgramSmallProb = 0.000001

	// DefaultNgramNonmatchScore is the certainty assumed for unichars the
	// classifier did not return
	DefaultNgramNonmatchScore = -40.0

	// DefaultNgramScaleFactor weighs the n-gram cost against the classifier cost
	DefaultNgramScaleFactor = 0.03

	// DefaultNgramRatingFactor normalizes costs by outline length
	DefaultNgramRatingFactor = 16.0

	// DefaultUnicharsetSize is the size of the character set the classifier
	// chooses from
	DefaultUnicharsetSize = 112
)

// Path cost penalties
const (
	DefaultPenaltyNonFreqDictWord = 0.1
	DefaultPenaltyNonDictWord     = 0.15
	DefaultPenaltyPunc            = 0.2
	DefaultPenaltyCase            = 0.1
	DefaultPenaltyScript          = 0.5
	DefaultPenaltyChartype        = 0.3
	DefaultPenaltyFont            = 0.0
	DefaultPenaltySpacing         = 0.05
	DefaultPenaltyIncrement       = 0.01

	// DefaultMinCompoundLength is the minimum length of a sub-word before a
	// compound marker, and the length after which non-dictionary words pay
	// an extra increment per character
	DefaultMinCompoundLength = 3
)

// Certainty scoring
const (
	// DefaultCertaintyScale is the classifier certainty scale
	DefaultCertaintyScale = 20.0

	// DefaultRatingScale is the classifier rating scale
	DefaultRatingScale = 1.5

	// DefaultRatingCertScale converts rating/certainty into an outline length
	DefaultRatingCertScale = -1.0 * DefaultCertaintyScale / DefaultRatingScale
)

// Shape and x-height
const (
	// DefaultMaxCharWhRatio is the maximum width-to-height ratio of a character
	DefaultMaxCharWhRatio = 2.0

	// LooseMaxCharWhRatio is the relaxed ratio used for ambiguity pain points
	LooseMaxCharWhRatio = 2.5

	// MaxFixedPitchCharAspectRatio is the maximum ratio of a fixed-pitch character
	MaxFixedPitchCharAspectRatio = 2.0

	// MinGap is the minimum normalized gap around a fixed-pitch character
	MinGap = 0.03

	// DefaultXHeightMaxEntropy bounds the number of sub/normal/super band switches
	DefaultXHeightMaxEntropy = 1

	// XHeightShiftThreshold is the y-shift in pixels beyond which a character
	// counts as sub- or superscript
	XHeightShiftThreshold = 1.0

	// XHeightMinSizeRatio is the minimum sub/superscript to mainline x-height ratio
	XHeightMinSizeRatio = 0.4

	// XHeightMaxPuncShare is the largest share of punctuation in a sub/super band
	XHeightMaxPuncShare = 0.4
)

// Acceptable choice thresholds
const (
	// DefaultDictCertainty is the minimum certainty of a dictionary-backed choice
	DefaultDictCertainty = -8.0

	// DefaultNonDictCertainty is the minimum certainty of any other choice
	DefaultNonDictCertainty = -2.5
)

// Penalties holds the path cost penalty weights
type Penalties struct {
	NonFreqDictWord float64 `toml:"non_freq_dict_word"`
	NonDictWord     float64 `toml:"non_dict_word"`
	Punc            float64 `toml:"punc"`
	Case            float64 `toml:"case"`
	Script          float64 `toml:"script"`
	Chartype        float64 `toml:"chartype"`
	Font            float64 `toml:"font"`
	Spacing         float64 `toml:"spacing"`
	Increment       float64 `toml:"increment"`
}

// DefaultPenalties returns the default penalty weights
func DefaultPenalties() Penalties {
	return Penalties{
		NonFreqDictWord: DefaultPenaltyNonFreqDictWord,
		NonDictWord:     DefaultPenaltyNonDictWord,
		Punc:            DefaultPenaltyPunc,
		Case:            DefaultPenaltyCase,
		Script:          DefaultPenaltyScript,
		Chartype:        DefaultPenaltyChartype,
		Font:            DefaultPenaltyFont,
		Spacing:         DefaultPenaltySpacing,
		Increment:       DefaultPenaltyIncrement,
	}
}

// Config holds the language model parameters
type Config struct {
	MaxViterbiListSize int
	MaxPrunable        int

	NgramEnabled          bool
	NgramOrder            int
	NgramSmallProb        float64
	NgramNonmatchScore    float64
	NgramScaleFactor      float64
	NgramRatingFactor     float64
	NgramUseOnlyFirstStep bool
	UnicharsetSize        int

	Penalties         Penalties
	MinCompoundLength int

	UseSigmoidalCertainty bool
	CertaintyScale        float64
	RatingCertScale       float64

	// FixedPitch forces the fixed-pitch shape model for every word
	FixedPitch       bool
	FixedPitchMinGap float64

	MaxCharWhRatio    float64
	XHeightMaxEntropy int

	// ForgiveDictionaryInconsistency charges dictionary-backed paths only
	// for case inconsistency
	ForgiveDictionaryInconsistency bool

	// PartialDictionaryCredit restarts dictionary walks after complete
	// sub-words, for text without word delimiters
	PartialDictionaryCredit bool

	// EarlyDiscard drops pairs whose ratings sum already exceeds the best
	// complete cost
	EarlyDiscard bool

	DictCertainty    float64
	NonDictCertainty float64
}

// DefaultConfig returns the default language model configuration
func DefaultConfig() Config {
	return Config{
		MaxViterbiListSize:             DefaultMaxViterbiListSize,
		MaxPrunable:                    DefaultMaxPrunable,
		NgramOrder:                     DefaultNgramOrder,
		NgramSmallProb:                 DefaultNgramSmallProb,
		NgramNonmatchScore:             DefaultNgramNonmatchScore,
		NgramScaleFactor:               DefaultNgramScaleFactor,
		NgramRatingFactor:              DefaultNgramRatingFactor,
		UnicharsetSize:                 DefaultUnicharsetSize,
		Penalties:                      DefaultPenalties(),
		MinCompoundLength:              DefaultMinCompoundLength,
		CertaintyScale:                 DefaultCertaintyScale,
		RatingCertScale:                DefaultRatingCertScale,
		FixedPitchMinGap:               MinGap,
		MaxCharWhRatio:                 DefaultMaxCharWhRatio,
		XHeightMaxEntropy:              DefaultXHeightMaxEntropy,
		ForgiveDictionaryInconsistency: true,
		EarlyDiscard:                   true,
		DictCertainty:                  DefaultDictCertainty,
		NonDictCertainty:               DefaultNonDictCertainty,
	}
}
