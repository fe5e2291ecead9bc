package painpoints

// Heap limits
const (
	// DefaultMaxHeapSize is the maximum number of pain points per heap
	DefaultMaxHeapSize = 2000

	// DefaultMaxGenerated is the maximum number of pain points generated for
	// one word over the whole search
	DefaultMaxGenerated = 10000
)

// Priority adjustments. Lower priorities are popped first.
const (
	// InitialPriority is the base priority of the initial pain points
	InitialPriority = 5.0

	// DefaultPriority is the base priority of pain points generated around
	// problematic paths and newly classified cells
	DefaultPriority = 2.0

	// BestChoicePriority is the base priority of pain points generated from
	// the best choice
	BestChoicePriority = 0.5

	// FragmentedAdjustment divides the priority of merges whose pieces look
	// like fragments of one character
	FragmentedAdjustment = 2.0
)

// maxPieceCertainty keeps the certainty score finite
const maxPieceCertainty = -1e-3

// Config holds the scheduler limits
type Config struct {
	MaxHeapSize  int
	MaxGenerated int

	// MaxCharWhRatio bounds the width of scheduled cells, 0 uses the
	// language model's bound
	MaxCharWhRatio float64
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxHeapSize:  DefaultMaxHeapSize,
		MaxGenerated: DefaultMaxGenerated,
	}
}
