package segsearch

import (
	"time"

	"github.com/Hanaasagi/wordseg/pkg/painpoints"
)

// Termination defaults
const (
	// DefaultFutileBudget is the number of classifications that may fail to
	// improve the best choice before the search stops. The count runs over
	// the whole search and is not reset by an improvement.
	DefaultFutileBudget = 20

	// DefaultStabilityWindow is the number of classifications allowed after
	// the first acceptable choice
	DefaultStabilityWindow = 2

	// DefaultMaxPainPoints is the maximum number of pain points per word
	DefaultMaxPainPoints = painpoints.DefaultMaxGenerated
)

// Classifier cache
const (
	// DefaultCacheTTL is how long a cached classification stays valid
	DefaultCacheTTL = 10 * time.Minute

	// DefaultCacheCleanup is the interval of expired cache entry eviction
	DefaultCacheCleanup = 5 * time.Minute
)

// Config holds the driver limits
type Config struct {
	FutileBudget    int
	StabilityWindow int
	MaxPainPoints   int
	MaxHeapSize     int

	// Bandwidth is the maximum number of fragments per character, 0 for no
	// limit
	Bandwidth int
}

// DefaultConfig returns the default driver configuration
func DefaultConfig() Config {
	return Config{
		FutileBudget:    DefaultFutileBudget,
		StabilityWindow: DefaultStabilityWindow,
		MaxPainPoints:   DefaultMaxPainPoints,
		MaxHeapSize:     painpoints.DefaultMaxHeapSize,
	}
}
