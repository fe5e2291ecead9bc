package segsearch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanaasagi/wordseg/pkg/painpoints"
)

// StopReason tells why a search ended
type StopReason int

const (
	// StopExhausted means no pain point was left to classify
	StopExhausted StopReason = iota
	// StopFutile means the futile classification budget ran out
	StopFutile
	// StopAcceptable means an acceptable choice survived the stability window
	StopAcceptable
)

// String returns the name of the stop reason
func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopFutile:
		return "futile"
	case StopAcceptable:
		return "acceptable"
	default:
		return fmt.Sprintf("stop(%d)", int(r))
	}
}

// MarshalText encodes the stop reason by name
func (r StopReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Metrics counts the work of one word search
type Metrics struct {
	RunID string `json:"run_id"`

	Classifications       int `json:"classifications"`
	FutileClassifications int `json:"futile_classifications"`
	EmptyClassifications  int `json:"empty_classifications"`

	PainPointsGenerated map[string]int `json:"pain_points_generated"`
	PainPointsPopped    map[string]int `json:"pain_points_popped"`
	PainPointsRejected  map[string]int `json:"pain_points_rejected"`

	EntriesCreated   int `json:"entries_created"`
	EntriesDiscarded int `json:"entries_discarded"`
	BestUpdates      int `json:"best_updates"`

	StopReason StopReason    `json:"stop_reason"`
	Elapsed    time.Duration `json:"elapsed"`

	start time.Time
}

// NewMetrics creates the metrics of a new run
func NewMetrics() *Metrics {
	return &Metrics{
		RunID:               uuid.NewString(),
		PainPointsGenerated: make(map[string]int),
		PainPointsPopped:    make(map[string]int),
		PainPointsRejected:  make(map[string]int),
		start:               time.Now(),
	}
}

// recordPainPoints copies the scheduler counters
func (m *Metrics) recordPainPoints(s painpoints.Stats) {
	for _, t := range painpoints.Types {
		m.PainPointsGenerated[t.String()] = s.Generated[t]
		m.PainPointsPopped[t.String()] = s.Popped[t]
		m.PainPointsRejected[t.String()] = s.Rejected[t]
	}
}

func (m *Metrics) finish(reason StopReason) {
	m.StopReason = reason
	m.Elapsed = time.Since(m.start)
}

// TotalPainPoints returns the number of pain points generated over every type
func (m *Metrics) TotalPainPoints() int {
	n := 0
	for _, v := range m.PainPointsGenerated {
		n += v
	}
	return n
}
