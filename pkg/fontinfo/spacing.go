// Package fontinfo provides the font spacing collaborator: the expected gap
// between two characters set in a given font.
package fontinfo

import (
	"fmt"
	"sync"
)

// SpacingTable returns the expected gap in pixels between left and right when
// both are set in the given font. The second result is false when the font
// has no spacing information for the pair.
type SpacingTable interface {
	ExpectedGap(font int, left, right string) (float64, bool)
}

type pairKey struct {
	font        int
	left, right string
}

// Table is an in-memory SpacingTable with per-font defaults
type Table struct {
	mu       sync.RWMutex
	pairs    map[pairKey]float64
	defaults map[int]float64
	names    map[int]string
}

// NewTable creates an empty spacing table
func NewTable() *Table {
	return &Table{
		pairs:    make(map[pairKey]float64),
		defaults: make(map[int]float64),
		names:    make(map[int]string),
	}
}

// AddFont registers a font id with a name and a default inter-character gap
func (t *Table) AddFont(font int, name string, defaultGap float64) error {
	if font < 0 {
		return fmt.Errorf("invalid font id %d", font)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[font] = name
	t.defaults[font] = defaultGap
	return nil
}

// SetPair sets the expected gap for a specific character pair (kerning)
func (t *Table) SetPair(font int, left, right string, gap float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pairs[pairKey{font, left, right}] = gap
}

// Len returns the number of registered fonts
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}

// Name returns the registered name of a font
func (t *Table) Name(font int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.names[font]
	return name, ok
}

// ExpectedGap implements SpacingTable
func (t *Table) ExpectedGap(font int, left, right string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if gap, ok := t.pairs[pairKey{font, left, right}]; ok {
		return gap, true
	}
	gap, ok := t.defaults[font]
	return gap, ok
}
