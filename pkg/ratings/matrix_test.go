package ratings

import (
	"errors"
	"sync"
	"testing"
)

func TestMatrix_Classify_Idempotent(t *testing.T) {
	m := NewMatrix(3, 0)

	first := []Hypothesis{NewHypothesis("a", 1.0, -1.0)}
	if err := m.Classify(0, 1, first); err != nil {
		t.Fatalf("Expected first classify to succeed, got %v", err)
	}

	second := []Hypothesis{NewHypothesis("b", 0.5, -0.5)}
	err := m.Classify(0, 1, second)
	if !errors.Is(err, ErrAlreadyClassified) {
		t.Errorf("Expected ErrAlreadyClassified, got %v", err)
	}

	got, ok := m.Get(0, 1)
	if !ok {
		t.Fatalf("Expected cell (0,1) to be classified")
	}
	if len(got) != 1 || got[0].Unichar != "a" {
		t.Errorf("Expected hypothesis list to stay [a], got %v", got)
	}
}

func TestMatrix_Classify_CopiesInput(t *testing.T) {
	m := NewMatrix(2, 0)
	hyps := []Hypothesis{NewHypothesis("x", 1, -1)}
	if err := m.Classify(0, 0, hyps); err != nil {
		t.Fatalf("classify: %v", err)
	}
	hyps[0].Unichar = "y"

	got, _ := m.Get(0, 0)
	if got[0].Unichar != "x" {
		t.Errorf("Expected stored hypothesis to be unaffected, got %q", got[0].Unichar)
	}
}

func TestMatrix_EmptyResultIsClassified(t *testing.T) {
	m := NewMatrix(2, 0)
	if err := m.Classify(1, 1, nil); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !m.IsClassified(1, 1) {
		t.Errorf("Expected empty result to count as classified")
	}
	got, ok := m.Get(1, 1)
	if !ok || len(got) != 0 {
		t.Errorf("Expected empty classified list, got %v (ok=%v)", got, ok)
	}
}

func TestMatrix_Bandwidth(t *testing.T) {
	m := NewMatrix(5, 2)

	if m.Bandwidth() != 2 {
		t.Errorf("Expected bandwidth 2, got %d", m.Bandwidth())
	}
	if err := m.Classify(0, 2, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for span 3, got %v", err)
	}
	if err := m.Classify(3, 4, nil); err != nil {
		t.Errorf("Expected span 2 to be addressable, got %v", err)
	}
	if m.IsClassified(4, 3) {
		t.Errorf("Expected inverted coordinate to be invalid")
	}
}

func TestMatrix_Claim(t *testing.T) {
	m := NewMatrix(4, 0)

	var wg sync.WaitGroup
	wins := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- m.Claim(1, 2)
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for w := range wins {
		if w {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one successful claim, got %d", count)
	}

	if err := m.Classify(1, 2, []Hypothesis{NewHypothesis("q", 1, -1)}); err != nil {
		t.Errorf("Expected claimed cell to accept classification, got %v", err)
	}
	if m.Claim(1, 2) {
		t.Errorf("Expected classified cell to refuse claim")
	}
	if m.ClassifiedCount() != 1 {
		t.Errorf("Expected 1 classified cell, got %d", m.ClassifiedCount())
	}
}

func TestCoord_Valid(t *testing.T) {
	tests := []struct {
		c    Coord
		want bool
	}{
		{Coord{0, 0}, true},
		{Coord{0, 3}, true},
		{Coord{0, 4}, false},
		{Coord{2, 1}, false},
		{Coord{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(4, 4); got != tt.want {
			t.Errorf("Valid(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestHypothesis_PosAndSizeAgree(t *testing.T) {
	sized := func(yShift, lo, hi float64) Hypothesis {
		h := NewHypothesis("x", 1, -1)
		h.YShift, h.MinXHeight, h.MaxXHeight = yShift, lo, hi
		return h
	}

	tests := []struct {
		name string
		a, b Hypothesis
		want bool
	}{
		{"unbounded", NewHypothesis("a", 1, -1), NewHypothesis("b", 1, -1), true},
		{"same range", sized(0, 18, 22), sized(0, 19, 21), true},
		{"disjoint ranges", sized(0, 18, 22), sized(0, 28, 32), false},
		{"small overlap", sized(0, 18, 22), sized(0, 21.5, 26), false},
		{"baseline drift", sized(0, 18, 22), sized(4, 18, 22), false},
	}
	for _, tt := range tests {
		if got := tt.a.PosAndSizeAgree(tt.b, 20); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
		if got := tt.b.PosAndSizeAgree(tt.a, 20); got != tt.want {
			t.Errorf("%s: expected symmetric %v, got %v", tt.name, tt.want, got)
		}
	}
}
