package langmodel

import (
	"errors"
	"testing"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

func TestArena_AllocGet(t *testing.T) {
	a := NewArena()
	h := a.Alloc(Entry{Cell: ratings.Coord{Col: 0, Row: 1}, RatingsSum: 2})

	e, err := a.Get(h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.RatingsSum != 2 || e.Cell != (ratings.Coord{Col: 0, Row: 1}) {
		t.Errorf("Expected the stored entry back, got %+v", e)
	}
	if a.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", a.Len())
	}
}

func TestArena_StablePointers(t *testing.T) {
	a := NewArena()
	first := a.Alloc(Entry{Length: 1})
	p, err := a.Get(first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	for i := range arenaChunkSize * 2 {
		a.Alloc(Entry{Length: i + 2})
	}

	again, err := a.Get(first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != again {
		t.Errorf("Expected the entry pointer to survive chunk growth")
	}
	p.Updated = true
	if !again.Updated {
		t.Errorf("Expected writes through the pointer to be visible")
	}
}

func TestArena_Reset_StaleHandle(t *testing.T) {
	a := NewArena()
	h := a.Alloc(Entry{})
	gen := a.Generation()
	a.Reset()

	if a.Generation() == gen {
		t.Errorf("Expected Reset to bump the generation")
	}
	if a.Len() != 0 {
		t.Errorf("Expected an empty arena, got %d entries", a.Len())
	}
	if _, err := a.Get(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle, got %v", err)
	}

	// a fresh handle at the same index is valid again
	fresh := a.Alloc(Entry{})
	if _, err := a.Get(fresh); err != nil {
		t.Errorf("Expected the new handle to resolve, got %v", err)
	}
	if _, err := a.Get(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected the old handle to stay stale, got %v", err)
	}
}

func TestArena_Get_NilHandle(t *testing.T) {
	a := NewArena()
	if _, err := a.Get(NilHandle); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle for the nil handle, got %v", err)
	}
	if NilHandle.String() != "nil" {
		t.Errorf("Expected 'nil', got %q", NilHandle.String())
	}
}

func TestCellState_Insert(t *testing.T) {
	a := NewArena()
	s := newCellState(ratings.Coord{Col: 0, Row: 0})

	costs := []float64{3, 1, 2, 1}
	handles := make([]EntryHandle, len(costs))
	for i, c := range costs {
		handles[i] = a.Alloc(Entry{Cost: c})
		if err := s.insert(handles[i], 0, c, 4); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	// equal costs keep their insertion order
	want := []EntryHandle{handles[1], handles[3], handles[2], handles[0]}
	for i, h := range s.Entries() {
		if h != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, h)
		}
	}
	if best, ok := s.Best(); !ok || best != handles[1] {
		t.Errorf("Expected best %s, got %s", handles[1], best)
	}

	if err := s.insert(a.Alloc(Entry{}), 0, 0, 4); !errors.Is(err, ErrCapacity) {
		t.Errorf("Expected ErrCapacity on a full hypothesis, got %v", err)
	}
	// other hypotheses of the cell have their own capacity
	if err := s.insert(a.Alloc(Entry{}), 1, 0, 4); err != nil {
		t.Errorf("Expected room for a second hypothesis, got %v", err)
	}
	if s.HypLen(0) != 4 || s.HypLen(1) != 1 || s.Len() != 5 {
		t.Errorf("Expected 4+1 entries, got %d+%d of %d", s.HypLen(0), s.HypLen(1), s.Len())
	}

	s.remove(0)
	if s.HypLen(0) != 3 {
		t.Errorf("Expected 3 entries after remove, got %d", s.HypLen(0))
	}
}
