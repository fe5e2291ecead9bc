package langmodel

import (
	"errors"
	"testing"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

func TestStateFromCells_RoundTrip(t *testing.T) {
	cells := []ratings.Coord{{Col: 0, Row: 1}, {Col: 2, Row: 2}, {Col: 3, Row: 5}}

	state, err := StateFromCells(cells)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []uint8{2, 1, 3}
	if len(state) != len(want) {
		t.Fatalf("Expected state %v, got %v", want, state)
	}
	for i := range want {
		if state[i] != want[i] {
			t.Errorf("Expected %d at %d, got %d", want[i], i, state[i])
		}
	}

	decoded, err := PathFromState(state, 6)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range cells {
		if decoded[i] != cells[i] {
			t.Errorf("Expected %s at %d, got %s", cells[i], i, decoded[i])
		}
	}
}

func TestStateFromCells_Unencodable(t *testing.T) {
	tests := []struct {
		name  string
		cells []ratings.Coord
	}{
		{"gap", []ratings.Coord{{Col: 0, Row: 0}, {Col: 2, Row: 2}}},
		{"late start", []ratings.Coord{{Col: 1, Row: 1}}},
		{"inverted", []ratings.Coord{{Col: 0, Row: 0}, {Col: 1, Row: 0}}},
		{"too wide", []ratings.Coord{{Col: 0, Row: 300}}},
	}
	for _, tt := range tests {
		if _, err := StateFromCells(tt.cells); !errors.Is(err, ErrUnencodable) {
			t.Errorf("Expected ErrUnencodable for %s, got %v", tt.name, err)
		}
	}
}

func TestPathFromState_Errors(t *testing.T) {
	if _, err := PathFromState([]uint8{1, 0, 1}, 2); !errors.Is(err, ErrUnencodable) {
		t.Errorf("Expected ErrUnencodable for a zero run, got %v", err)
	}
	if _, err := PathFromState([]uint8{1, 1}, 3); !errors.Is(err, ErrUnencodable) {
		t.Errorf("Expected ErrUnencodable for a short state, got %v", err)
	}
}
