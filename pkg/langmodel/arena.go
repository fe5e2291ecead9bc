package langmodel

import (
	"errors"
	"fmt"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

var (
	// ErrStaleHandle is returned when a handle from an earlier word is used
	ErrStaleHandle = errors.New("stale entry handle")

	// ErrCapacity is returned when a cell would exceed its entry bound
	ErrCapacity = errors.New("viterbi list capacity exceeded")
)

// arenaChunkSize is the number of entries per arena chunk. Entries never move
// once allocated, so pointers stay valid until Reset.
const arenaChunkSize = 1024

// EntryHandle refers to an entry of an Arena. The zero value is not a valid
// handle; use NilHandle for "no parent".
type EntryHandle struct {
	index int32
	gen   uint32
}

// NilHandle is the handle of no entry
var NilHandle = EntryHandle{index: -1}

// IsNil reports whether the handle refers to no entry
func (h EntryHandle) IsNil() bool {
	return h.index < 0
}

// String returns a string representation of the handle
func (h EntryHandle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d@%d", h.index, h.gen)
}

// Entry is one Viterbi path ending at a hypothesis of a cell. Entries are
// immutable once inserted except for TopChoice and Updated.
type Entry struct {
	Parent   EntryHandle
	Cell     ratings.Coord
	HypIndex int
	Hyp      ratings.Hypothesis

	Cost          float64
	RatingsSum    float64
	MinCertainty  float64
	OutlineLength float64
	Length        int

	// DictChars counts the characters covered by completed dictionary
	// sub-words, used for partial dictionary credit
	DictChars int
	walkStart int
	committed int

	Consistency ConsistencyState
	Associate   AssociateStats
	Dawg        *DictionaryInfo
	Ngram       *NgramInfo

	TopChoice TopChoiceFlags

	// Updated marks entries whose children have not been generated yet
	Updated bool
}

// Permuter returns the dictionary match of the path, MatchNone when it has
// left the dictionary.
func (e *Entry) Permuter() dawg.DictionaryMatch {
	if e.Dawg == nil {
		return dawg.MatchNone
	}
	return e.Dawg.Permuter
}

// Arena owns every entry of one word search. Handles carry the generation
// they were issued in, and Reset invalidates them all at once.
type Arena struct {
	chunks [][]Entry
	n      int
	gen    uint32
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{gen: 1}
}

// Len returns the number of allocated entries
func (a *Arena) Len() int {
	return a.n
}

// Generation returns the current handle generation
func (a *Arena) Generation() uint32 {
	return a.gen
}

// Alloc stores e and returns its handle
func (a *Arena) Alloc(e Entry) EntryHandle {
	chunk := a.n / arenaChunkSize
	if chunk == len(a.chunks) {
		a.chunks = append(a.chunks, make([]Entry, 0, arenaChunkSize))
	}
	a.chunks[chunk] = append(a.chunks[chunk], e)
	h := EntryHandle{index: int32(a.n), gen: a.gen}
	a.n++
	return h
}

// Get returns the entry of h. The pointer stays valid until Reset.
func (a *Arena) Get(h EntryHandle) (*Entry, error) {
	if h.IsNil() {
		return nil, fmt.Errorf("%w: nil handle", ErrStaleHandle)
	}
	if h.gen != a.gen || int(h.index) >= a.n {
		return nil, fmt.Errorf("%w: %s (generation %d, %d entries)", ErrStaleHandle, h, a.gen, a.n)
	}
	i := int(h.index)
	return &a.chunks[i/arenaChunkSize][i%arenaChunkSize], nil
}

// Reset drops every entry and invalidates all issued handles. Chunk memory is
// kept for the next word.
func (a *Arena) Reset() {
	for i := range a.chunks {
		a.chunks[i] = a.chunks[i][:0]
	}
	a.n = 0
	a.gen++
}
