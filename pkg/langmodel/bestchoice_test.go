package langmodel

import (
	"testing"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

func TestModel_Consider_AcceptableDictionaryWord(t *testing.T) {
	_, b := meSearch(t)
	if !b.AcceptableFound() {
		t.Errorf("Expected 'me' to be acceptable")
	}
	if b.BestChanges() != 1 {
		t.Errorf("Expected 1 best change, got %d", b.BestChanges())
	}
}

func TestModel_Consider_LowCertaintyNotAcceptable(t *testing.T) {
	model := NewModel(WithDictionary(testLexicon("me")))
	b := runMeSearch(t, model, ratings.NewHypothesis("m", 2.2, -6))

	best := b.Best()
	if best == nil || best.Text != "me" {
		t.Fatalf("Expected best choice 'me', got %v", best)
	}
	if best.Certainty != -6 {
		t.Errorf("Expected certainty -6, got %v", best.Certainty)
	}
	if b.AcceptableFound() {
		t.Errorf("Expected an uncertain word not to be acceptable")
	}
}

func TestModel_Consider_RawDiffersFromBest(t *testing.T) {
	model := NewModel(WithDictionary(testLexicon("me")))
	b := runMeSearch(t, model, hyp("m", 2.4))

	best, raw := b.Best(), b.Raw()
	if best == nil || raw == nil {
		t.Fatalf("Expected best and raw choices")
	}
	if best.Text != "me" {
		t.Errorf("Expected best choice 'me', got %q", best.Text)
	}
	if raw.Text != "rne" {
		t.Errorf("Expected raw choice 'rne', got %q", raw.Text)
	}
	if raw.RatingsSum >= best.RatingsSum {
		t.Errorf("Expected the raw choice to have the smaller ratings sum, got %v >= %v", raw.RatingsSum, best.RatingsSum)
	}
	if b.BestChanges() != 2 {
		t.Errorf("Expected 2 best changes, got %d", b.BestChanges())
	}
}

func TestModel_ConstructWord_Ambiguities(t *testing.T) {
	_, b := meSearch(t, WithAmbiguities(dawg.NewAmbigTable(dawg.DefaultAmbigs)))

	best := b.Best()
	if best == nil {
		t.Fatalf("Expected a best choice")
	}
	if len(best.Ambiguities) != 1 {
		t.Fatalf("Expected 1 ambiguity, got %v", best.Ambiguities)
	}
	a := best.Ambiguities[0]
	if a.Replacement != "rne" {
		t.Errorf("Expected replacement 'rne', got %q", a.Replacement)
	}
	if a.Span != (ratings.Coord{Col: 0, Row: 1}) {
		t.Errorf("Expected span (0,1), got %s", a.Span)
	}
	if a.Dangerous {
		t.Errorf("Expected a non-word replacement not to be dangerous")
	}
	if !b.AcceptableFound() {
		t.Errorf("Expected a harmless ambiguity to keep the word acceptable")
	}
}

func TestWordChoice_DangerousAmbiguities(t *testing.T) {
	w := &WordChoice{Ambiguities: []Ambiguity{
		{Fixpoint: dawg.Fixpoint{Begin: 0, End: 1, Replacement: "rne"}},
		{Fixpoint: dawg.Fixpoint{Begin: 1, End: 2, Replacement: "mc", Dangerous: true}},
	}}

	got := w.DangerousAmbiguities()
	if len(got) != 1 || got[0].Replacement != "mc" {
		t.Errorf("Expected only the dangerous ambiguity, got %v", got)
	}
}

func TestShortestAlphaRun(t *testing.T) {
	tests := []struct {
		word []string
		want int
	}{
		{[]string{"h", "e", "l", "l", "o"}, 5},
		{[]string{"a", "b", "1", "c", "d", "e"}, 2},
		{[]string{"1", "2", "3"}, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := shortestAlphaRun(tt.word); got != tt.want {
			t.Errorf("Expected %d for %v, got %d", tt.want, tt.word, got)
		}
	}
}
