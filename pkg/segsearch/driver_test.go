package segsearch

import (
	"context"
	"errors"
	"testing"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

func testWord(n int) *blob.Word {
	w := &blob.Word{XHeight: 20}
	for i := range n {
		left := float64(i * 12)
		w.Fragments = append(w.Fragments, blob.Box{Left: left, Top: 0, Right: left + 10, Bottom: 20})
	}
	return w
}

func hyp(u string, rating float64) ratings.Hypothesis {
	return ratings.NewHypothesis(u, rating, -rating)
}

// mapClassifier answers from a table of spans, empty for unknown spans
type mapClassifier struct {
	spans map[ratings.Coord][]ratings.Hypothesis
	calls int
	err   error
}

func (c *mapClassifier) Classify(_ context.Context, _ *blob.Word, col, row int) ([]ratings.Hypothesis, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.spans[ratings.Coord{Col: col, Row: row}], nil
}

func singletons(unichars ...string) *mapClassifier {
	c := &mapClassifier{spans: make(map[ratings.Coord][]ratings.Hypothesis)}
	for i, u := range unichars {
		c.spans[ratings.Coord{Col: i, Row: i}] = []ratings.Hypothesis{hyp(u, 1)}
	}
	return c
}

func TestDriver_Search_FutileBudget(t *testing.T) {
	classifier := singletons("a", "b", "c")
	d := New(langmodel.NewModel(), classifier, WithFutileBudget(2))

	res, err := d.Search(context.Background(), testWord(3), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Metrics.StopReason != StopFutile {
		t.Errorf("Expected stop reason futile, got %s", res.Metrics.StopReason)
	}
	if res.Text() != "abc" {
		t.Errorf("Expected best choice 'abc', got '%s'", res.Text())
	}
	if res.Metrics.FutileClassifications != 2 {
		t.Errorf("Expected 2 futile classifications, got %d", res.Metrics.FutileClassifications)
	}
	if res.Metrics.Classifications != 5 {
		t.Errorf("Expected 5 classifications, got %d", res.Metrics.Classifications)
	}
	if res.Metrics.EmptyClassifications != 2 {
		t.Errorf("Expected 2 empty classifications, got %d", res.Metrics.EmptyClassifications)
	}
}

func TestDriver_Search_MergesIntoDictionaryWord(t *testing.T) {
	classifier := singletons("r", "n", "e")
	classifier.spans[ratings.Coord{Col: 0, Row: 1}] = []ratings.Hypothesis{hyp("m", 2.2)}
	lexicon := dawg.NewLexicon([]*dawg.Trie{dawg.BuildTrie(dawg.MatchSystem, []string{"me"})})
	d := New(langmodel.NewModel(langmodel.WithDictionary(lexicon)), classifier)

	res, err := d.Search(context.Background(), testWord(3), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Text() != "me" {
		t.Fatalf("Expected best choice 'me', got '%s'", res.Text())
	}
	if res.Best.Permuter != dawg.MatchSystem {
		t.Errorf("Expected system permuter, got %s", res.Best.Permuter)
	}
	if len(res.Best.State) != 2 || res.Best.State[0] != 2 || res.Best.State[1] != 1 {
		t.Errorf("Expected state [2 1], got %v", res.Best.State)
	}
	if res.Raw == nil {
		t.Fatalf("Expected a raw choice")
	}

	if len(res.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(res.Steps))
	}
	if res.Steps[0].Unichar != "m" || res.Steps[0].Span != (ratings.Coord{Col: 0, Row: 1}) {
		t.Errorf("Expected 'm' over (0,1), got '%s' over %s", res.Steps[0].Unichar, res.Steps[0].Span)
	}
	if res.Steps[1].Permuter != "system" {
		t.Errorf("Expected the last step to be a system word, got %s", res.Steps[1].Permuter)
	}
	if res.Metrics.BestUpdates < 2 {
		t.Errorf("Expected at least 2 best choice updates, got %d", res.Metrics.BestUpdates)
	}
}

func TestDriver_Search_AcceptableStopsSearch(t *testing.T) {
	classifier := singletons("a", "b")
	classifier.spans[ratings.Coord{Col: 0, Row: 0}] = []ratings.Hypothesis{hyp("a", 0.1)}
	classifier.spans[ratings.Coord{Col: 1, Row: 1}] = []ratings.Hypothesis{hyp("b", 0.1)}
	lexicon := dawg.NewLexicon([]*dawg.Trie{dawg.BuildTrie(dawg.MatchSystem, []string{"ab"})})
	d := New(langmodel.NewModel(langmodel.WithDictionary(lexicon)), classifier, WithStabilityWindow(0))

	res, err := d.Search(context.Background(), testWord(2), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Metrics.StopReason != StopAcceptable {
		t.Errorf("Expected stop reason acceptable, got %s", res.Metrics.StopReason)
	}
	if res.Metrics.Classifications != 2 {
		t.Errorf("Expected only the initial classifications, got %d", res.Metrics.Classifications)
	}
	if res.Text() != "ab" {
		t.Errorf("Expected best choice 'ab', got '%s'", res.Text())
	}
}

func TestDriver_Search_Exhausted(t *testing.T) {
	d := New(langmodel.NewModel(), singletons("a"))

	res, err := d.Search(context.Background(), testWord(1), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Metrics.StopReason != StopExhausted {
		t.Errorf("Expected stop reason exhausted, got %s", res.Metrics.StopReason)
	}
	if res.Text() != "a" {
		t.Errorf("Expected best choice 'a', got '%s'", res.Text())
	}
	if res.Metrics.RunID == "" {
		t.Errorf("Expected a run id")
	}
}

func TestDriver_Search_NothingClassifiable(t *testing.T) {
	d := New(langmodel.NewModel(), &mapClassifier{})

	res, err := d.Search(context.Background(), testWord(2), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Best != nil || res.Text() != "" {
		t.Errorf("Expected no best choice, got '%s'", res.Text())
	}
	if len(res.Steps) != 0 {
		t.Errorf("Expected no steps, got %d", len(res.Steps))
	}
}

func TestDriver_Search_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := New(langmodel.NewModel(), singletons("a", "b", "c"))

	_, err := d.Search(ctx, testWord(3), "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDriver_Search_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	d := New(langmodel.NewModel(), &mapClassifier{err: boom})

	_, err := d.Search(context.Background(), testWord(2), "")
	if !errors.Is(err, boom) {
		t.Errorf("Expected the classifier error, got %v", err)
	}
}

func TestDriver_Search_InvalidWord(t *testing.T) {
	d := New(langmodel.NewModel(), &mapClassifier{})

	if _, err := d.Search(context.Background(), &blob.Word{}, ""); err == nil {
		t.Errorf("Expected an error for a word without fragments")
	}
	if _, err := d.Search(context.Background(), nil, ""); err == nil {
		t.Errorf("Expected an error for a nil word")
	}
}

func TestDriver_Options(t *testing.T) {
	d := New(langmodel.NewModel(), &mapClassifier{},
		WithFutileBudget(7),
		WithStabilityWindow(0),
		WithMaxPainPoints(50),
		WithBandwidth(3),
		WithFutileBudget(-1),
	)
	cfg := d.Config()
	if cfg.FutileBudget != 7 {
		t.Errorf("Expected futile budget 7, got %d", cfg.FutileBudget)
	}
	if cfg.StabilityWindow != 0 {
		t.Errorf("Expected stability window 0, got %d", cfg.StabilityWindow)
	}
	if cfg.MaxPainPoints != 50 {
		t.Errorf("Expected 50 pain points, got %d", cfg.MaxPainPoints)
	}
	if cfg.Bandwidth != 3 {
		t.Errorf("Expected bandwidth 3, got %d", cfg.Bandwidth)
	}
}

func TestPending(t *testing.T) {
	p := newPending(2)
	if p[0].workToDo() {
		t.Errorf("Expected no work on a fresh column")
	}

	p[0].setBlobClassified(1)
	if !p[0].workToDo() || p[0].singleRow() != 1 {
		t.Errorf("Expected single row 1, got %d", p[0].singleRow())
	}
	if !p[0].isRowJustClassified(1) || p[0].isRowJustClassified(0) {
		t.Errorf("Expected only row 1 to be just classified")
	}

	p[0].revisitWholeColumn()
	if p[0].singleRow() != -1 {
		t.Errorf("Expected the whole column, got row %d", p[0].singleRow())
	}

	p[1].setColumnClassified()
	if !p[1].isRowJustClassified(0) {
		t.Errorf("Expected every row of a classified column to be just classified")
	}

	p[0].clear()
	if p[0].workToDo() {
		t.Errorf("Expected no work after clear")
	}
}
