package langmodel

import (
	"math"
	"testing"

	"github.com/Hanaasagi/wordseg/pkg/blob"
)

func TestComputeAssociateStats_WideMerge(t *testing.T) {
	word := testWord(3)
	p := AssociateParams{MaxCharWhRatio: 1.0, MinGap: MinGap}

	stats := ComputeAssociateStats(word, 0, 2, nil, 0, p, false)
	if !stats.BadShape {
		t.Errorf("Expected a 34px merge at x-height 20 to be a bad shape")
	}
	if want := math.Pow(34.0/20-1, 2); math.Abs(stats.ShapeCost-want) > 1e-12 {
		t.Errorf("Expected shape cost %v, got %v", want, stats.ShapeCost)
	}
	if stats.GapSum != 4 {
		t.Errorf("Expected gap sum 4, got %v", stats.GapSum)
	}

	single := ComputeAssociateStats(word, 1, 1, nil, 0, p, false)
	if single.BadShape || single.ShapeCost != 0 {
		t.Errorf("Expected a single fragment to have a good shape, got %+v", single)
	}
}

func TestComputeAssociateStats_FixedPitchGaps(t *testing.T) {
	word := &blob.Word{
		XHeight: 20,
		Fragments: []blob.Box{
			{Left: 0, Top: 0, Right: 10, Bottom: 20},
			{Left: 10, Top: 0, Right: 20, Bottom: 20},
			{Left: 30, Top: 0, Right: 40, Bottom: 20},
		},
	}
	p := AssociateParams{FixedPitch: true, MaxCharWhRatio: DefaultMaxCharWhRatio, MinGap: MinGap}

	first := ComputeAssociateStats(word, 0, 0, nil, 0, p, false)
	if !first.BadFixedPitchRightGap || !first.BadShape {
		t.Errorf("Expected touching fragments to leave a bad right gap, got %+v", first)
	}

	merged := ComputeAssociateStats(word, 0, 1, nil, 0, p, false)
	if merged.BadFixedPitchRightGap {
		t.Errorf("Expected the merged pair to have a good right gap")
	}
	if want := 20.0/20 + 10.0/20; math.Abs(merged.FullWhRatio-want) > 1e-12 {
		t.Errorf("Expected full width ratio %v, got %v", want, merged.FullWhRatio)
	}

	// terminal punctuation is exempt from the gap checks
	punct := ComputeAssociateStats(word, 0, 0, nil, 0, p, true)
	if punct.BadFixedPitchRightGap {
		t.Errorf("Expected terminal punctuation to skip the right gap check")
	}
}

func TestComputeAssociateStats_RunningVariance(t *testing.T) {
	word := &blob.Word{
		XHeight: 20,
		Fragments: []blob.Box{
			{Left: 0, Top: 0, Right: 20, Bottom: 20},
			{Left: 20, Top: 0, Right: 70, Bottom: 20},
		},
	}
	p := AssociateParams{FixedPitch: true, MaxCharWhRatio: 10, MinGap: 0}

	first := ComputeAssociateStats(word, 0, 0, nil, 0, p, false)
	second := ComputeAssociateStats(word, 1, 1, &first, 1, p, false)
	if first.FullWhRatioVar != 0 {
		t.Errorf("Expected no variance for one character, got %v", first.FullWhRatioVar)
	}
	// ratios 1 and 2.5, running mean 1.75
	if math.Abs(second.FullWhRatioVar-0.5625) > 1e-12 {
		t.Errorf("Expected running variance 0.5625, got %v", second.FullWhRatioVar)
	}
	if !second.BadFixedPitchWhRatio {
		t.Errorf("Expected a width ratio of 2.5 to exceed the fixed-pitch aspect bound")
	}
	if first.BadFixedPitchWhRatio {
		t.Errorf("Expected a square character to pass the aspect bound")
	}
}

func TestFullPathWhVariance(t *testing.T) {
	tests := []struct {
		ratios  []float64
		include []bool
		want    float64
	}{
		{nil, nil, 0},
		{[]float64{1, 1, 1}, []bool{true, true, true}, 0},
		{[]float64{1, 3}, []bool{true, true}, 2},
		{[]float64{1, 3}, []bool{false, true}, 1},
	}
	for _, tt := range tests {
		if got := FullPathWhVariance(tt.ratios, tt.include); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Expected variance %v for %v, got %v", tt.want, tt.ratios, got)
		}
	}
}
