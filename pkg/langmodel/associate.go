package langmodel

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Hanaasagi/wordseg/pkg/blob"
)

// AssociateParams configures the shape statistics of fragment merges
type AssociateParams struct {
	FixedPitch     bool
	MaxCharWhRatio float64
	MinGap         float64
}

// ComputeAssociateStats computes the shape statistics of merging fragments
// col..row into one character. parent holds the statistics of the path the
// character extends (nil at the start of a word) and parentLength its
// length. terminalPunct exempts word-initial or word-final punctuation from
// the fixed-pitch gap checks.
func ComputeAssociateStats(word *blob.Word, col, row int, parent *AssociateStats, parentLength int, p AssociateParams, terminalPunct bool) AssociateStats {
	var stats AssociateStats
	if word == nil || row >= word.Len() || col < 0 || col > row {
		return stats
	}

	height := word.NormalizingHeight()
	wh := word.SpanWidth(col, row) / height
	if wh > p.MaxCharWhRatio {
		stats.BadShape = true
		stats.ShapeCost += math.Pow(wh-p.MaxCharWhRatio, 2)
	}

	negative := 0.0
	for c := col; c < row; c++ {
		if gap := word.Gap(c); gap > 0 {
			stats.GapSum += gap
		} else {
			negative += gap
		}
	}
	if stats.GapSum == 0 {
		stats.GapSum = negative
	}

	if !p.FixedPitch {
		return stats
	}

	endRow := row == word.Len()-1
	if col > 0 && !endRow && !terminalPunct {
		if word.Gap(col-1)/height < p.MinGap {
			stats.BadShape = true
		}
	}
	rightGap := 0.0
	if !endRow {
		rightGap = word.Gap(row) / height
		if rightGap < p.MinGap && !terminalPunct {
			stats.BadShape = true
			stats.BadFixedPitchRightGap = true
		}
	}

	stats.FullWhRatio = wh + rightGap
	if parent != nil {
		stats.FullWhRatioTotal = parent.FullWhRatioTotal + stats.FullWhRatio
		mean := stats.FullWhRatioTotal / float64(parentLength+1)
		stats.FullWhRatioVar = parent.FullWhRatioVar + math.Pow(mean-stats.FullWhRatio, 2)
	} else {
		stats.FullWhRatioTotal = stats.FullWhRatio
	}
	stats.ShapeCost += stats.FullWhRatioVar
	if wh > MaxFixedPitchCharAspectRatio {
		stats.BadFixedPitchWhRatio = true
	}
	return stats
}

// FullPathWhVariance returns the squared deviation of the full width ratios
// of a complete path from their mean. Only ratios with include set add to
// the sum, while the mean covers the whole path.
func FullPathWhVariance(ratios []float64, include []bool) float64 {
	if len(ratios) == 0 {
		return 0
	}
	mean := floats.Sum(ratios) / float64(len(ratios))
	if mean == 0 {
		return 0
	}
	diffs := make([]float64, 0, len(ratios))
	for i, r := range ratios {
		if i < len(include) && include[i] {
			diffs = append(diffs, r-mean)
		}
	}
	return floats.Dot(diffs, diffs)
}
