package langmodel

import (
	"math"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// minOutlineCertainty keeps outline lengths finite for zero certainties
const minOutlineCertainty = -0.001

// CostInputs are the path attributes the cost is computed from
type CostInputs struct {
	RatingsSum float64
	Length     int

	Permuter dawg.DictionaryMatch

	// DictionaryScore is 1 for a path inside the dictionary, 0 for a path
	// outside it and a fraction under partial dictionary credit
	DictionaryScore float64

	Consistency ConsistencyState
	ShapeCost   float64

	// NgramCost is the accumulated n-gram and classifier cost, nil when
	// n-gram scoring is off
	NgramCost *float64
}

// ComputeAdjustment returns the penalty for n occurrences of an
// inconsistency: the base penalty for the first, plus an increment for each
// further one.
func ComputeAdjustment(n int, penalty, increment float64) float64 {
	if n <= 0 {
		return 0
	}
	if n == 1 {
		return penalty
	}
	return penalty + increment*float64(n-1)
}

// ConsistencyAdjustment returns the summed consistency penalties of a path.
// Dictionary paths pay only for case when the model forgives dictionary
// inconsistency.
func (m *Model) ConsistencyAdjustment(inDictionary bool, c ConsistencyState) float64 {
	p := m.cfg.Penalties
	if inDictionary && m.cfg.ForgiveDictionaryInconsistency {
		return ComputeAdjustment(c.NumInconsistentCase(), p.Case, p.Increment)
	}
	adj := ComputeAdjustment(c.NumInconsistentPunc(), p.Punc, p.Increment) +
		ComputeAdjustment(c.NumInconsistentCase(), p.Case, p.Increment) +
		ComputeAdjustment(c.NumInconsistentChartype(), p.Chartype, p.Increment) +
		ComputeAdjustment(c.NumInconsistentSpaces, p.Spacing, p.Increment)
	if c.InconsistentScript {
		adj += p.Script
	}
	if c.InconsistentFont {
		adj += p.Font
	}
	return adj
}

// PathCost combines the evidence of a path into one scalar, lower is better.
// Outside n-gram mode the result never decreases when the ratings sum or an
// inconsistency count grows.
func (m *Model) PathCost(in CostInputs) float64 {
	p := m.cfg.Penalties
	adj := 1.0
	// without a dictionary every path would pay the same word penalties
	if m.dict != nil {
		if in.Permuter != dawg.MatchFrequent {
			adj += p.NonFreqDictWord
		}
		switch {
		case in.DictionaryScore <= 0:
			adj += p.NonDictWord
			if in.Length > m.cfg.MinCompoundLength {
				adj += float64(in.Length-m.cfg.MinCompoundLength) * p.Increment
			}
		case in.DictionaryScore < 1:
			adj += (1 - in.DictionaryScore) * p.NonDictWord
		}
	}
	if in.ShapeCost > 0 && in.Length > 0 {
		adj += in.ShapeCost / float64(in.Length)
	}
	if in.NgramCost != nil {
		return *in.NgramCost * adj
	}
	adj += m.ConsistencyAdjustment(in.DictionaryScore >= 1, in.Consistency)
	return in.RatingsSum * adj
}

// dictionaryScore returns the dictionary evidence of an entry
func (m *Model) dictionaryScore(e *Entry) float64 {
	if !m.cfg.PartialDictionaryCredit {
		if e.Dawg != nil {
			return 1
		}
		return 0
	}
	if e.Length == 0 {
		return 0
	}
	return math.Min(1, float64(e.DictChars)/float64(e.Length))
}

// costInputs collects the cost inputs of an entry with the given shape cost
func (m *Model) costInputs(e *Entry, shapeCost float64) CostInputs {
	in := CostInputs{
		RatingsSum:      e.RatingsSum,
		Length:          e.Length,
		Permuter:        e.Permuter(),
		DictionaryScore: m.dictionaryScore(e),
		Consistency:     e.Consistency,
		ShapeCost:       shapeCost,
	}
	if m.cfg.NgramEnabled && e.Ngram != nil {
		cost := e.Ngram.Cost
		in.NgramCost = &cost
	}
	return in
}

// AdjustedPathCost returns the cost of an entry
func (m *Model) AdjustedPathCost(e *Entry) float64 {
	return m.PathCost(m.costInputs(e, e.Associate.ShapeCost))
}

// OutlineLength estimates the outline length of a hypothesis from its rating
// and certainty
func (m *Model) OutlineLength(h ratings.Hypothesis) float64 {
	cert := min(h.Certainty, minOutlineCertainty)
	return m.cfg.RatingCertScale * h.Rating / cert
}

// CertaintyScore maps a classifier certainty to a positive score, higher
// for more certain results
func (m *Model) CertaintyScore(certainty float64) float64 {
	if m.cfg.UseSigmoidalCertainty {
		c := -certainty / m.cfg.CertaintyScale
		return 1 / (1 + math.Exp(10*c))
	}
	if certainty >= 0 {
		certainty = minOutlineCertainty
	}
	return -1 / certainty
}
