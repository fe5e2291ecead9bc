package langmodel

import (
	"math"

	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// ComputeDenom returns the normalizer of the certainty scores of a cell: the
// scores of its hypotheses plus the non-match score of every unichar the
// classifier did not return.
func (m *Model) ComputeDenom(hyps []ratings.Hypothesis) float64 {
	if len(hyps) == 0 {
		return 1
	}
	denom := 0.0
	for _, h := range hyps {
		denom += m.CertaintyScore(h.Certainty)
	}
	if missing := m.cfg.UnicharsetSize - len(hyps); missing > 0 {
		denom += float64(missing) * m.CertaintyScore(m.cfg.NgramNonmatchScore)
	}
	return denom
}

// ComputeNgramCost returns the combined classifier and n-gram cost of u
// following context, the n-gram cost alone, the number of utf8 steps scored
// and whether the probability hit the floor.
func (m *Model) ComputeNgramCost(u string, certainty, denom float64, context string) (cost, ngramCost float64, steps int, pruned bool) {
	prob := 0.0
	for _, step := range unichar.Steps(u) {
		prob += m.ngram.Probability(context, step)
		steps++
		if m.cfg.NgramUseOnlyFirstStep {
			break
		}
		context += step
	}
	if steps > 0 {
		prob /= float64(steps)
	}
	if prob < m.cfg.NgramSmallProb {
		pruned = true
		prob = m.cfg.NgramSmallProb
	}
	ngramCost = -math.Log2(prob)
	cost = -math.Log2(m.CertaintyScore(certainty)/denom) + ngramCost*m.cfg.NgramScaleFactor
	return cost, ngramCost, steps, pruned
}

// generateNgramInfo scores h after the parent path, or after the previous
// word when parent is nil
func (m *Model) generateNgramInfo(b *Bundle, h ratings.Hypothesis, denom, outlineLength float64, parent *Entry) *NgramInfo {
	context, contextSteps := b.prevContext, b.prevSteps
	if parent != nil && parent.Ngram != nil {
		context, contextSteps = parent.Ngram.Context, parent.Ngram.ContextSteps
	}

	cost, ngramCost, steps, pruned := m.ComputeNgramCost(h.Unichar, h.Certainty, denom, context)
	cost *= outlineLength / m.cfg.NgramRatingFactor
	if parent != nil && parent.Ngram != nil {
		cost += parent.Ngram.Cost
		ngramCost += parent.Ngram.NgramCost
		pruned = pruned || parent.Ngram.Pruned
	}

	if remove := steps + contextSteps - m.cfg.NgramOrder; remove > 0 {
		context = unichar.TrimSteps(context, remove)
		contextSteps = max(0, contextSteps-remove)
	}
	return &NgramInfo{
		Context:      context + h.Unichar,
		ContextSteps: contextSteps + steps,
		Pruned:       pruned,
		NgramCost:    ngramCost,
		Cost:         cost,
	}
}
