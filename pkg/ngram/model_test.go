package ngram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharModel_ContextRaisesProbability(t *testing.T) {
	m := NewCharModel(WithOrder(3))
	m.TrainWords([]string{"the", "then", "there", "other", "these"})

	withContext := m.Probability("t", "h")
	without := m.Probability("", "h")
	assert.Greater(t, withContext, without)

	assert.Greater(t, m.Probability("th", "e"), m.Probability("th", "q"))
}

func TestCharModel_UnknownIsSmallButPositive(t *testing.T) {
	m := NewCharModel()
	m.Train("abc")

	p := m.Probability("ab", "z")
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, m.Probability("ab", "c"))
}

func TestCharModel_CaseFolding(t *testing.T) {
	m := NewCharModel()
	m.Train("hello")
	assert.InDelta(t, m.Probability("he", "l"), m.Probability("HE", "L"), 1e-12)

	exact := NewCharModel(WithCaseFolding(false))
	exact.Train("hello")
	assert.Greater(t, exact.Probability("he", "l"), exact.Probability("HE", "L"))
}

func TestCharModel_DistributionSumsToOne(t *testing.T) {
	m := NewCharModel(WithOrder(2))
	m.TrainWords([]string{"abba", "baab"})

	sum := 0.0
	for _, u := range []string{"a", "b", "?"} {
		sum += m.Probability("a", u)
	}
	// "?" stands in for the single unseen-symbol bucket
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNewEnglishModel(t *testing.T) {
	m := NewEnglishModel(2)
	require.Equal(t, 2, m.Order())

	assert.Greater(t, m.Probability("t", "h"), m.Probability("t", "z"))
	assert.Greater(t, m.Probability("", "e"), m.Probability("", "z"))
}
