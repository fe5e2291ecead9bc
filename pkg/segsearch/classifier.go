package segsearch

import (
	"context"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// Classifier recognizes fragments col..row of a word merged into one
// character. It returns the hypotheses best first; an empty result marks the
// span as a dead end and is not an error.
type Classifier interface {
	Classify(ctx context.Context, word *blob.Word, col, row int) ([]ratings.Hypothesis, error)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(ctx context.Context, word *blob.Word, col, row int) ([]ratings.Hypothesis, error)

// Classify calls f
func (f ClassifierFunc) Classify(ctx context.Context, word *blob.Word, col, row int) ([]ratings.Hypothesis, error) {
	return f(ctx, word, col, row)
}
