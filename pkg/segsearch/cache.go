package segsearch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
)

// CachedClassifier memoizes a classifier by the bounding box of the
// fragment span. It is safe for concurrent use and may be shared by the
// searches of every word on a page.
type CachedClassifier struct {
	inner Classifier
	cache *cache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedClassifier wraps inner with a cache whose entries expire after
// ttl. A ttl of 0 uses DefaultCacheTTL.
func NewCachedClassifier(inner Classifier, ttl time.Duration) *CachedClassifier {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClassifier{
		inner: inner,
		cache: cache.New(ttl, DefaultCacheCleanup),
	}
}

// Classify returns the cached hypotheses of the span box, classifying it
// with the inner classifier on a miss. Errors are not cached.
func (c *CachedClassifier) Classify(ctx context.Context, word *blob.Word, col, row int) ([]ratings.Hypothesis, error) {
	key := word.SpanBox(col, row).String()
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v.([]ratings.Hypothesis), nil
	}
	c.misses.Add(1)

	hyps, err := c.inner.Classify(ctx, word, col, row)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, hyps)
	return hyps, nil
}

// Stats returns the number of cache hits and misses
func (c *CachedClassifier) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached spans, expired ones included until the
// next cleanup
func (c *CachedClassifier) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached span
func (c *CachedClassifier) Flush() {
	c.cache.Flush()
}
