package bank

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cpacc-prep/studybank/internal/platform/cache"
	"github.com/cpacc-prep/studybank/internal/question"
)

const cacheKeyPrefix = "cpacc:questions:"

// JSONCache is the part of *cache.Cache a CachedSource needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// CachedSource keeps the full at-rest record set of each topic in Redis and
// draws from it locally. Presented questions never pass through here.
type CachedSource struct {
	inner    Source
	cache    JSONCache
	ttl      time.Duration
	mu       sync.Mutex
	shuffler question.Shuffler
}

// NewCachedSource wraps inner. A nil shuffler uses question.DefaultShuffler.
func NewCachedSource(inner Source, c JSONCache, ttl time.Duration, s question.Shuffler) *CachedSource {
	if s == nil {
		s = question.DefaultShuffler
	}
	return &CachedSource{inner: inner, cache: c, ttl: ttl, shuffler: s}
}

func cacheKey(topicID string) string {
	if topicID == "" {
		return cacheKeyPrefix + "all"
	}
	return cacheKeyPrefix + topicID
}

func (c *CachedSource) Questions(ctx context.Context, topicID string, limit int) ([]question.Record, error) {
	key := cacheKey(topicID)

	var recs []question.Record
	err := c.cache.GetJSON(ctx, key, &recs)
	switch {
	case err == nil:
		slog.Debug("question cache hit", "key", key, "records", len(recs))
	case errors.Is(err, cache.ErrMiss):
		if recs, err = c.fill(ctx, key, topicID); err != nil {
			return nil, err
		}
	default:
		slog.Warn("question cache unavailable, reading through", "key", key, "error", err)
		return c.inner.Questions(ctx, topicID, limit)
	}

	c.mu.Lock()
	c.shuffler.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })
	c.mu.Unlock()
	return truncate(recs, limit), nil
}

// fill loads every record for the topic and stores it. An empty result is
// not cached so a freshly seeded table is picked up on the next request.
func (c *CachedSource) fill(ctx context.Context, key, topicID string) ([]question.Record, error) {
	recs, err := c.inner.Questions(ctx, topicID, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return recs, nil
	}
	if err := c.cache.SetJSON(ctx, key, recs, c.ttl); err != nil {
		slog.Warn("failed to cache questions", "key", key, "error", err)
	}
	return recs, nil
}
