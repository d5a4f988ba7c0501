package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/zeebo/blake3"
)

const classificationPrefix = "classify:"

// Key derives a cache key from the classifier configuration and page text.
func Key(fingerprint, text string) string {
	h := blake3.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return classificationPrefix + hex.EncodeToString(h.Sum(nil))
}

// ClassificationCache stores classified fragments per page text. Failures of
// the underlying store are logged and treated as misses; classification
// never depends on the cache being reachable.
type ClassificationCache struct {
	store  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewClassificationCache(store CacheService, ttl time.Duration, logger *slog.Logger) *ClassificationCache {
	if store == nil {
		store = NewNoopCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassificationCache{store: store, ttl: ttl, logger: logger}
}

// Lookup returns the cached fragments for text, if any.
func (c *ClassificationCache) Lookup(ctx context.Context, fingerprint, text string) ([]models.Fragment, bool) {
	var fragments []models.Fragment
	err := c.store.Get(ctx, Key(fingerprint, text), &fragments)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Classification cache lookup failed", "error", err)
		}
		return nil, false
	}
	if fragments == nil {
		fragments = []models.Fragment{}
	}
	return fragments, true
}

func (c *ClassificationCache) Store(ctx context.Context, fingerprint, text string, fragments []models.Fragment) {
	if err := c.store.Set(ctx, Key(fingerprint, text), fragments, c.ttl); err != nil {
		c.logger.Warn("Classification cache store failed", "error", err)
	}
}

// Purge drops every cached classification.
func (c *ClassificationCache) Purge(ctx context.Context) error {
	return c.store.DeletePattern(ctx, classificationPrefix+"*")
}
