// Package catcache caches the service category taxonomy in a key-value
// store. Only reference data is cached here; search results never are.
package catcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shoplocal/mechfinder/internal/db"
	"github.com/shoplocal/mechfinder/internal/domain"
)

const cacheKey = "mechfinder:service_categories"

// store is the consumer interface for the category cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// reader is the inner taxonomy source.
type reader interface {
	ListCategories(ctx context.Context) ([]domain.ServiceCategory, error)
}

// CachedReader caches the category taxonomy with a TTL.
type CachedReader struct {
	inner      reader
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner reader,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedReader {
	return &CachedReader{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ListCategories returns the cached taxonomy or reads through to the inner
// source. Cache faults degrade to the inner source; they never fail the read.
func (c *CachedReader) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	if cats, ok := c.getFromCache(ctx); ok {
		c.incCache("hit")
		return cats, nil
	}

	c.incCache("miss")

	cats, err := c.inner.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	c.putToCache(ctx, cats)
	return cats, nil
}

func (c *CachedReader) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedReader) getFromCache(ctx context.Context) ([]domain.ServiceCategory, bool) {
	data, err := c.store.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached categories", zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var cats []domain.ServiceCategory
	if err := json.Unmarshal(data, &cats); err != nil {
		c.logger.Warn("Failed to parse cached categories", zap.Error(err))
		return nil, false
	}
	return cats, true
}

func (c *CachedReader) putToCache(ctx context.Context, cats []domain.ServiceCategory) {
	data, err := json.Marshal(cats)
	if err != nil {
		c.logger.Warn("Failed to marshal categories for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache categories", zap.Error(err))
	}
}
