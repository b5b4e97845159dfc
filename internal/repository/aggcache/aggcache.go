// Package aggcache decorates an aggregated-row source with a key-value
// cache. Aggregation queries scan every stored row for a site, so repeat
// requests for the same range are served from cache instead.
package aggcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/kv"
)

const keyPrefix = "searchscope:agg_cache:"

// source produces aggregated rows (ISP).
type source interface {
	Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error)
}

// store is the narrow cache contract (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource caches aggregated rows in a kv store. Cache failures are
// logged and the request falls through to the underlying source.
type CachedSource struct {
	source  source
	store   store
	ttl     time.Duration
	logger  *zap.Logger
	counter *prometheus.CounterVec
}

// New creates a caching decorator. counter needs a "result" label and
// observes hit, miss and error outcomes; a nil counter disables counting
// (library embedders run without a metrics registry).
func New(src source, st store, ttl time.Duration, logger *zap.Logger, counter *prometheus.CounterVec) *CachedSource {
	return &CachedSource{
		source:  src,
		store:   st,
		ttl:     ttl,
		logger:  logger,
		counter: counter,
	}
}

// Aggregated returns cached rows when available, otherwise delegates and
// stores the result.
func (c *CachedSource) Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	key := cacheKey(siteURL, startDate, endDate, groupBy)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var rows []domain.MetricRow
		if err := json.Unmarshal(data, &rows); err == nil {
			c.count("hit")
			return rows, nil
		}
		// Corrupt entry: treat as a miss and overwrite below.
		c.logger.Warn("failed to decode cached rows", zap.String("key", key))
	case errors.Is(err, kv.ErrKeyNotFound):
	default:
		c.count("error")
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	c.count("miss")

	rows, err := c.source.Aggregated(ctx, siteURL, startDate, endDate, groupBy)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		c.logger.Warn("failed to encode rows for cache", zap.Error(err))
		return rows, nil
	}
	if err := c.store.SetWithTTL(ctx, key, encoded, c.ttl); err != nil {
		c.count("error")
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return rows, nil
}

func (c *CachedSource) count(result string) {
	if c.counter == nil {
		return
	}
	c.counter.WithLabelValues(result).Inc()
}

func cacheKey(siteURL, startDate, endDate string, groupBy domain.GroupBy) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s", siteURL, startDate, endDate, groupBy)))
	return keyPrefix + hex.EncodeToString(sum[:])
}
