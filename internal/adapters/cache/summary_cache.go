package cache

import (
	"fmt"
	"time"

	"liquitrace/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoSummaryCache keeps generated token summaries for a fixed TTL, keyed by token address.
type RistrettoSummaryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewSummaryCache(maxItems int64, ttl time.Duration) (*RistrettoSummaryCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("summary cache ttl must be positive, got %s", ttl)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary cache failed: %w", err)
	}
	return &RistrettoSummaryCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoSummaryCache) Get(tokenAddress string) (string, bool) {
	if v, ok := c.cache.Get(toKey(tokenAddress)); ok {
		summary, ok := v.(string)
		return summary, ok
	}
	return "", false
}

func (c *RistrettoSummaryCache) Set(tokenAddress string, summary string) {
	c.cache.SetWithTTL(toKey(tokenAddress), summary, 1, c.ttl)
}

func (c *RistrettoSummaryCache) Close() { c.cache.Close() }

func toKey(tokenAddress string) string { return domain.NormalizeAddress(tokenAddress) }
