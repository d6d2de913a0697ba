package cache

import (
	"fmt"
	"ratehub/internal/domain"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoResolvedRateCache memoizes direct-or-reverse lookups. Keys embed the
// batch refresh time, so a new batch never sees lookups from an older one.
type RistrettoResolvedRateCache struct {
	cache *ristretto.Cache
}

func NewResolvedRateCache(maxItems int64) (*RistrettoResolvedRateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create resolved rate cache failed: %w", err)
	}
	return &RistrettoResolvedRateCache{cache: c}, nil
}

func (c *RistrettoResolvedRateCache) Get(pair domain.Pair, refreshedAt time.Time) (domain.ResolvedRate, bool) {
	if v, ok := c.cache.Get(toKey(pair, refreshedAt)); ok {
		rate, ok := v.(domain.ResolvedRate)
		return rate, ok
	}
	return domain.ResolvedRate{}, false
}

func (c *RistrettoResolvedRateCache) Set(pair domain.Pair, refreshedAt time.Time, rate domain.ResolvedRate) {
	c.cache.Set(toKey(pair, refreshedAt), rate, 1)
}

func (c *RistrettoResolvedRateCache) Close() { c.cache.Close() }

func toKey(p domain.Pair, refreshedAt time.Time) string {
	return p.Key() + "@" + strconv.FormatInt(refreshedAt.UnixNano(), 10)
}
