package datasource

import (
	"context"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
)

// CachedSource memoizes another source's batches per slate date so repeated
// scheduler runs inside the TTL do not refetch.
type CachedSource struct {
	source    AbsenceSource
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  uint64
	missCount uint64
}

// NewCachedSource wraps source with a TTL cache.
func NewCachedSource(source AbsenceSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

// Name returns the wrapped source name
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// Kind returns the wrapped source kind
func (c *CachedSource) Kind() models.AbsenceSource {
	return c.source.Kind()
}

// IsEnabled returns whether the wrapped source is enabled
func (c *CachedSource) IsEnabled() bool {
	return c.source.IsEnabled()
}

// FetchAbsences returns a cached batch for date or fetches and stores one.
// Errors are never cached.
func (c *CachedSource) FetchAbsences(ctx context.Context, date time.Time) (*Batch, error) {
	key := date.Format(models.DateLayout)

	if v, found := c.cache.Get(key); found {
		if b, ok := v.(*Batch); ok {
			atomic.AddUint64(&c.hitCount, 1)
			c.updateMetrics()
			hit := *b
			hit.CacheHit = true
			return &hit, nil
		}
	}

	atomic.AddUint64(&c.missCount, 1)
	c.updateMetrics()

	batch, err := c.source.FetchAbsences(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, batch, c.ttl)
	return batch, nil
}

// Invalidate drops the cached batch for date.
func (c *CachedSource) Invalidate(date time.Time) {
	c.cache.Delete(date.Format(models.DateLayout))
}

// Clear flushes the cache and resets statistics.
func (c *CachedSource) Clear() {
	c.cache.Flush()
	atomic.StoreUint64(&c.hitCount, 0)
	atomic.StoreUint64(&c.missCount, 0)
}

// Stats returns cache statistics
func (c *CachedSource) Stats() (hits, misses uint64, ratio float64) {
	hits = atomic.LoadUint64(&c.hitCount)
	misses = atomic.LoadUint64(&c.missCount)
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached dates
func (c *CachedSource) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *CachedSource) updateMetrics() {
	_, _, ratio := c.Stats()
	metrics.UpdateCacheHitRatio(c.source.Name(), ratio)
}
