// Package cache provides the in-process TTL cache that shields tenant
// databases from repeated reads, plus the Redis fan-out that keeps the cache
// coherent across horizontally scaled instances.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/procurehub/backend/internal/domain/federation"
	"go.uber.org/zap"
)

const (
	defaultSweepInterval = 60 * time.Second
	defaultTTL           = 300 * time.Second
)

// TTLCache is a single-process in-memory key/value store with per-entry
// expiry. Keys are namespaced `entity:tenantId:qualifier` so all entries for
// one tenant or one entity family can be invalidated by prefix. Expiry is
// enforced lazily on Get; a background sweep removes already-expired entries
// so memory does not grow unbounded between reads.
type TTLCache struct {
	entries    sync.Map // map[string]*ttlEntry
	defaultTTL time.Duration
	sweepEvery time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	hits   int64
	misses int64
}

type ttlEntry struct {
	value     any
	expiresAt time.Time
}

func (e *ttlEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// TTLCacheOption is a functional option for configuring the cache
type TTLCacheOption func(*TTLCache)

// WithDefaultTTL sets the TTL applied when Set is called with ttl <= 0
func WithDefaultTTL(ttl time.Duration) TTLCacheOption {
	return func(c *TTLCache) {
		c.defaultTTL = ttl
	}
}

// WithSweepInterval sets how often the background sweep runs
func WithSweepInterval(interval time.Duration) TTLCacheOption {
	return func(c *TTLCache) {
		c.sweepEvery = interval
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) TTLCacheOption {
	return func(c *TTLCache) {
		c.logger = logger
	}
}

// NewTTLCache creates a TTL cache and starts its background sweep
func NewTTLCache(opts ...TTLCacheOption) *TTLCache {
	c := &TTLCache{
		defaultTTL: defaultTTL,
		sweepEvery: defaultSweepInterval,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweepLoop()

	return c
}

// Key builds a namespaced cache key for an entity family, tenant and qualifier
func Key(entity federation.EntityType, tenantID, qualifier string) string {
	return string(entity) + ":" + tenantID + ":" + qualifier
}

// TenantPrefix returns the key prefix covering one tenant within one entity
// namespace
func TenantPrefix(entity federation.EntityType, tenantID string) string {
	return string(entity) + ":" + tenantID + ":"
}

// Get returns the live value for key. Expired entries are deleted on read and
// reported as a miss.
func (c *TTLCache) Get(key string) (any, bool) {
	if v, ok := c.entries.Load(key); ok {
		entry := v.(*ttlEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true
		}
		c.entries.Delete(key)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores value under key for ttl; ttl <= 0 uses the default TTL
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.entries.Store(key, &ttlEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
}

// Delete removes a single key
func (c *TTLCache) Delete(key string) {
	c.entries.Delete(key)
}

// DeleteByPrefix removes every key beginning with prefix and returns the
// number of entries removed
func (c *TTLCache) DeleteByPrefix(prefix string) int {
	removed := 0
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// InvalidateTenant removes every cached entry for a tenant across all entity
// namespaces and returns the number of entries removed
func (c *TTLCache) InvalidateTenant(tenantID string) int {
	removed := 0
	for _, entity := range federation.AllEntityTypes() {
		removed += c.DeleteByPrefix(TenantPrefix(entity, tenantID))
	}
	if removed > 0 {
		c.logger.Debug("Invalidated tenant cache entries",
			zap.String("tenant_id", tenantID),
			zap.Int("removed", removed))
	}
	return removed
}

// Clear removes all entries
func (c *TTLCache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Stats holds cache statistics for diagnostics
type Stats struct {
	Hits   int64    `json:"hits"`
	Misses int64    `json:"misses"`
	Size   int      `json:"size"`
	Keys   []string `json:"keys"`
}

// GetStats returns hit/miss counters and the currently stored keys
func (c *TTLCache) GetStats() Stats {
	stats := Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
	c.entries.Range(func(key, _ any) bool {
		stats.Keys = append(stats.Keys, key.(string))
		return true
	})
	stats.Size = len(stats.Keys)
	return stats
}

// Close stops the background sweep; idempotent
func (c *TTLCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *TTLCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *TTLCache) sweep() {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*ttlEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Swept expired cache entries", zap.Int("removed", removed))
	}
}
