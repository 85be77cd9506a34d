// Package cache provides a small, type-safe LRU cache shared by the parsing
// packages of this module.
package cache

import (
	"container/list"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCacheDisabled is returned by Set when the cache was configured with a
// non-positive size.
var ErrCacheDisabled = errors.New("cache: disabled")

// CacheConfig controls a GenericLRUCache.
type CacheConfig struct {
	// MaxSize is the maximum number of entries; zero or less disables the cache
	MaxSize int
	// TTL bounds the lifetime of an entry; zero means entries never expire
	TTL time.Duration
}

// DefaultCacheConfig returns a CacheConfig with sensible defaults.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxSize: 1024,
	}
}

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	Sets         int64   `json:"sets"`
	Evictions    int64   `json:"evictions"`
	Expirations  int64   `json:"expirations"`
	TotalEntries int     `json:"total_entries"`
	HitRatio     float64 `json:"hit_ratio"` // percent
}

// GenericCacheEntry is one cached item
type GenericCacheEntry[T any] struct {
	Key       string
	Value     T
	ExpiresAt time.Time

	element *list.Element
}

func (e *GenericCacheEntry[T]) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// GenericLRUCache is a mutex-guarded LRU cache safe for concurrent use.
type GenericLRUCache[T any] struct {
	config CacheConfig
	logger *slog.Logger

	mu      sync.Mutex
	items   map[string]*GenericCacheEntry[T]
	lruList *list.List
	stats   CacheStats
}

// NewGenericLRUCache creates a cache. A nil config selects
// DefaultCacheConfig and a nil logger selects slog.Default.
func NewGenericLRUCache[T any](config *CacheConfig, logger *slog.Logger) *GenericLRUCache[T] {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenericLRUCache[T]{
		config:  *config,
		logger:  logger.With(slog.String("component", "generic_cache")),
		items:   make(map[string]*GenericCacheEntry[T]),
		lruList: list.New(),
	}
}

// Enabled reports whether the cache stores anything.
func (c *GenericLRUCache[T]) Enabled() bool {
	return c.config.MaxSize > 0
}

// Get retrieves a value and marks it most recently used.
func (c *GenericLRUCache[T]) Get(key string) (T, bool) {
	var zero T
	if !c.Enabled() {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if entry.expired(time.Now()) {
		c.removeEntry(entry)
		c.stats.Expirations++
		c.stats.Misses++
		return zero, false
	}

	c.lruList.MoveToFront(entry.element)
	c.stats.Hits++
	return entry.Value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *GenericLRUCache[T]) Set(key string, value T) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.config.TTL > 0 {
		expires = time.Now().Add(c.config.TTL)
	}

	if entry, ok := c.items[key]; ok {
		entry.Value = value
		entry.ExpiresAt = expires
		c.lruList.MoveToFront(entry.element)
		return nil
	}

	if len(c.items) >= c.config.MaxSize {
		if oldest := c.lruList.Back(); oldest != nil {
			c.removeEntry(oldest.Value.(*GenericCacheEntry[T]))
			c.stats.Evictions++
		}
	}

	entry := &GenericCacheEntry[T]{Key: key, Value: value, ExpiresAt: expires}
	entry.element = c.lruList.PushFront(entry)
	c.items[key] = entry
	c.stats.Sets++
	return nil
}

// GetOrLoad returns the cached value for key or computes, stores and
// returns it. Errors from load are returned and not cached.
func (c *GenericLRUCache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	if c.Enabled() {
		_ = c.Set(key, value)
	}
	return value, nil
}

// Delete removes key and reports whether it was present.
func (c *GenericLRUCache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if ok {
		c.removeEntry(entry)
	}
	return ok
}

// Clear removes all entries. Statistics are kept.
func (c *GenericLRUCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*GenericCacheEntry[T])
	c.lruList.Init()
}

// Len returns the number of entries.
func (c *GenericLRUCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns current cache statistics.
func (c *GenericLRUCache[T]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.TotalEntries = len(c.items)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

// LogStats writes the current statistics at debug level.
func (c *GenericLRUCache[T]) LogStats() {
	stats := c.Stats()
	c.logger.Debug("cache_stats",
		slog.Int64("hits", stats.Hits),
		slog.Int64("misses", stats.Misses),
		slog.Int64("evictions", stats.Evictions),
		slog.Int("entries", stats.TotalEntries),
		slog.Float64("hit_ratio", stats.HitRatio))
}

func (c *GenericLRUCache[T]) removeEntry(entry *GenericCacheEntry[T]) {
	c.lruList.Remove(entry.element)
	delete(c.items, entry.Key)
}
