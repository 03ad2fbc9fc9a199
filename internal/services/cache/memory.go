package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultTTL = 30 * time.Minute

// MemoryCache is a TTL cache bounded by entry count
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]*cacheItem
	maxEntries int
	stats      Stats
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type cacheItem struct {
	value    []byte
	expiry   time.Time
	storedAt time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries items. A
// non-positive maxEntries means unbounded. Expired items are swept every
// sweepInterval when it is positive.
func NewMemoryCache(maxEntries int, sweepInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		items:      make(map[string]*cacheItem),
		maxEntries: maxEntries,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}

	if sweepInterval > 0 {
		mc.wg.Add(1)
		go mc.cleanupExpired(sweepInterval)
	}

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	if mc.now().After(item.expiry) {
		_ = mc.Delete(ctx, key)
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&mc.stats.Hits, 1)
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := mc.now()

	mc.mu.Lock()
	if _, exists := mc.items[key]; !exists {
		mc.makeRoomLocked(now)
	}
	mc.items[key] = &cacheItem{
		value:    value,
		expiry:   now.Add(ttl),
		storedAt: now,
	}
	mc.mu.Unlock()

	atomic.AddInt64(&mc.stats.Sets, 1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, key)
	mc.mu.Unlock()
	return nil
}

// Clear removes all values from the cache
func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	mc.items = make(map[string]*cacheItem)
	mc.mu.Unlock()
	return nil
}

// Stats returns a snapshot of the counters
func (mc *MemoryCache) Stats() Stats {
	mc.mu.RLock()
	size := int64(len(mc.items))
	mc.mu.RUnlock()

	return Stats{
		Hits:      atomic.LoadInt64(&mc.stats.Hits),
		Misses:    atomic.LoadInt64(&mc.stats.Misses),
		Sets:      atomic.LoadInt64(&mc.stats.Sets),
		Evictions: atomic.LoadInt64(&mc.stats.Evictions),
		Size:      size,
		MaxSize:   int64(mc.maxEntries),
	}
}

// Close stops the sweeper goroutine
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
	return nil
}

func (mc *MemoryCache) cleanupExpired(interval time.Duration) {
	defer mc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			mc.removeExpiredLocked(mc.now())
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeExpiredLocked(now time.Time) {
	for key, item := range mc.items {
		if now.After(item.expiry) {
			delete(mc.items, key)
			atomic.AddInt64(&mc.stats.Evictions, 1)
		}
	}
}

// makeRoomLocked frees one slot: expired items first, then the oldest entry
func (mc *MemoryCache) makeRoomLocked(now time.Time) {
	if mc.maxEntries <= 0 || len(mc.items) < mc.maxEntries {
		return
	}

	mc.removeExpiredLocked(now)
	if len(mc.items) < mc.maxEntries {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, item := range mc.items {
		if oldestKey == "" || item.storedAt.Before(oldest) {
			oldestKey, oldest = key, item.storedAt
		}
	}
	delete(mc.items, oldestKey)
	atomic.AddInt64(&mc.stats.Evictions, 1)
}
