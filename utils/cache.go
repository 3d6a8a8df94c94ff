package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry time.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a small TTL layer over an LRU cache. It backs the cached read
// endpoints, where serving results a minute or two stale is acceptable.
type Cache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var (
	cacheInstance *Cache
	cacheOnce     sync.Once
)

// GetCache returns the process-wide cache instance.
func GetCache() *Cache {
	cacheOnce.Do(func() {
		// Capacity is generous; the API only caches a handful of keys.
		l, _ := lru.New[string, CacheItem](128)
		cacheInstance = &Cache{lruCache: l}
	})
	return cacheInstance
}

// NewCache returns an independent cache, used by tests.
func NewCache(size int) *Cache {
	l, _ := lru.New[string, CacheItem](size)
	return &Cache{lruCache: l}
}

// Set stores data under key for the given TTL.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil if missing or expired.
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
