// Package cache provides result caching for query previews, so
// re-running an unchanged query skips the database.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Cache holds query results keyed by their compiled SQL.
type Cache interface {
	// Get retrieves a value from the cache
	Get(key string) (interface{}, bool)
	// Set stores a value in the cache with optional TTL
	Set(key string, value interface{}, ttl time.Duration)
	// Invalidate removes a specific key from the cache
	Invalidate(key string)
	// Clear removes all entries from the cache
	Clear()
	// GetStats returns cache statistics
	GetStats() Stats
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

// LRUCache implements an LRU cache with TTL support
type LRUCache struct {
	mu         sync.Mutex
	data       map[string]*cacheNode
	maxSize    int
	defaultTTL time.Duration
	head       *cacheNode
	tail       *cacheNode
	stats      Stats
}

// cacheNode is a node in the doubly-linked recency list
type cacheNode struct {
	key       string
	value     interface{}
	expiresAt time.Time
	prev      *cacheNode
	next      *cacheNode
}

// NewLRUCache creates a new LRU cache. A zero defaultTTL means
// entries without an explicit TTL never expire.
func NewLRUCache(maxSize int, defaultTTL time.Duration) *LRUCache {
	return &LRUCache{
		data:       make(map[string]*cacheNode),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stats:      Stats{MaxSize: maxSize},
	}
}

// Get retrieves a value from the cache
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	if !node.expiresAt.IsZero() && time.Now().After(node.expiresAt) {
		c.unlink(node)
		delete(c.data, key)
		c.stats.Misses++
		return nil, false
	}

	c.moveToFront(node)
	c.stats.Hits++
	return node.value, true
}

// Set stores a value in the cache
func (c *LRUCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if node, exists := c.data[key]; exists {
		node.value = value
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	if len(c.data) >= c.maxSize {
		c.evictLRU()
	}

	node := &cacheNode{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(node)
	c.data[key] = node
}

// Invalidate removes a specific key from the cache
func (c *LRUCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.data[key]; ok {
		c.unlink(node)
		delete(c.data, key)
	}
}

// Clear removes all entries from the cache
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheNode)
	c.head = nil
	c.tail = nil
	c.stats = Stats{MaxSize: c.maxSize}
}

// GetStats returns cache statistics
func (c *LRUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

// addToFront adds a node to the front of the list
func (c *LRUCache) addToFront(node *cacheNode) {
	if c.head == nil {
		c.head = node
		c.tail = node
		return
	}

	node.next = c.head
	c.head.prev = node
	c.head = node
}

// moveToFront moves a node to the front of the list
func (c *LRUCache) moveToFront(node *cacheNode) {
	if node == c.head {
		return
	}
	c.unlink(node)
	node.prev = nil
	node.next = nil
	c.addToFront(node)
}

// unlink removes a node from the list, leaving the map untouched
func (c *LRUCache) unlink(node *cacheNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
}

// evictLRU drops the least recently used entry
func (c *LRUCache) evictLRU() {
	if c.tail == nil {
		return
	}
	tail := c.tail
	c.unlink(tail)
	delete(c.data, tail.key)
	c.stats.Evictions++
}

// Key builds the cache key for a compiled query. Compiled SQL inlines
// every literal, so dialect plus SQL identifies the result.
func Key(dialect, sql string) string {
	hasher := sha256.New()
	hasher.Write([]byte(dialect))
	hasher.Write([]byte{0})
	hasher.Write([]byte(sql))
	hash := hex.EncodeToString(hasher.Sum(nil))
	return fmt.Sprintf("%s:%s", dialect, hash[:16])
}
