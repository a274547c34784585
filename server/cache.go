package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

type cacheEntry struct {
	response   *SolveResponse
	expiration time.Time
}

// responseCache is a bounded TTL cache of solve responses. Eviction is FIFO
// by insertion; an overwritten key keeps its original queue position. Keys
// live in a fixed ring of maxSize slots.
type responseCache struct {
	mu      sync.Mutex
	store   map[string]*cacheEntry
	keys    []string // ring, oldest at head
	head    int
	count   int
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// newResponseCache returns nil when maxSize is 0; a nil cache misses every
// lookup and drops every put.
func newResponseCache(maxSize int, ttl time.Duration) *responseCache {
	if maxSize <= 0 {
		return nil
	}

	return &responseCache{
		store:   make(map[string]*cacheEntry, maxSize),
		keys:    make([]string, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *responseCache) get(key string) (*SolveResponse, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(entry.expiration) {
		return nil, false
	}

	return entry.response, true
}

func (c *responseCache) put(key string, resp *SolveResponse) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store[key]; !ok {
		if c.count == c.maxSize {
			delete(c.store, c.keys[c.head])
			c.keys[c.head] = key
			c.head = (c.head + 1) % c.maxSize
		} else {
			c.keys[(c.head+c.count)%c.maxSize] = key
			c.count++
		}
	}
	c.store[key] = &cacheEntry{response: resp, expiration: c.now().Add(c.ttl)}
}

func (c *responseCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.store)
}

// cacheKey hashes the canonical JSON form of req.
func cacheKey(req *SolveRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}
