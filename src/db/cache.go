package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	TransactionCache  = "transactions"
	SubscriptionCache = "subscriptions"
	AssetCache        = "assets"
	QuoteCache        = "quotes"
)

// Cache wraps ristretto and remembers which keys belong to which group so a
// whole group can be cleared at once.
type Cache struct {
	store *ristretto.Cache

	mu     sync.Mutex
	groups map[string]map[string]struct{}
}

func NewCache() (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	return &Cache{store: store, groups: make(map[string]map[string]struct{})}, nil
}

// Set stores value under group/key. A zero ttl keeps the entry until it is
// evicted or cleared.
func (c *Cache) Set(group, key string, value interface{}, ttl time.Duration) {
	full := group + ":" + key
	c.mu.Lock()
	if c.groups[group] == nil {
		c.groups[group] = make(map[string]struct{})
	}
	c.groups[group][full] = struct{}{}
	c.mu.Unlock()

	if ttl > 0 {
		c.store.SetWithTTL(full, value, 1, ttl)
	} else {
		c.store.Set(full, value, 1)
	}
}

func (c *Cache) Get(group, key string) (interface{}, bool) {
	return c.store.Get(group + ":" + key)
}

func (c *Cache) Del(group, key string) {
	full := group + ":" + key
	c.mu.Lock()
	delete(c.groups[group], full)
	c.mu.Unlock()
	c.store.Del(full)
}

// ClearGroup removes every key stored under group and reports how many were tracked.
func (c *Cache) ClearGroup(group string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.groups[group]
	for key := range keys {
		c.store.Del(key)
	}
	delete(c.groups, group)
	return len(keys)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

func (c *Cache) Close() {
	c.store.Close()
}
