// Package lru provides a thread-safe LRU cache with per-entry time-to-live.
//
// # How It Works
//
// Entries live in an arena of slots addressed by integer handles. A map indexes
// keys to handles and every slot stores the handles of its neighbours in
// recency order, from the most recently used (head) to the least recently used
// (tail). Insert, touch and evict are handle rewrites.
//
// # Expiry
//
// Every insert or update stamps the entry with now + TTL. Reads do not extend
// it. Expired entries are not swept in the background: [Cache.Get],
// [Cache.Entries] and [Cache.Keys] remove them when they run into them.
//
// # Thread Safety
//
// All methods are safe for concurrent use. One mutex guards the whole cache.
//
// # Example Usage
//
//	cache, err := lru.New(1000, lru.WithTTL[string, int](time.Minute))
//	if err != nil {
//	    return err
//	}
//	cache.Set("key", 42)
//	v, ok := cache.Get("key")
package lru

import (
	"sync"
	"time"
)

// DefaultTTL is the lifespan given to entries when [WithTTL] is not used.
const DefaultTTL = time.Hour

// Entry is a live key/value pair as reported by [Cache.Entries].
type Entry[K comparable, V any] struct {
	Key       K
	Value     V
	ExpiresAt time.Time
}

// Stats holds counters accumulated since the cache was created.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

// Cache is a fixed-capacity LRU cache whose entries expire after a TTL.
//
// The zero value is not usable; create instances with [New].
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time
	clone    func(V) V
	onEvict  EvictCallback[K, V]

	items      map[K]handle
	slots      []entry[K, V]
	free       []handle
	head, tail handle

	pending []eviction[K, V]
	stats   Stats
}

// New creates a cache holding at most capacity live entries.
//
// It fails with [ErrInvalidCapacity] when capacity is below one, and with
// [ErrInvalidTTL] when an option sets a non-positive TTL.
//
// Example:
//
//	cache, err := lru.New(1000,
//	    lru.WithTTL[string, *Session](30*time.Minute),
//	    lru.WithOnEvict[string, *Session](func(k string, s *Session, r lru.Reason) { s.Close() }),
//	)
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	c := &Cache[K, V]{
		capacity: capacity,
		ttl:      DefaultTTL,
		now:      time.Now,
		items:    make(map[K]handle, capacity),
		slots:    make([]entry[K, V], 0, min(capacity+1, preallocLimit)),
		head:     nilHandle,
		tail:     nilHandle,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// preallocLimit bounds the slots allocated up front for very large caches.
const preallocLimit = 1024

// Get returns the value stored under key and marks it most recently used.
//
// Returns:
//   - (value, true) if the key is present and not expired
//   - (zero value, false) otherwise
//
// An expired entry found here is removed. Get never extends an entry's TTL.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var (
		v  V
		ok bool
	)

	c.notify(c.locked(func() {
		v, ok = c.get(key)
	}))

	return v, ok
}

// Set stores value under key and marks it most recently used.
//
// Behavior:
//   - Existing keys: value replaced in place and TTL restarted
//   - New keys: inserted at the head; if the cache then holds more than its
//     capacity, the least recently used entry is evicted
func (c *Cache[K, V]) Set(key K, value V) {
	c.notify(c.locked(func() {
		c.set(key, value)
	}))
}

// Delete removes key from the cache.
//
// Returns true if the key was present, expired or not. Deleting an absent key
// is a no-op.
func (c *Cache[K, V]) Delete(key K) bool {
	var found bool

	c.notify(c.locked(func() {
		var h handle
		if h, found = c.lookup(key); found {
			c.remove(h, Removed)
		}
	}))

	return found
}

// Peek returns the value stored under key without touching its recency.
//
// Expired entries read as absent but are left in place.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.lookup(key)
	if !ok || c.expired(h, c.now()) {
		var zero V

		return zero, false
	}

	return c.snapshot(c.slots[h].value), true
}

// Contains reports whether key holds a live entry, without touching recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.lookup(key)

	return ok && !c.expired(h, c.now())
}

// Entries returns every live entry, most recently used first.
//
// Expired entries met during the walk are removed and left out of the result.
func (c *Cache[K, V]) Entries() []Entry[K, V] {
	var out []Entry[K, V]

	c.notify(c.locked(func() {
		out = make([]Entry[K, V], 0, len(c.items))
		c.walk(func(e *entry[K, V]) {
			out = append(out, Entry[K, V]{Key: e.key, Value: c.snapshot(e.value), ExpiresAt: e.expiresAt})
		})
	}))

	return out
}

// Keys returns the keys of every live entry, most recently used first.
//
// Like [Cache.Entries], it removes the expired entries it walks over.
func (c *Cache[K, V]) Keys() []K {
	var out []K

	c.notify(c.locked(func() {
		out = make([]K, 0, len(c.items))
		c.walk(func(e *entry[K, V]) {
			out = append(out, e.key)
		})
	}))

	return out
}

// Purge removes every entry.
func (c *Cache[K, V]) Purge() {
	c.notify(c.locked(func() {
		for c.head != nilHandle {
			c.remove(c.head, Removed)
		}
	}))
}

// Len returns the number of stored entries, including expired entries that
// have not been discovered yet.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Cap returns the maximum number of entries.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// TTL returns the lifespan applied to inserted and updated entries.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Stats returns a snapshot of the hit, miss, eviction and expiry counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

func (c *Cache[K, V]) get(key K) (V, bool) {
	var zero V

	h, ok := c.lookup(key)
	if !ok {
		c.stats.Misses++

		return zero, false
	}

	if c.expired(h, c.now()) {
		c.remove(h, Expired)
		c.stats.Misses++

		return zero, false
	}

	c.moveToFront(h)
	c.stats.Hits++

	return c.snapshot(c.slots[h].value), true
}

func (c *Cache[K, V]) set(key K, value V) {
	expiresAt := c.now().Add(c.ttl)

	if h, ok := c.lookup(key); ok {
		e := &c.slots[h]
		e.value = c.snapshot(value)
		e.expiresAt = expiresAt
		c.moveToFront(h)

		return
	}

	h := c.alloc(key, c.snapshot(value), expiresAt)
	c.items[key] = h
	c.pushFront(h)

	if len(c.items) > c.capacity {
		if c.tail == nilHandle || c.tail == h {
			panic(&InvariantError{Op: "set", Detail: "no older entry to evict"})
		}

		c.remove(c.tail, Evicted)
	}
}

// walk visits live entries head to tail, removing expired ones.
// Must be called with lock held.
func (c *Cache[K, V]) walk(visit func(*entry[K, V])) {
	now := c.now()

	for h := c.head; h != nilHandle; {
		next := c.slots[h].next

		if c.expired(h, now) {
			c.remove(h, Expired)
		} else {
			visit(&c.slots[h])
		}

		h = next
	}
}

// remove unlinks and unindexes the entry at h and queues it for the eviction
// callback. Must be called with lock held.
func (c *Cache[K, V]) remove(h handle, reason Reason) {
	e := c.slots[h]

	c.detach(h)
	delete(c.items, e.key)
	c.release(h)

	switch reason {
	case Evicted:
		c.stats.Evictions++
	case Expired:
		c.stats.Expirations++
	}

	if c.onEvict != nil {
		c.pending = append(c.pending, eviction[K, V]{key: e.key, value: e.value, reason: reason})
	}
}

// lookup resolves key to its slot, panicking when the index and the arena
// disagree. Must be called with lock held.
func (c *Cache[K, V]) lookup(key K) (handle, bool) {
	h, ok := c.items[key]
	if !ok {
		return nilHandle, false
	}

	if h < 0 || int(h) >= len(c.slots) {
		panic(&InvariantError{Op: "lookup", Detail: "index points outside the arena"})
	}

	if !c.slots[h].used {
		panic(&InvariantError{Op: "lookup", Detail: "index points at a free slot"})
	}

	if c.slots[h].key != key {
		panic(&InvariantError{Op: "lookup", Detail: "index points at a slot holding another key"})
	}

	return h, true
}

func (c *Cache[K, V]) expired(h handle, now time.Time) bool {
	return !now.Before(c.slots[h].expiresAt)
}

// snapshot copies values crossing the cache boundary when a clone function
// is configured.
func (c *Cache[K, V]) snapshot(v V) V {
	if c.clone == nil {
		return v
	}

	return c.clone(v)
}
