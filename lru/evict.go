package lru

// Reason tells an [EvictCallback] why an entry left the cache.
type Reason uint8

const (
	// Evicted entries were the least recently used when capacity ran out.
	Evicted Reason = iota
	// Expired entries outlived their TTL and were found by a read or a walk.
	Expired
	// Removed entries were dropped by [Cache.Delete] or [Cache.Purge].
	Removed
)

func (r Reason) String() string {
	switch r {
	case Evicted:
		return "evicted"
	case Expired:
		return "expired"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// EvictCallback observes entries leaving the cache.
type EvictCallback[K comparable, V any] func(key K, value V, reason Reason)

type eviction[K comparable, V any] struct {
	key    K
	value  V
	reason Reason
}

// locked runs fn under the cache lock and returns the evictions it queued.
// The lock is released even if fn panics.
func (c *Cache[K, V]) locked(fn func()) []eviction[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn()

	return c.takePending()
}

// takePending hands over the evictions queued by the current operation.
// Must be called with lock held.
func (c *Cache[K, V]) takePending() []eviction[K, V] {
	if len(c.pending) == 0 {
		return nil
	}

	out := c.pending
	c.pending = nil

	return out
}

// notify runs the callback outside the critical section.
func (c *Cache[K, V]) notify(evicted []eviction[K, V]) {
	if c.onEvict == nil {
		return
	}

	for _, ev := range evicted {
		c.onEvict(ev.key, ev.value, ev.reason)
	}
}
