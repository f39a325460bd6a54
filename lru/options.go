package lru

import "time"

// Option configures a [Cache] at construction time.
type Option[K comparable, V any] func(*Cache[K, V]) error

// WithTTL sets the lifespan applied to every inserted or updated entry.
// The TTL must be positive.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) error {
		if ttl <= 0 {
			return ErrInvalidTTL
		}

		c.ttl = ttl

		return nil
	}
}

// WithClock replaces time.Now as the source of the current instant.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) error {
		if now != nil {
			c.now = now
		}

		return nil
	}
}

// WithOnEvict registers a callback invoked for every entry that leaves the
// cache. It runs after the cache lock is released, in removal order.
func WithOnEvict[K comparable, V any](fn EvictCallback[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.onEvict = fn

		return nil
	}
}

// WithClone sets a function used to copy values on the way in and out of
// the cache, for value types that share memory such as slices or maps.
//
// Example:
//
//	lru.WithClone[string, []byte](bytes.Clone)
func WithClone[K comparable, V any](clone func(V) V) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.clone = clone

		return nil
	}
}
