package lru

import "time"

// handle addresses a slot in the arena.
type handle int

// nilHandle marks the absence of a neighbour, or an empty list end.
const nilHandle handle = -1

type entry[K comparable, V any] struct {
	key        K
	value      V
	expiresAt  time.Time
	prev, next handle
	used       bool
}

// alloc places a new, unlinked entry in a free slot, growing the arena when
// none is left. Must be called with lock held.
func (c *Cache[K, V]) alloc(key K, value V, expiresAt time.Time) handle {
	e := entry[K, V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
		prev:      nilHandle,
		next:      nilHandle,
		used:      true,
	}

	if n := len(c.free); n > 0 {
		h := c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[h] = e

		return h
	}

	c.slots = append(c.slots, e)

	return handle(len(c.slots) - 1)
}

// release clears the slot so the key and value can be collected, and returns
// it to the free list. The entry must already be detached.
func (c *Cache[K, V]) release(h handle) {
	c.slots[h] = entry[K, V]{prev: nilHandle, next: nilHandle}
	c.free = append(c.free, h)
}

// pushFront links an unlinked entry at the head of the recency list.
func (c *Cache[K, V]) pushFront(h handle) {
	e := &c.slots[h]
	e.prev = nilHandle
	e.next = c.head

	if c.head != nilHandle {
		c.slots[c.head].prev = h
	} else {
		c.tail = h
	}

	c.head = h
}

// detach unlinks the entry at h, patching its neighbours or the list ends.
func (c *Cache[K, V]) detach(h handle) {
	e := &c.slots[h]
	if !e.used {
		panic(&InvariantError{Op: "detach", Detail: "slot is not in use"})
	}

	if e.prev != nilHandle {
		c.slots[e.prev].next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nilHandle {
		c.slots[e.next].prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev = nilHandle
	e.next = nilHandle
}

// moveToFront marks the entry at h as most recently used.
func (c *Cache[K, V]) moveToFront(h handle) {
	if c.head == h {
		return
	}

	c.detach(h)
	c.pushFront(h)
}
