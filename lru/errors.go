package lru

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned by [New] when capacity is below one.
	ErrInvalidCapacity = errors.New("lru: capacity must be at least 1")

	// ErrInvalidTTL is returned by [New] when [WithTTL] gets a non-positive duration.
	ErrInvalidTTL = errors.New("lru: ttl must be positive")
)

// InvariantError is the panic value raised when the index and the recency
// list disagree. It signals a bug in the cache, not a caller mistake.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("lru: broken invariant in %s: %s", e.Op, e.Detail)
}
