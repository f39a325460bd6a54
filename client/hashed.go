package client

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/serroba/pouch/internal/errs"
	"github.com/serroba/pouch/lru"
)

// Hashed is a client whose keys may be any Go value, including structs that
// hold slices or maps and so cannot be map keys. Keys are reduced to a
// structural hash; two keys with equal content share an entry.
type Hashed[V any] struct {
	*Client[uint64, V]
}

// NewHashed builds a [Hashed] client. Arguments match [New].
func NewHashed[V any](
	ctx context.Context,
	host string,
	port int,
	capacity int,
	ttl time.Duration,
	opts ...lru.Option[uint64, V],
) (*Hashed[V], error) {
	c, err := New(ctx, host, port, capacity, ttl, opts...)
	if err != nil {
		return nil, err
	}

	return &Hashed[V]{Client: c}, nil
}

// Get returns the value stored under key's hash.
func (h *Hashed[V]) Get(key any) (V, bool, error) {
	var zero V

	sum, err := Fingerprint(key)
	if err != nil {
		return zero, false, err
	}

	v, ok := h.Client.Get(sum)

	return v, ok, nil
}

// Put stores value under key's hash.
func (h *Hashed[V]) Put(key any, value V) error {
	sum, err := Fingerprint(key)
	if err != nil {
		return err
	}

	h.Client.Put(sum, value)

	return nil
}

// Delete drops the entry stored under key's hash.
func (h *Hashed[V]) Delete(key any) (bool, error) {
	sum, err := Fingerprint(key)
	if err != nil {
		return false, err
	}

	return h.Client.Delete(sum), nil
}

// Fingerprint returns the structural hash used as cache key for key.
func Fingerprint(key any) (uint64, error) {
	sum, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, errs.Wrapf(err, "hash key of type %T", key)
	}

	return sum, nil
}
