// Package client is the entry point applications embed to reach a pouch cache.
//
// A Client records the address of the cache it stands for and, until a wire
// protocol exists, serves every call from an in-process [lru.Cache].
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
	"github.com/serroba/pouch/lru"
)

var (
	// ErrInvalidHost is returned when the host is empty.
	ErrInvalidHost = errors.New("client: host is required")

	// ErrInvalidPort is returned when the port is outside 1..65535.
	ErrInvalidPort = errors.New("client: port must be in 1..65535")
)

// Client delegates Get and Put to a cache addressed by host and port.
type Client[K comparable, V any] struct {
	host  string
	port  int
	cache *lru.Cache[K, V]
}

// New builds a client for host:port backed by a cache of the given capacity.
// A zero ttl keeps [lru.DefaultTTL]; extra options are passed to [lru.New].
func New[K comparable, V any](
	ctx context.Context,
	host string,
	port int,
	capacity int,
	ttl time.Duration,
	opts ...lru.Option[K, V],
) (*Client[K, V], error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, ErrInvalidHost
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPort, port)
	}

	if ttl != 0 {
		opts = append([]lru.Option[K, V]{lru.WithTTL[K, V](ttl)}, opts...)
	}

	cache, err := lru.New(capacity, opts...)
	if err != nil {
		return nil, errs.Wrapf(err, "build cache for %s", net.JoinHostPort(host, strconv.Itoa(port)))
	}

	c := &Client[K, V]{host: host, port: port, cache: cache}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "client")),
		"client ready",
		slog.String("addr", c.Addr()),
		slog.Int("capacity", cache.Cap()),
		slog.Duration("ttl", cache.TTL()),
	)

	return c, nil
}

// Get returns the value for key, or false when it is missing or expired.
func (c *Client[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

// Put stores value under key, replacing any previous value.
func (c *Client[K, V]) Put(key K, value V) {
	c.cache.Set(key, value)
}

// Delete drops key and reports whether it was stored.
func (c *Client[K, V]) Delete(key K) bool {
	return c.cache.Delete(key)
}

// Entries lists live entries, most recently used first.
func (c *Client[K, V]) Entries() []lru.Entry[K, V] {
	return c.cache.Entries()
}

// Addr returns host:port.
func (c *Client[K, V]) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Cache exposes the cache serving this client.
func (c *Client[K, V]) Cache() *lru.Cache[K, V] {
	return c.cache
}
