package client_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/serroba/pouch/client"
	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		host     string
		port     int
		capacity int
		ttl      time.Duration
		wantErr  error
	}{
		{name: "empty host", host: " ", port: 11211, capacity: 1, wantErr: client.ErrInvalidHost},
		{name: "port zero", host: "localhost", port: 0, capacity: 1, wantErr: client.ErrInvalidPort},
		{name: "port too large", host: "localhost", port: 65536, capacity: 1, wantErr: client.ErrInvalidPort},
		{name: "zero capacity", host: "localhost", port: 11211, capacity: 0, wantErr: lru.ErrInvalidCapacity},
		{name: "negative ttl", host: "localhost", port: 11211, capacity: 1, ttl: -time.Second, wantErr: lru.ErrInvalidTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := client.New[string, string](ctx, tt.host, tt.port, tt.capacity, tt.ttl)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestClient_GetPut(t *testing.T) {
	t.Parallel()

	c, err := client.New[string, string](context.Background(), "localhost", 11211, 300, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "localhost:11211", c.Addr())
	assert.Equal(t, 5*time.Second, c.Cache().TTL())

	c.Put("key1", "value1")

	v, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", v)

	_, ok = c.Get("key2")
	assert.False(t, ok)

	assert.True(t, c.Delete("key1"))
	assert.Empty(t, c.Entries())
}

func TestClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	c, err := client.New[int, int](context.Background(), "::1", 9000, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, lru.DefaultTTL, c.Cache().TTL())
	assert.Equal(t, "[::1]:9000", c.Addr())
}

func TestClient_ExpiresThroughFacade(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c, err := client.New(context.Background(), "localhost", 11211, 2, 2*time.Second,
		lru.WithClock[int, string](clock))
	require.NoError(t, err)

	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")

	_, ok := c.Get(1)
	assert.False(t, ok)

	now = now.Add(5 * time.Second)

	_, ok = c.Get(2)
	assert.False(t, ok)

	_, ok = c.Get(3)
	assert.False(t, ok)
}

func TestClient_LogsConstruction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, slog.LevelInfo))

	_, err := client.New[string, string](ctx, "localhost", 11211, 4, time.Minute)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="client ready"`)
	assert.Contains(t, out, "addr=localhost:11211")
	assert.Contains(t, out, "capacity=4")
	assert.Contains(t, out, "component=client")
}

func TestClient_Concurrent(t *testing.T) {
	t.Parallel()

	c, err := client.New[int, int](context.Background(), "localhost", 11211, 10, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			c.Put(i, i*2)

			v, ok := c.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i*2, v)
		}(i)
	}

	wg.Wait()
}
