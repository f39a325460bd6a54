package client_test

import (
	"context"
	"testing"

	"github.com/serroba/pouch/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type query struct {
	Table   string
	Columns []string
	Filters map[string]string
}

func TestHashed_StructKeys(t *testing.T) {
	t.Parallel()

	h, err := client.NewHashed[int](context.Background(), "localhost", 11211, 2, 0)
	require.NoError(t, err)

	q := query{Table: "users", Columns: []string{"id", "name"}, Filters: map[string]string{"active": "true"}}
	require.NoError(t, h.Put(q, 42))

	same := query{Table: "users", Columns: []string{"id", "name"}, Filters: map[string]string{"active": "true"}}

	v, ok, err := h.Get(same)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	other := query{Table: "users", Columns: []string{"id"}}

	_, ok, err = h.Get(other)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := h.Delete(same)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, h.Cache().Len())
}

func TestHashed_EvictsLikeClient(t *testing.T) {
	t.Parallel()

	h, err := client.NewHashed[string](context.Background(), "localhost", 11211, 1, 0)
	require.NoError(t, err)

	require.NoError(t, h.Put([]int{1}, "a"))
	require.NoError(t, h.Put([]int{2}, "b"))

	_, ok, err := h.Get([]int{1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashed_UnhashableKey(t *testing.T) {
	t.Parallel()

	h, err := client.NewHashed[string](context.Background(), "localhost", 11211, 1, 0)
	require.NoError(t, err)

	fn := func() {}

	require.Error(t, h.Put(fn, "x"))

	_, _, err = h.Get(fn)
	require.Error(t, err)

	_, err = h.Delete(fn)
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a, err := client.Fingerprint(map[string]int{"x": 1, "y": 2})
	require.NoError(t, err)

	b, err := client.Fingerprint(map[string]int{"y": 2, "x": 1})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
