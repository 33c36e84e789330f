package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", json.RawMessage(`{"a":1}`)))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	require.NoError(t, m.Set(ctx, "k", json.RawMessage(`1`)))
	require.NoError(t, m.Delete(ctx, "k"))

	ok, err := m.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting a missing key is not an error
	assert.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryAdapter_KeysAndClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	require.NoError(t, m.Set(ctx, "a", json.RawMessage(`1`)))
	require.NoError(t, m.Set(ctx, "b", json.RawMessage(`2`)))

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, m.Clear(ctx))
	keys, err = m.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryAdapter_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "k", json.RawMessage(`1`))
		}()
		go func() {
			defer wg.Done()
			_, _, _ = m.Get(ctx, "k")
		}()
	}
	wg.Wait()
}
