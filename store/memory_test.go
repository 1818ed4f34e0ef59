package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.Set(ctx, "parking/1", Document{"available": true, "user": ""})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "parking/1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["available"])

	_, err = s.Get(ctx, "parking/2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreInvalidPath(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, path := range []string{"", "parking", "parking/", "/1"} {
		_, err := s.Get(ctx, path)
		assert.Error(t, err, "path %q should be rejected", path)
	}
}

func TestMemoryStoreCreateRejectsExisting(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, "parking/7", Document{"available": true}))
	err := s.Create(ctx, "parking/7", Document{"available": true})
	assert.ErrorIs(t, err, ErrExists)
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "parking/1", Document{"available": true, "user": ""}))
	require.NoError(t, s.Update(ctx, "parking/1", Document{"user": "Alice"}))

	doc, err := s.Get(ctx, "parking/1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["available"], "untouched field survives the merge")
	assert.Equal(t, "Alice", doc["user"])

	err = s.Update(ctx, "parking/404", Document{"user": "Bob"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateIf(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "parking/1", Document{"available": true, "user": ""}))

	err := s.UpdateIf(ctx, "parking/1",
		Document{"available": true}, Document{"available": false, "user": "Alice"})
	require.NoError(t, err)

	// Second claim loses: the guard no longer matches.
	err = s.UpdateIf(ctx, "parking/1",
		Document{"available": true}, Document{"available": false, "user": "Bob"})
	assert.ErrorIs(t, err, ErrGuardFailed)

	doc, err := s.Get(ctx, "parking/1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", doc["user"], "losing claim must not overwrite the winner")

	err = s.UpdateIf(ctx, "parking/404", Document{"available": true}, Document{"user": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "reservations/r1", Document{"slot": "1"}))

	require.NoError(t, s.Remove(ctx, "reservations/r1"))
	require.NoError(t, s.Remove(ctx, "reservations/r1"))

	_, err := s.Get(ctx, "reservations/r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "parking/1", Document{"available": true}))

	docs, err := s.GetAll(ctx, "parking")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// Mutating the returned document must not reach the store.
	docs["1"]["available"] = false
	doc, err := s.Get(ctx, "parking/1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["available"])

	empty, err := s.GetAll(ctx, "reservations")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStoreSetAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.SetAll(ctx, "parking", map[string]Document{
		"1": {"available": true},
		"2": {"available": true},
	})
	require.NoError(t, err)

	docs, err := s.GetAll(ctx, "parking")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
