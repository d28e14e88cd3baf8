package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a\x00b"), Key("a\x00b"))
	assert.NotEqual(t, Key("a"), Key("b"))
	assert.Len(t, Key("anything"), 64)
}

func TestFileStore(t *testing.T) {
	t.Run("SetGet", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), time.Hour)
		require.NoError(t, err)

		key := Key("chunk-1")
		require.NoError(t, store.Set(key, "From\tTo\nA\tB\n"))

		text, err := store.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "From\tTo\nA\tB\n", text)
	})

	t.Run("Missing", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), time.Hour)
		require.NoError(t, err)

		_, err = store.Get(Key("never-set"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), time.Hour)
		require.NoError(t, err)

		_, err = store.Get("")
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, store.Set("", "x"), ErrEmptyKey)
	})

	t.Run("Expiry", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), -time.Second)
		require.NoError(t, err)

		key := Key("stale")
		require.NoError(t, store.Set(key, "old"))

		_, err = store.Get(key)
		assert.ErrorIs(t, err, ErrExpired)

		// The expired entry is removed, so a second lookup misses.
		_, err = store.Get(key)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), time.Hour)
		require.NoError(t, err)

		key := Key("chunk")
		require.NoError(t, store.Set(key, "first"))
		require.NoError(t, store.Set(key, "second"))

		text, err := store.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "second", text)
	})

	t.Run("ClearAndStats", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), time.Hour)
		require.NoError(t, err)

		require.NoError(t, store.Set(Key("a"), "1"))
		require.NoError(t, store.Set(Key("b"), "2"))

		count, size, err := store.Stats()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Positive(t, size)

		require.NoError(t, store.Clear())
		count, _, err = store.Stats()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("CleanupExpired", func(t *testing.T) {
		dir := t.TempDir()
		expired, err := NewFileStore(dir, -time.Second)
		require.NoError(t, err)
		require.NoError(t, expired.Set(Key("old"), "x"))

		fresh, err := NewFileStore(dir, time.Hour)
		require.NoError(t, err)
		require.NoError(t, fresh.Set(Key("new"), "y"))

		require.NoError(t, fresh.CleanupExpired())

		count, _, err := fresh.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		text, err := fresh.Get(Key("new"))
		require.NoError(t, err)
		assert.Equal(t, "y", text)
	})
}
