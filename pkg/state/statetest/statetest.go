// Package statetest holds the behaviour every storage medium must share.
package statetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Store mirrors state.StateStore so media packages can use this helper
// without importing state.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Run exercises store with a fresh random key per subtest.
func Run(t *testing.T, store Store) {
	ctx := context.Background()
	newKey := func() string { return "statetest_" + uuid.New().String()[:8] }

	t.Run("absent key", func(t *testing.T) {
		v, ok, err := store.Get(ctx, newKey())
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("round trip", func(t *testing.T) {
		values := []string{
			"hello",
			"",
			"héllo wörld ✓ 日本語 🎉",
			"line one\nline two\ttabbed",
			`{"nested":{"json":[1,2,3]}}`,
		}
		for _, want := range values {
			key := newKey()
			require.NoError(t, store.Set(ctx, key, want))
			got, ok, err := store.Get(ctx, key)
			require.NoError(t, err)
			require.True(t, ok, "value %q", want)
			require.Equal(t, want, got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		key := newKey()
		require.NoError(t, store.Set(ctx, key, "first"))
		require.NoError(t, store.Set(ctx, key, "second"))
		got, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "second", got)
	})

	t.Run("empty value is present", func(t *testing.T) {
		key := newKey()
		require.NoError(t, store.Set(ctx, key, "x"))
		require.NoError(t, store.Set(ctx, key, ""))
		got, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, got)
	})
}
