// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/carrental-client/internal/client/storage"
	"github.com/stretchr/testify/require"
)

// RunContract exercises s through the Storage interface. s must start empty.
func RunContract(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "auth_credentials", []byte("Ym9iOnB3")))
		v, ok, err := s.Get(ctx, "auth_credentials")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("Ym9iOnB3"), v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", []byte("old")))
		require.NoError(t, s.Set(ctx, "k", []byte("new")))
		v, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, []byte("new"), v)
	})

	t.Run("set many", func(t *testing.T) {
		require.NoError(t, s.SetMany(ctx, map[string][]byte{
			"a": []byte("1"),
			"b": []byte("2"),
		}))
		for k, want := range map[string]string{"a": "1", "b": "2"} {
			v, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			require.True(t, ok, k)
			require.Equal(t, want, string(v))
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "a", "b"))
		require.NoError(t, s.Delete(ctx, "a", "b", "never-set"))
		_, ok, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("delete with no keys", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx))
	})
}
