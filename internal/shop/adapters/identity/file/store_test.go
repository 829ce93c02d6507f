package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetCredential("token-1"))

	guestID, err := store.EnsureAnonymousCartID()
	require.NoError(t, err)
	require.NotEmpty(t, guestID)

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	require.Equal(t, "token-1", reloaded.Credential())
	require.Equal(t, guestID, reloaded.AnonymousCartID())
}

func TestEnsureAnonymousCartIDIsStable(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	first, err := store.EnsureAnonymousCartID()
	require.NoError(t, err)
	second, err := store.EnsureAnonymousCartID()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestConsumeAnonymousCartID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	t.Run("empty when none exists", func(t *testing.T) {
		id, err := store.ConsumeAnonymousCartID()
		require.NoError(t, err)
		require.Empty(t, id)
	})

	t.Run("returns and clears an existing id", func(t *testing.T) {
		created, err := store.EnsureAnonymousCartID()
		require.NoError(t, err)

		consumed, err := store.ConsumeAnonymousCartID()
		require.NoError(t, err)
		require.Equal(t, created, consumed)
		require.Empty(t, store.AnonymousCartID())

		reloaded, err := NewStore(path)
		require.NoError(t, err)
		require.Empty(t, reloaded.AnonymousCartID())
	})
}

func TestClearCredential(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, store.SetCredential("token"))
	require.NoError(t, store.ClearCredential())
	require.Empty(t, store.Credential())
}
