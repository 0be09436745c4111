package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitejournal/bitejournal/utils"
)

func TestDBStoreSaveOverwrites(t *testing.T) {
	store := NewDBStore(utils.CreateTestDB(t))

	require.NoError(t, store.Save("user-1", "token-a"))
	require.NoError(t, store.Save("user-1", "token-b"))

	got, err := store.Get("user-1")
	require.NoError(t, err)
	require.Equal(t, "token-b", got)
}

func TestDBStoreGetAbsent(t *testing.T) {
	store := NewDBStore(utils.CreateTestDB(t))

	got, err := store.Get("nobody")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestDBStoreDeleteMatchesTokenOnly(t *testing.T) {
	store := NewDBStore(utils.CreateTestDB(t))

	require.NoError(t, store.Save("user-1", "token-a"))

	// Deleting with a stale token is a no-op: the session issued later stays.
	require.NoError(t, store.Delete("user-1", "stale-token"))
	got, err := store.Get("user-1")
	require.NoError(t, err)
	require.Equal(t, "token-a", got)

	require.NoError(t, store.Delete("user-1", "token-a"))
	got, err = store.Get("user-1")
	require.NoError(t, err)
	require.Equal(t, "", got)

	// Idempotent on absence.
	require.NoError(t, store.Delete("user-1", "token-a"))
}
