package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func openDatabases(t *testing.T) map[string]Database {
	t.Helper()
	ldb, err := NewLevelDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(ldb.Close)
	return map[string]Database{
		"memory":  NewMemDB(),
		"leveldb": ldb,
	}
}

func TestDatabaseGetMissingKey(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.Get([]byte("absent"))
			require.True(t, errors.Is(err, ErrNotFound), "unexpected error: %v", err)
		})
	}
}

func TestDatabasePutGetDelete(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Put([]byte("k"), []byte("v")))
			got, err := db.Get([]byte("k"))
			require.NoError(t, err)
			require.Equal(t, []byte("v"), got)

			require.NoError(t, db.Delete([]byte("k")))
			_, err = db.Get([]byte("k"))
			require.ErrorIs(t, err, ErrNotFound)

			// deleting twice is fine
			require.NoError(t, db.Delete([]byte("k")))
		})
	}
}

func TestDatabaseDeletePrefix(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"a/1", "a/2", "a/22", "ab", "b/1"} {
				require.NoError(t, db.Put([]byte(key), []byte(key)))
			}

			removed, err := db.DeletePrefix([]byte("a/"))
			require.NoError(t, err)
			require.Equal(t, 3, removed)

			for _, key := range []string{"a/1", "a/2", "a/22"} {
				_, err := db.Get([]byte(key))
				require.ErrorIs(t, err, ErrNotFound, key)
			}
			for _, key := range []string{"ab", "b/1"} {
				got, err := db.Get([]byte(key))
				require.NoError(t, err)
				require.Equal(t, key, string(got))
			}
		})
	}
}

func TestMemDBReturnsCopies(t *testing.T) {
	db := NewMemDB()
	value := []byte{1, 2, 3}
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 9

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	got[1] = 9
	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, again)
	require.Equal(t, 1, db.Len())
}
