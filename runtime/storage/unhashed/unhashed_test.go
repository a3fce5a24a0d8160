package unhashed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framestore/codec"
	"framestore/runtime/storage/top"
	"framestore/state"
)

func TestForwardsToTop(t *testing.T) {
	s := state.NewMemoryStore()
	require.NoError(t, Put(s, codec.RLP, []byte("k"), uint64(3)))

	got, ok, err := top.Get[uint64](s, codec.RLP, []byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3), got)

	require.NoError(t, KillPrefix(s, []byte("k")))
	ok, err = Exists(s, []byte("k"))
	require.NoError(t, err)
	require.False(t, ok)
}
