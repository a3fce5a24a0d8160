package tophashed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framestore/codec"
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

func TestValuesLiveUnderHashedKey(t *testing.T) {
	s := state.NewMemoryStore()
	key := []byte("well-known")

	require.NoError(t, Put(s, codec.RLP, hashing.Twox128, key, uint64(42)))

	raw, err := top.GetRaw(s, hashing.Twox128.Hash(key))
	require.NoError(t, err)
	require.NotNil(t, raw)
	raw, err = top.GetRaw(s, key)
	require.NoError(t, err)
	require.Nil(t, raw)

	got, ok, err := Get[uint64](s, codec.RLP, hashing.Twox128, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), got)

	require.NoError(t, Kill(s, hashing.Twox128, key))
	ok, err = Exists(s, hashing.Twox128, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeyUsesHasherOutput(t *testing.T) {
	require.Equal(t, hashing.Blake2_256.Hash([]byte("x")), Key(hashing.Blake2_256, []byte("x")))
	require.Equal(t, []byte("x"), Key(hashing.Identity, []byte("x")))
}
