package hashing

import (
	"encoding/binary"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedHasherSizes(t *testing.T) {
	for _, h := range []FixedHasher{Blake2_128, Blake2_256, Keccak256, Blake3_256, Twox128, Twox256} {
		t.Run(h.Name(), func(t *testing.T) {
			require.Len(t, h.Hash(nil), h.Size())
			require.Len(t, h.Hash([]byte("some longer key material")), h.Size())
			require.Equal(t, h.Hash([]byte("x")), h.Hash([]byte("x")))
		})
	}
}

func TestKnownDigests(t *testing.T) {
	// Keccak256 of the empty string.
	require.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(Keccak256.Hash(nil)))
	// Blake2b-256 of the empty string.
	require.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(Blake2_256.Hash(nil)))
	// xxHash64 of the empty string with seed 0.
	require.Equal(t, uint64(0xef46db3751d8e999), binary.LittleEndian.Uint64(Twox128.Hash(nil)[:8]))
}

func TestConcatHashersKeepRawKey(t *testing.T) {
	raw := []byte("alice")
	for _, h := range []Hasher{Twox64Concat, Blake2_128Concat, Identity} {
		t.Run(h.Name(), func(t *testing.T) {
			hashed := h.Hash(raw)
			rev, ok := h.(ReversibleHasher)
			require.True(t, ok)
			got, err := rev.Reverse(hashed)
			require.NoError(t, err)
			require.Equal(t, raw, got)
		})
	}
	require.Len(t, Twox64Concat.Hash(raw), 8+len(raw))
	require.Len(t, Blake2_128Concat.Hash(raw), 16+len(raw))

	_, err := Blake2_128Concat.(ReversibleHasher).Reverse([]byte{1, 2})
	require.Error(t, err)
}

func TestVariableHashersAreNotFixed(t *testing.T) {
	for _, h := range []Hasher{Twox64Concat, Blake2_128Concat, Identity} {
		_, fixed := h.(FixedHasher)
		require.False(t, fixed, h.Name())
		_, err := LookupFixed(h.Name())
		require.Error(t, err)
	}
}

func TestLookup(t *testing.T) {
	h, err := Lookup("Twox64Concat")
	require.NoError(t, err)
	require.Equal(t, Twox64Concat, h)

	fixed, err := LookupFixed("blake2_128")
	require.NoError(t, err)
	require.Equal(t, 16, fixed.Size())

	_, err = Lookup("sha1")
	require.ErrorIs(t, err, ErrUnknownHasher)
}

func TestPrefixLayout(t *testing.T) {
	p := NewPrefix("Balances", "TotalIssuance")
	require.Len(t, p.Bytes(), PrefixSize)
	require.Equal(t, Twox128.Hash([]byte("Balances")), p.Bytes()[:16])
	require.Equal(t, Twox128.Hash([]byte("TotalIssuance")), p.Bytes()[16:])
	require.Equal(t, p.ModuleBytes(), NewPrefix("Balances", "Account").ModuleBytes())
	require.Equal(t, "Balances::TotalIssuance", p.String())
	require.False(t, p.IsZero())
	require.True(t, Prefix{}.IsZero())
}

func TestNewPrefixRejectsEmptyNames(t *testing.T) {
	require.Panics(t, func() { NewPrefix("", "Item") })
	require.Panics(t, func() { NewPrefix("Module", " ") })
}

func TestDeriveKeyWithoutMaterial(t *testing.T) {
	p := NewPrefix("System", "Number")
	require.Equal(t, p.Bytes(), DeriveKey(p))
	require.Equal(t, p.Bytes(), DeriveKey(p, nil, []byte{}))
	require.NotEqual(t, DeriveKey(p), DeriveKey(NewPrefix("System", "ParentHash")))
}

func TestDeriveKeySuffix(t *testing.T) {
	p := NewPrefix("System", "Account")
	key := DeriveKey(p, Blake2_128Concat.Hash([]byte("bob")))
	require.True(t, HasPrefix(key, p))
	suffix, err := Suffix(key, p)
	require.NoError(t, err)
	require.Equal(t, Blake2_128Concat.Hash([]byte("bob")), suffix)

	_, err = Suffix(key, NewPrefix("System", "Other"))
	require.Error(t, err)
}

// Distinct (module, item, key) triples must never share a final key. The
// sample mixes modules, items and key lengths, including empty keys.
func TestDerivedKeysAreDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	modules := []string{"System", "Balances", "Staking", "Sys", "tem"}
	items := []string{"Account", "Ledger", "Nonce", "AccountLedger", "A"}

	for _, h := range []Hasher{Twox64Concat, Blake2_128Concat, Twox128, Blake2_256, Keccak256} {
		t.Run(h.Name(), func(t *testing.T) {
			seen := make(map[string]string)
			for _, module := range modules {
				for _, item := range items {
					p := NewPrefix(module, item)
					for i := 0; i < 400; i++ {
						raw := make([]byte, rng.Intn(12))
						rng.Read(raw)
						key := string(DeriveKey(p, h.Hash(raw)))
						id := module + "/" + item + "/" + hex.EncodeToString(raw)
						if prev, ok := seen[key]; ok && prev != id {
							t.Fatalf("collision between %s and %s", prev, id)
						}
						seen[key] = id
					}
				}
			}
		})
	}
}
