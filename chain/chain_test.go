package chain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"framestore/codec"
	"framestore/runtime/storage/generator"
	"framestore/state"
	"framestore/storage"
	"framestore/storage/trie"
)

const fixtureYAML = `
blocks:
  - ops:
      - op: set
        key: "0x0101"
        value: alpha
      - op: set
        key: "0x0102"
        value: beta
      - op: set
        key: ":balance:alice"
        amount: "1000000000000000000000"
  - ops:
      - op: remove_prefix
        key: "0x01"
      - op: set
        key: "0x0201"
        value: "0xdeadbeef"
  - ops:
      - op: remove
        key: ":balance:alice"
`

func TestParseBlockID(t *testing.T) {
	hash := common.HexToHash("0x8f3c0e5a2b1d4f6e7a9b0c1d2e3f405162738495a6b7c8d9e0f1a2b3c4d5e6f7")

	cases := []struct {
		input string
		want  BlockID
		err   bool
	}{
		{input: hash.Hex(), want: HashID(hash)},
		{input: hash.Hex()[2:], want: HashID(hash)},
		{input: "42", want: NumberID(42)},
		{input: "4294967295", want: NumberID(4294967295)},
		{input: "4294967296", err: true},
		{input: "0xzz", err: true},
		{input: "-1", err: true},
		{input: "", err: true},
	}
	for _, tc := range cases {
		got, err := ParseBlockID(tc.input)
		if tc.err {
			require.ErrorIs(t, err, ErrInvalidInput, tc.input)
			require.Contains(t, err.Error(), "invalid hash or number specified")
			continue
		}
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}
}

func TestBlockHashIsDeterministic(t *testing.T) {
	b := &Block{Number: 3, Ops: []Op{{Kind: OpSet, Key: []byte("k"), Value: []byte("v")}}}
	require.Equal(t, b.Hash(), b.Hash())

	other := *b
	other.Number = 4
	require.NotEqual(t, b.Hash(), other.Hash())
}

func TestBlockStore(t *testing.T) {
	bs := NewBlockStore(state.NewMemoryStore())

	_, ok, err := bs.Best()
	require.NoError(t, err)
	require.False(t, ok)

	genesis := &Block{Number: 0, Ops: []Op{{Kind: OpSet, Key: []byte("a"), Value: []byte("1")}}}
	h0, err := bs.Put(genesis)
	require.NoError(t, err)
	next := &Block{Number: 1, ParentHash: h0}
	h1, err := bs.Put(next)
	require.NoError(t, err)

	got, err := bs.Block(NumberID(0))
	require.NoError(t, err)
	require.Equal(t, h0, got.Hash())
	got, err = bs.Block(HashID(h1))
	require.NoError(t, err)
	require.Equal(t, uint64(1), got.Number)

	best, ok, err := bs.Best()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h1, best.Hash())

	log, err := bs.Imported()
	require.NoError(t, err)
	require.Equal(t, []ImportRecord{{Hash: h1, Number: 1}, {Hash: h0, Number: 0}}, log)

	require.NoError(t, bs.VerifyImportLog())

	_, err = bs.Block(NumberID(9))
	require.ErrorIs(t, err, ErrBlockNotFound)

	require.NoError(t, bs.Forget(h1))
	best, ok, err = bs.Best()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h0, best.Hash())
	log, err = bs.Imported()
	require.NoError(t, err)
	require.Equal(t, []ImportRecord{{Hash: h0, Number: 0}}, log)

	require.NoError(t, bs.Forget(h0))
	_, ok, err = bs.Best()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestForgetRewindsAcrossGaps(t *testing.T) {
	bs := NewBlockStore(state.NewMemoryStore())
	low, err := bs.Put(&Block{Number: 2})
	require.NoError(t, err)
	high, err := bs.Put(&Block{Number: 4_000_000_000, ParentHash: low})
	require.NoError(t, err)

	require.NoError(t, bs.Forget(high))
	best, ok, err := bs.Best()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, low, best.Hash())
}

func TestForgetSkipsReplacedCanonicalBlocks(t *testing.T) {
	bs := NewBlockStore(state.NewMemoryStore())
	h0, err := bs.Put(&Block{Number: 0})
	require.NoError(t, err)
	_, err = bs.Put(&Block{Number: 1, ParentHash: h0})
	require.NoError(t, err)
	fork, err := bs.Put(&Block{Number: 1, ParentHash: h0, StateRoot: common.HexToHash("0x01")})
	require.NoError(t, err)

	// The first block 1 is still logged but no longer canonical.
	require.NoError(t, bs.Forget(fork))
	best, ok, err := bs.Best()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h0, best.Hash())
}

func TestBlockStoreWithSCALE(t *testing.T) {
	bs := NewBlockStore(state.NewMemoryStore(), generator.WithCodec(codec.SCALE))
	b := &Block{Number: 7, Ops: []Op{{Kind: OpRemovePrefix, Key: []byte("p")}}}
	h, err := bs.Put(b)
	require.NoError(t, err)

	got, err := bs.Block(NumberID(7))
	require.NoError(t, err)
	require.Equal(t, h, got.Hash())
	require.Equal(t, OpRemovePrefix, got.Ops[0].Kind)
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))
	return path
}

func TestImportThenCheck(t *testing.T) {
	ctx := context.Background()
	tries := storage.NewMemoryTrieDB()
	bs := NewBlockStore(state.NewMemoryStore())

	hashes, err := NewImporter(bs, tries, nil).ImportFile(ctx, writeFixture(t))
	require.NoError(t, err)
	require.Len(t, hashes, 3)

	checker := NewChecker(bs, tries, nil)
	for i, h := range hashes {
		res, err := checker.Check(ctx, HashID(h))
		require.NoError(t, err)
		require.Equal(t, uint64(i), res.Number)
		res, err = checker.Check(ctx, NumberID(uint64(i)))
		require.NoError(t, err)
		require.Equal(t, h, res.Hash)
	}

	// The committed state of block 1 reflects the prefix removal.
	b1, err := bs.Block(NumberID(1))
	require.NoError(t, err)
	tr, err := trie.NewTrie(tries, b1.StateRoot.Bytes())
	require.NoError(t, err)
	s := state.NewTrieStore(tr)
	gone, err := s.Get([]byte{0x01, 0x01})
	require.NoError(t, err)
	require.Nil(t, gone)
	kept, err := s.Get([]byte{0x02, 0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, kept)

	raw, err := s.Get([]byte(":balance:alice"))
	require.NoError(t, err)
	balance, err := codec.Decode[*uint256.Int](codec.RLP, raw)
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000000", balance.Dec())
}

func TestCheckDetectsTamperedRoot(t *testing.T) {
	ctx := context.Background()
	tries := storage.NewMemoryTrieDB()
	bs := NewBlockStore(state.NewMemoryStore())

	_, err := NewImporter(bs, tries, nil).ImportFile(ctx, writeFixture(t))
	require.NoError(t, err)

	b, err := bs.Block(NumberID(1))
	require.NoError(t, err)
	forged := *b
	forged.StateRoot = common.HexToHash("0x01")
	h, err := bs.Put(&forged)
	require.NoError(t, err)

	_, err = NewChecker(bs, tries, nil).Check(ctx, HashID(h))
	require.ErrorIs(t, err, ErrStateRootMismatch)
}

func TestImportRejectsWrongExpectedRoot(t *testing.T) {
	bs := NewBlockStore(state.NewMemoryStore())
	fixtures := []BlockFixture{{
		StateRoot: "0x01",
		Ops:       []OpFixture{{Op: "set", Key: "k", Value: "v"}},
	}}
	_, err := NewImporter(bs, storage.NewMemoryTrieDB(), nil).Import(context.Background(), fixtures)
	require.ErrorIs(t, err, ErrStateRootMismatch)

	_, ok, err := bs.Best()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestImportRejectsMalformedOps(t *testing.T) {
	im := NewImporter(NewBlockStore(state.NewMemoryStore()), storage.NewMemoryTrieDB(), nil)
	for _, op := range []OpFixture{
		{Op: "rename", Key: "k"},
		{Op: "set", Key: "k"},
		{Op: "set", Key: "0xzz", Value: "v"},
		{Op: "set", Key: "k", Amount: "-5"},
		{Op: "remove"},
	} {
		_, err := im.Import(context.Background(), []BlockFixture{{Ops: []OpFixture{op}}})
		require.ErrorIs(t, err, ErrInvalidInput, op)
	}
}

func TestReplayHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := &Block{Ops: []Op{{Kind: OpSet, Key: []byte("k"), Value: []byte("v")}}}
	require.ErrorIs(t, Replay(ctx, state.NewMemoryStore(), b), context.Canceled)
}
