package codec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type account struct {
	Nonce    uint64
	Balance  *big.Int
	Stake    *uint256.Int
	Frozen   bool
	Tags     []string
	Metadata []byte
}

type signedRecord struct {
	Delta int64
	Label string
	Note  *string
}

func TestRLPRoundTrip(t *testing.T) {
	acct := account{
		Nonce:    7,
		Balance:  big.NewInt(1_000_000),
		Stake:    uint256.NewInt(42),
		Frozen:   true,
		Tags:     []string{"validator", "", "genesis"},
		Metadata: []byte{0x00, 0xff},
	}
	data, err := Encode(RLP, acct)
	require.NoError(t, err)

	got, err := Decode[account](RLP, data)
	require.NoError(t, err)
	require.Equal(t, acct.Nonce, got.Nonce)
	require.Equal(t, 0, acct.Balance.Cmp(got.Balance))
	require.True(t, acct.Stake.Eq(got.Stake))
	require.Equal(t, acct.Frozen, got.Frozen)
	require.Equal(t, acct.Tags, got.Tags)
	require.Equal(t, acct.Metadata, got.Metadata)

	pairs := [][2]uint32{{1, 2}, {3, 4}}
	data, err = Encode(nil, pairs)
	require.NoError(t, err)
	decoded, err := Decode[[][2]uint32](nil, data)
	require.NoError(t, err)
	require.Equal(t, pairs, decoded)
}

func TestRLPRejectsTruncatedAndTrailingInput(t *testing.T) {
	data, err := Encode(RLP, []string{"alpha", "beta"})
	require.NoError(t, err)

	for name, input := range map[string][]byte{
		"truncated": data[:len(data)-1],
		"trailing":  append(append([]byte{}, data...), 0x01),
		"empty":     {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode[[]string](RLP, input)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrDecode))

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.Equal(t, "rlp", decodeErr.Codec)
			require.Equal(t, "[]string", decodeErr.Type)
		})
	}
}

func TestRLPEncodeUnsupportedType(t *testing.T) {
	_, err := Encode(RLP, int64(-1))
	require.Error(t, err)
	var encodeErr *EncodeError
	require.ErrorAs(t, err, &encodeErr)
	require.False(t, errors.Is(err, ErrDecode))
}

func TestSCALERoundTrip(t *testing.T) {
	note := "memo"
	records := []signedRecord{
		{Delta: -5, Label: "debit"},
		{Delta: 9, Label: "credit", Note: &note},
	}
	for _, record := range records {
		data, err := Encode(SCALE, record)
		require.NoError(t, err)
		got, err := Decode[signedRecord](SCALE, data)
		require.NoError(t, err)
		require.Equal(t, record, got)
	}
}

func TestSCALERejectsTrailingInput(t *testing.T) {
	data, err := Encode(SCALE, uint32(5))
	require.NoError(t, err)
	require.Len(t, data, 4)

	_, err = Decode[uint32](SCALE, append(data, 0x00))
	require.ErrorIs(t, err, ErrDecode)
}

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	require.NoError(t, err)
	require.Equal(t, RLP, c)

	c, err = Lookup(" SCALE ")
	require.NoError(t, err)
	require.Equal(t, SCALE, c)

	_, err = Lookup("json")
	require.ErrorIs(t, err, ErrUnknownCodec)
}
