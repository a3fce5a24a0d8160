package codec

import "github.com/ethereum/go-ethereum/rlp"

// RLP is the default codec. It uses Ethereum's recursive length prefix
// encoding, which frames every variable-length field and refuses input with
// trailing bytes. Signed integers and maps are not representable.
var RLP Codec = rlpCodec{}

type rlpCodec struct{}

func (rlpCodec) Encode(v any) ([]byte, error) {
	return rlp.EncodeToBytes(v)
}

func (rlpCodec) Decode(data []byte, v any) error {
	return rlp.DecodeBytes(data, v)
}

func (rlpCodec) Name() string { return "rlp" }
