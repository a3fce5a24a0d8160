package codec

import (
	"fmt"
	"reflect"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// SCALE is the Substrate simple concatenated aggregate little-endian codec.
// Pointers encode as optional values and signed integers are supported.
var SCALE Codec = scaleCodec{}

type scaleCodec struct{}

func (scaleCodec) Encode(v any) ([]byte, error) {
	return scale.Marshal(v)
}

// Decode re-encodes the decoded value and requires it to span exactly data,
// so truncated input and trailing bytes are both rejected. v must be a
// non-nil pointer.
func (scaleCodec) Decode(data []byte, v any) error {
	if err := scale.Unmarshal(data, v); err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", v)
	}
	reencoded, err := scale.Marshal(rv.Elem().Interface())
	if err != nil {
		return err
	}
	if len(reencoded) != len(data) {
		return fmt.Errorf("value occupies %d bytes, input has %d", len(reencoded), len(data))
	}
	return nil
}

func (scaleCodec) Name() string { return "scale" }
