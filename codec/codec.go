// Package codec turns typed values into the bytes kept in state and back.
//
// Every codec is deterministic: the same value always encodes to the same
// bytes, on every node. Decoding rejects truncated or trailing input instead
// of guessing.
package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrDecode matches every DecodeError.
var ErrDecode = errors.New("codec: cannot decode stored value")

// ErrUnknownCodec is returned by Lookup for names that are not registered.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes values into a self-delimiting byte representation.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Name() string
}

// DecodeError reports stored bytes that do not decode as the expected type.
// It signals corrupted state or a reader/writer type mismatch.
type DecodeError struct {
	Codec string
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec %s: decode %s: %v", e.Codec, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// EncodeError reports a value whose type the codec cannot represent. It is a
// programming error: encoding never fails for supported types.
type EncodeError struct {
	Codec string
	Type  string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("codec %s: encode %s: %v", e.Codec, e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Or returns c, or the default RLP codec when c is nil.
func Or(c Codec) Codec {
	if c == nil {
		return RLP
	}
	return c
}

// Encode encodes v with c (RLP when c is nil).
func Encode[V any](c Codec, v V) ([]byte, error) {
	c = Or(c)
	data, err := c.Encode(v)
	if err != nil {
		return nil, &EncodeError{Codec: c.Name(), Type: typeName[V](), Err: err}
	}
	return data, nil
}

// Decode decodes data into a fresh V with c (RLP when c is nil).
func Decode[V any](c Codec, data []byte) (V, error) {
	c = Or(c)
	var v V
	if err := c.Decode(data, &v); err != nil {
		var zero V
		return zero, &DecodeError{Codec: c.Name(), Type: typeName[V](), Err: err}
	}
	return v, nil
}

// Lookup resolves a codec by its configured name.
func Lookup(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RLP.Name():
		return RLP, nil
	case SCALE.Name():
		return SCALE, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

func typeName[V any]() string {
	t := reflect.TypeOf((*V)(nil)).Elem()
	return t.String()
}
