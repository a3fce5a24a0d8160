// Package top reads and writes typed values at raw, unhashed keys of the
// top-level state.
package top

import (
	"fmt"

	"framestore/codec"
	"framestore/state"
)

// Probe is the tooling-facing result of a read: the raw bytes are always
// returned and a decode failure is reported inline instead of as an error.
type Probe[V any] struct {
	Key       []byte
	Raw       []byte
	Present   bool
	Value     V
	DecodeErr error
}

// Decoded reports whether the probe holds a successfully decoded value.
func (p Probe[V]) Decoded() bool {
	return p.Present && p.DecodeErr == nil
}

// GetRaw returns the bytes stored under key, or nil.
func GetRaw(s state.Store, key []byte) ([]byte, error) {
	return s.Get(key)
}

// PutRaw stores value under key as is.
func PutRaw(s state.Store, key, value []byte) error {
	return s.Set(key, value)
}

// Get decodes the value under key. Absent keys yield the zero value and
// false. Undecodable bytes yield a *codec.DecodeError, which callers must
// propagate: it means the state is corrupt or read with the wrong type.
func Get[V any](s state.Store, c codec.Codec, key []byte) (V, bool, error) {
	var zero V
	raw, err := s.Get(key)
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	v, err := codec.Decode[V](c, raw)
	if err != nil {
		return zero, false, fmt.Errorf("key %x: %w", key, err)
	}
	return v, true, nil
}

// Inspect reads key without failing on undecodable bytes.
func Inspect[V any](s state.Store, c codec.Codec, key []byte) (Probe[V], error) {
	probe := Probe[V]{Key: append([]byte(nil), key...)}
	raw, err := s.Get(key)
	if err != nil {
		return probe, err
	}
	if raw == nil {
		return probe, nil
	}
	probe.Raw = raw
	probe.Present = true
	probe.Value, probe.DecodeErr = codec.Decode[V](c, raw)
	return probe, nil
}

// Put encodes v and stores it under key.
func Put[V any](s state.Store, c codec.Codec, key []byte, v V) error {
	data, err := codec.Encode(c, v)
	if err != nil {
		return err
	}
	return s.Set(key, data)
}

// Take decodes and removes the value under key. Nothing is removed when the
// stored bytes fail to decode.
func Take[V any](s state.Store, c codec.Codec, key []byte) (V, bool, error) {
	v, ok, err := Get[V](s, c, key)
	if err != nil || !ok {
		return v, ok, err
	}
	if err := s.Remove(key); err != nil {
		var zero V
		return zero, false, err
	}
	return v, true, nil
}

// Exists reports whether anything is stored under key.
func Exists(s state.Store, key []byte) (bool, error) {
	raw, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Kill removes key.
func Kill(s state.Store, key []byte) error {
	return s.Remove(key)
}

// KillPrefix removes every key starting with prefix.
func KillPrefix(s state.Store, prefix []byte) error {
	return s.RemovePrefix(prefix)
}
