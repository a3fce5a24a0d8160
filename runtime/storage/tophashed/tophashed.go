// Package tophashed reads and writes typed values whose top-level key is
// passed through a hasher first.
package tophashed

import (
	"framestore/codec"
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// Key returns the final key used for key under h.
func Key(h hashing.Hasher, key []byte) []byte {
	return hashing.HashKey(h, key)
}

func Get[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (V, bool, error) {
	return top.Get[V](s, c, Key(h, key))
}

func Inspect[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (top.Probe[V], error) {
	return top.Inspect[V](s, c, Key(h, key))
}

func Put[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte, v V) error {
	return top.Put(s, c, Key(h, key), v)
}

func Take[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (V, bool, error) {
	return top.Take[V](s, c, Key(h, key))
}

func Exists(s state.Store, h hashing.Hasher, key []byte) (bool, error) {
	return top.Exists(s, Key(h, key))
}

func Kill(s state.Store, h hashing.Hasher, key []byte) error {
	return top.Kill(s, Key(h, key))
}

func GetRaw(s state.Store, h hashing.Hasher, key []byte) ([]byte, error) {
	return top.GetRaw(s, Key(h, key))
}

func PutRaw(s state.Store, h hashing.Hasher, key, value []byte) error {
	return top.PutRaw(s, Key(h, key), value)
}
