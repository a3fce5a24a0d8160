// Package hashed is the former name of package tophashed.
//
// Deprecated: use framestore/runtime/storage/tophashed.
package hashed

import (
	"framestore/codec"
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/runtime/storage/tophashed"
	"framestore/state"
)

// Deprecated: use tophashed.Get.
func Get[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (V, bool, error) {
	return tophashed.Get[V](s, c, h, key)
}

// Deprecated: use tophashed.Put.
func Put[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte, v V) error {
	return tophashed.Put(s, c, h, key, v)
}

// Deprecated: use tophashed.Take.
func Take[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (V, bool, error) {
	return tophashed.Take[V](s, c, h, key)
}

// Deprecated: use tophashed.Exists.
func Exists(s state.Store, h hashing.Hasher, key []byte) (bool, error) {
	return tophashed.Exists(s, h, key)
}

// Deprecated: use tophashed.Kill.
func Kill(s state.Store, h hashing.Hasher, key []byte) error {
	return tophashed.Kill(s, h, key)
}

// Deprecated: use tophashed.GetRaw.
func GetRaw(s state.Store, h hashing.Hasher, key []byte) ([]byte, error) {
	return tophashed.GetRaw(s, h, key)
}

// Deprecated: use tophashed.PutRaw.
func PutRaw(s state.Store, h hashing.Hasher, key, value []byte) error {
	return tophashed.PutRaw(s, h, key, value)
}

// Deprecated: use tophashed.Inspect.
func Inspect[V any](s state.Store, c codec.Codec, h hashing.Hasher, key []byte) (top.Probe[V], error) {
	return tophashed.Inspect[V](s, c, h, key)
}
