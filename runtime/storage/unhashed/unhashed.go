// Package unhashed is the former name of package top.
//
// Deprecated: use framestore/runtime/storage/top.
package unhashed

import (
	"framestore/codec"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// Deprecated: use top.Get.
func Get[V any](s state.Store, c codec.Codec, key []byte) (V, bool, error) {
	return top.Get[V](s, c, key)
}

// Deprecated: use top.Put.
func Put[V any](s state.Store, c codec.Codec, key []byte, v V) error {
	return top.Put(s, c, key, v)
}

// Deprecated: use top.Take.
func Take[V any](s state.Store, c codec.Codec, key []byte) (V, bool, error) {
	return top.Take[V](s, c, key)
}

// Deprecated: use top.Exists.
func Exists(s state.Store, key []byte) (bool, error) {
	return top.Exists(s, key)
}

// Deprecated: use top.Kill.
func Kill(s state.Store, key []byte) error {
	return top.Kill(s, key)
}

// Deprecated: use top.KillPrefix.
func KillPrefix(s state.Store, prefix []byte) error {
	return top.KillPrefix(s, prefix)
}

// Deprecated: use top.GetRaw.
func GetRaw(s state.Store, key []byte) ([]byte, error) {
	return top.GetRaw(s, key)
}

// Deprecated: use top.PutRaw.
func PutRaw(s state.Store, key, value []byte) error {
	return top.PutRaw(s, key, value)
}

// Deprecated: use top.Inspect.
func Inspect[V any](s state.Store, c codec.Codec, key []byte) (top.Probe[V], error) {
	return top.Inspect[V](s, c, key)
}
