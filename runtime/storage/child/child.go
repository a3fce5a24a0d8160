// Package child reads and writes typed values inside a child trie namespace.
// Keys are used exactly as in the top trie; only the target trie differs.
package child

import (
	"framestore/codec"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// Store returns the namespaced Store of info inside parent. Storage items
// can be pointed at it to live in the child trie.
func Store(parent state.Store, info state.ChildInfo) *state.ChildStore {
	return state.NewChildStore(parent, info)
}

func Get[V any](parent state.Store, info state.ChildInfo, c codec.Codec, key []byte) (V, bool, error) {
	return top.Get[V](Store(parent, info), c, key)
}

func Inspect[V any](parent state.Store, info state.ChildInfo, c codec.Codec, key []byte) (top.Probe[V], error) {
	return top.Inspect[V](Store(parent, info), c, key)
}

func Put[V any](parent state.Store, info state.ChildInfo, c codec.Codec, key []byte, v V) error {
	return top.Put(Store(parent, info), c, key, v)
}

func Take[V any](parent state.Store, info state.ChildInfo, c codec.Codec, key []byte) (V, bool, error) {
	return top.Take[V](Store(parent, info), c, key)
}

func Exists(parent state.Store, info state.ChildInfo, key []byte) (bool, error) {
	return top.Exists(Store(parent, info), key)
}

func Kill(parent state.Store, info state.ChildInfo, key []byte) error {
	return top.Kill(Store(parent, info), key)
}

func KillPrefix(parent state.Store, info state.ChildInfo, prefix []byte) error {
	return top.KillPrefix(Store(parent, info), prefix)
}

// KillStorage removes every key of the child trie.
func KillStorage(parent state.Store, info state.ChildInfo) error {
	return Store(parent, info).Kill()
}

func GetRaw(parent state.Store, info state.ChildInfo, key []byte) ([]byte, error) {
	return top.GetRaw(Store(parent, info), key)
}

func PutRaw(parent state.Store, info state.ChildInfo, key, value []byte) error {
	return top.PutRaw(Store(parent, info), key, value)
}
