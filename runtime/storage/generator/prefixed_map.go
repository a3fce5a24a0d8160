package generator

import (
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// PrefixedMap stores values under raw, caller-supplied key bytes appended to
// the item prefix. The caller owns the key layout, including making any
// prefix used with RemovePrefix unambiguous.
type PrefixedMap[V any] struct {
	prefix hashing.Prefix
	opts   options
}

// NewPrefixedMap declares a raw-keyed storage map.
func NewPrefixedMap[V any](prefix hashing.Prefix, opts ...Option) PrefixedMap[V] {
	return PrefixedMap[V]{prefix: prefix, opts: buildOptions(opts)}
}

func (m PrefixedMap[V]) Prefix() hashing.Prefix { return m.prefix }

// Key returns prefix ++ raw.
func (m PrefixedMap[V]) Key(raw []byte) []byte {
	return hashing.DeriveKey(m.prefix, raw)
}

func (m PrefixedMap[V]) Get(s state.Store, raw []byte) (V, bool, error) {
	return top.Get[V](s, m.opts.codec, m.Key(raw))
}

func (m PrefixedMap[V]) Inspect(s state.Store, raw []byte) (Probe[V], error) {
	return top.Inspect[V](s, m.opts.codec, m.Key(raw))
}

func (m PrefixedMap[V]) Insert(s state.Store, raw []byte, v V) error {
	return top.Put(s, m.opts.codec, m.Key(raw), v)
}

func (m PrefixedMap[V]) Remove(s state.Store, raw []byte) error {
	return top.Kill(s, m.Key(raw))
}

func (m PrefixedMap[V]) Take(s state.Store, raw []byte) (V, bool, error) {
	return top.Take[V](s, m.opts.codec, m.Key(raw))
}

func (m PrefixedMap[V]) ContainsKey(s state.Store, raw []byte) (bool, error) {
	return top.Exists(s, m.Key(raw))
}

// RemovePrefix removes every entry whose raw key starts with raw.
func (m PrefixedMap[V]) RemovePrefix(s state.Store, raw []byte) error {
	return top.KillPrefix(s, m.Key(raw))
}

// RemoveAll removes every entry of the item.
func (m PrefixedMap[V]) RemoveAll(s state.Store) error {
	return top.KillPrefix(s, hashing.DeriveKey(m.prefix))
}
