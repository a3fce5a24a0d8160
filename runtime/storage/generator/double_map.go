package generator

import (
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// DoubleMap stores values keyed by a pair. The final key is
// prefix ++ h1(encode(k1)) ++ h2(encode(k2)).
//
// h1 is a FixedHasher so that the bytes up to and including h1(k1) form an
// unambiguous prefix: RemovePrefix(k1) can never reach an entry filed under
// another first key.
type DoubleMap[K1, K2, V any] struct {
	prefix  hashing.Prefix
	hasher1 hashing.FixedHasher
	hasher2 hashing.Hasher
	opts    options
}

// NewDoubleMap declares a storage double map.
func NewDoubleMap[K1, K2, V any](prefix hashing.Prefix, h1 hashing.FixedHasher, h2 hashing.Hasher, opts ...Option) DoubleMap[K1, K2, V] {
	return DoubleMap[K1, K2, V]{prefix: prefix, hasher1: h1, hasher2: h2, opts: buildOptions(opts)}
}

func (m DoubleMap[K1, K2, V]) Prefix() hashing.Prefix { return m.prefix }

// PrefixKey derives the key prefix shared by every entry under k1.
func (m DoubleMap[K1, K2, V]) PrefixKey(k1 K1) ([]byte, error) {
	encoded, err := encodeKey(m.opts.codec, k1)
	if err != nil {
		return nil, err
	}
	return hashing.DeriveKey(m.prefix, m.hasher1.Hash(encoded)), nil
}

// Key derives the final key of (k1, k2).
func (m DoubleMap[K1, K2, V]) Key(k1 K1, k2 K2) ([]byte, error) {
	first, err := m.PrefixKey(k1)
	if err != nil {
		return nil, err
	}
	encoded, err := encodeKey(m.opts.codec, k2)
	if err != nil {
		return nil, err
	}
	return append(first, m.hasher2.Hash(encoded)...), nil
}

func (m DoubleMap[K1, K2, V]) Get(s state.Store, k1 K1, k2 K2) (V, bool, error) {
	key, err := m.Key(k1, k2)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return top.Get[V](s, m.opts.codec, key)
}

func (m DoubleMap[K1, K2, V]) Inspect(s state.Store, k1 K1, k2 K2) (Probe[V], error) {
	key, err := m.Key(k1, k2)
	if err != nil {
		return Probe[V]{}, err
	}
	return top.Inspect[V](s, m.opts.codec, key)
}

func (m DoubleMap[K1, K2, V]) Insert(s state.Store, k1 K1, k2 K2, v V) error {
	key, err := m.Key(k1, k2)
	if err != nil {
		return err
	}
	return top.Put(s, m.opts.codec, key, v)
}

func (m DoubleMap[K1, K2, V]) Remove(s state.Store, k1 K1, k2 K2) error {
	key, err := m.Key(k1, k2)
	if err != nil {
		return err
	}
	return top.Kill(s, key)
}

func (m DoubleMap[K1, K2, V]) Take(s state.Store, k1 K1, k2 K2) (V, bool, error) {
	key, err := m.Key(k1, k2)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return top.Take[V](s, m.opts.codec, key)
}

func (m DoubleMap[K1, K2, V]) ContainsKey(s state.Store, k1 K1, k2 K2) (bool, error) {
	key, err := m.Key(k1, k2)
	if err != nil {
		return false, err
	}
	return top.Exists(s, key)
}

// Mutate applies f to the value of (k1, k2), or to the zero value when
// absent.
func (m DoubleMap[K1, K2, V]) Mutate(s state.Store, k1 K1, k2 K2, f func(V) V) error {
	return m.TryMutate(s, k1, k2, func(v V) (V, error) {
		return f(v), nil
	})
}

// TryMutate is Mutate with a fallible f. Nothing is written when f fails.
func (m DoubleMap[K1, K2, V]) TryMutate(s state.Store, k1 K1, k2 K2, f func(V) (V, error)) error {
	current, _, err := m.Get(s, k1, k2)
	if err != nil {
		return err
	}
	next, err := f(current)
	if err != nil {
		return err
	}
	return m.Insert(s, k1, k2, next)
}

// RemovePrefix removes every entry whose first key is k1 with a single
// prefix removal against the store.
func (m DoubleMap[K1, K2, V]) RemovePrefix(s state.Store, k1 K1) error {
	prefix, err := m.PrefixKey(k1)
	if err != nil {
		return err
	}
	return top.KillPrefix(s, prefix)
}
