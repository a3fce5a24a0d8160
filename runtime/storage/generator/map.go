package generator

import (
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// Map stores one value per key at prefix ++ hasher(encode(key)).
//
// A Map is deliberately not enumerable: hashed keys carry no useful order
// and scanning them is expensive. Use LinkedMap when iteration is needed.
type Map[K, V any] struct {
	prefix hashing.Prefix
	hasher hashing.Hasher
	opts   options
}

// NewMap declares a storage map.
func NewMap[K, V any](prefix hashing.Prefix, hasher hashing.Hasher, opts ...Option) Map[K, V] {
	return Map[K, V]{prefix: prefix, hasher: hasher, opts: buildOptions(opts)}
}

func (m Map[K, V]) Prefix() hashing.Prefix { return m.prefix }

func (m Map[K, V]) Hasher() hashing.Hasher { return m.hasher }

// Key derives the final key of k.
func (m Map[K, V]) Key(k K) ([]byte, error) {
	encoded, err := encodeKey(m.opts.codec, k)
	if err != nil {
		return nil, err
	}
	return hashing.DeriveKey(m.prefix, m.hasher.Hash(encoded)), nil
}

func (m Map[K, V]) Get(s state.Store, k K) (V, bool, error) {
	key, err := m.Key(k)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return top.Get[V](s, m.opts.codec, key)
}

func (m Map[K, V]) Inspect(s state.Store, k K) (Probe[V], error) {
	key, err := m.Key(k)
	if err != nil {
		return Probe[V]{}, err
	}
	return top.Inspect[V](s, m.opts.codec, key)
}

func (m Map[K, V]) Insert(s state.Store, k K, v V) error {
	key, err := m.Key(k)
	if err != nil {
		return err
	}
	return top.Put(s, m.opts.codec, key, v)
}

func (m Map[K, V]) Remove(s state.Store, k K) error {
	key, err := m.Key(k)
	if err != nil {
		return err
	}
	return top.Kill(s, key)
}

func (m Map[K, V]) Take(s state.Store, k K) (V, bool, error) {
	key, err := m.Key(k)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return top.Take[V](s, m.opts.codec, key)
}

func (m Map[K, V]) ContainsKey(s state.Store, k K) (bool, error) {
	key, err := m.Key(k)
	if err != nil {
		return false, err
	}
	return top.Exists(s, key)
}

// Mutate applies f to the value of k, or to the zero value when absent.
func (m Map[K, V]) Mutate(s state.Store, k K, f func(V) V) error {
	return m.TryMutate(s, k, func(v V) (V, error) {
		return f(v), nil
	})
}

// TryMutate is Mutate with a fallible f. Nothing is written when f fails.
func (m Map[K, V]) TryMutate(s state.Store, k K, f func(V) (V, error)) error {
	current, _, err := m.Get(s, k)
	if err != nil {
		return err
	}
	next, err := f(current)
	if err != nil {
		return err
	}
	return m.Insert(s, k, next)
}

// MutateExists hands f the current value and whether it exists. The entry is
// stored when f returns true and removed otherwise.
func (m Map[K, V]) MutateExists(s state.Store, k K, f func(V, bool) (V, bool)) error {
	current, ok, err := m.Get(s, k)
	if err != nil {
		return err
	}
	next, keep := f(current, ok)
	if !keep {
		if !ok {
			return nil
		}
		return m.Remove(s, k)
	}
	return m.Insert(s, k, next)
}

// Swap exchanges the entries of k1 and k2. An absent side moves the other
// entry over.
func (m Map[K, V]) Swap(s state.Store, k1, k2 K) error {
	key1, err := m.Key(k1)
	if err != nil {
		return err
	}
	key2, err := m.Key(k2)
	if err != nil {
		return err
	}
	raw1, err := s.Get(key1)
	if err != nil {
		return err
	}
	raw2, err := s.Get(key2)
	if err != nil {
		return err
	}
	if err := putOrRemove(s, key1, raw2); err != nil {
		return err
	}
	return putOrRemove(s, key2, raw1)
}

func putOrRemove(s state.Store, key, raw []byte) error {
	if raw == nil {
		return s.Remove(key)
	}
	return s.Set(key, raw)
}
