package generator

import (
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// Value is a single typed value stored at the bare item prefix.
type Value[V any] struct {
	prefix hashing.Prefix
	opts   options
}

// NewValue declares a storage value.
func NewValue[V any](prefix hashing.Prefix, opts ...Option) Value[V] {
	return Value[V]{prefix: prefix, opts: buildOptions(opts)}
}

// Prefix returns the item descriptor.
func (v Value[V]) Prefix() hashing.Prefix { return v.prefix }

// Key returns the final key: the item prefix with no key material.
func (v Value[V]) Key() []byte {
	return hashing.DeriveKey(v.prefix)
}

// Get returns the stored value; false when absent. Decode failures are
// returned as errors and must abort the caller.
func (v Value[V]) Get(s state.Store) (V, bool, error) {
	return top.Get[V](s, v.opts.codec, v.Key())
}

// Inspect reads the value without failing on undecodable bytes.
func (v Value[V]) Inspect(s state.Store) (Probe[V], error) {
	return top.Inspect[V](s, v.opts.codec, v.Key())
}

func (v Value[V]) Set(s state.Store, value V) error {
	return top.Put(s, v.opts.codec, v.Key(), value)
}

// Take returns the stored value and removes it.
func (v Value[V]) Take(s state.Store) (V, bool, error) {
	return top.Take[V](s, v.opts.codec, v.Key())
}

// Mutate applies f to the stored value, or to the zero value when absent,
// and stores the result.
func (v Value[V]) Mutate(s state.Store, f func(V) V) error {
	return v.TryMutate(s, func(current V) (V, error) {
		return f(current), nil
	})
}

// TryMutate is Mutate with a fallible f. Nothing is written when f fails.
func (v Value[V]) TryMutate(s state.Store, f func(V) (V, error)) error {
	current, _, err := v.Get(s)
	if err != nil {
		return err
	}
	next, err := f(current)
	if err != nil {
		return err
	}
	return v.Set(s, next)
}

func (v Value[V]) Exists(s state.Store) (bool, error) {
	return top.Exists(s, v.Key())
}

// Kill removes the value.
func (v Value[V]) Kill(s state.Store) error {
	return top.Kill(s, v.Key())
}
