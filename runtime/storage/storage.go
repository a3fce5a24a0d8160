// Package storage is the import surface runtime modules use to declare their
// state. It re-exports the item types of package generator under the names
// modules have always used.
package storage

import (
	"framestore/hashing"
	"framestore/runtime/storage/generator"
)

type (
	StorageValue[V any]             = generator.Value[V]
	StorageMap[K, V any]            = generator.Map[K, V]
	StorageDoubleMap[K1, K2, V any] = generator.DoubleMap[K1, K2, V]
	StoragePrefixedMap[V any]       = generator.PrefixedMap[V]
	StorageLinkedMap[K, V any]      = generator.LinkedMap[K, V]
	LinkedMapIterator[K, V any]     = generator.Iterator[K, V]
	Probe[V any]                    = generator.Probe[V]
	Option                          = generator.Option
	ConsistencyFault                = generator.ConsistencyFault
)

// Deprecated: use StorageLinkedMap.
type EnumerableMap[K, V any] = generator.LinkedMap[K, V]

var (
	ErrConsistency = generator.ErrConsistency
	ErrEmptyKey    = generator.ErrEmptyKey

	WithCodec  = generator.WithCodec
	WithLogger = generator.WithLogger
)

func NewStorageValue[V any](prefix hashing.Prefix, opts ...Option) StorageValue[V] {
	return generator.NewValue[V](prefix, opts...)
}

func NewStorageMap[K, V any](prefix hashing.Prefix, hasher hashing.Hasher, opts ...Option) StorageMap[K, V] {
	return generator.NewMap[K, V](prefix, hasher, opts...)
}

func NewStorageDoubleMap[K1, K2, V any](prefix hashing.Prefix, h1 hashing.FixedHasher, h2 hashing.Hasher, opts ...Option) StorageDoubleMap[K1, K2, V] {
	return generator.NewDoubleMap[K1, K2, V](prefix, h1, h2, opts...)
}

func NewStoragePrefixedMap[V any](prefix hashing.Prefix, opts ...Option) StoragePrefixedMap[V] {
	return generator.NewPrefixedMap[V](prefix, opts...)
}

func NewStorageLinkedMap[K, V any](prefix hashing.Prefix, hasher hashing.Hasher, opts ...Option) StorageLinkedMap[K, V] {
	return generator.NewLinkedMap[K, V](prefix, hasher, opts...)
}

// Deprecated: use NewStorageLinkedMap.
func NewEnumerableMap[K, V any](prefix hashing.Prefix, hasher hashing.Hasher, opts ...Option) EnumerableMap[K, V] {
	return generator.NewLinkedMap[K, V](prefix, hasher, opts...)
}
