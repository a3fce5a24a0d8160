// Package generator implements the typed storage items runtime modules
// declare: single values, maps, double maps, raw-keyed prefixed maps and
// enumerable linked maps.
//
// Items are small immutable descriptors. They carry their prefix, hashers
// and codec but never a store: every operation takes the state.Store it acts
// on, so one descriptor can serve the top trie, a child trie or a scratch
// store alike.
package generator

import (
	"errors"
	"fmt"
	"log/slog"

	"framestore/codec"
	"framestore/runtime/storage/top"
)

// ErrConsistency matches every ConsistencyFault.
var ErrConsistency = errors.New("storage: consistency fault")

// ErrEmptyKey is returned when a linked map key hashes to nothing, which
// would make the node collide with the head pointer.
var ErrEmptyKey = errors.New("storage: linked map key material is empty")

// Probe is the tooling-facing read result; see top.Probe.
type Probe[V any] = top.Probe[V]

// ConsistencyFault reports a violated linked list invariant: a pointer to a
// missing node, a pointer not mirrored by its target, or a cycle. It is never
// recoverable; the state written by some earlier operation is corrupt.
type ConsistencyFault struct {
	Item   string
	Key    []byte
	Reason string
}

func (f *ConsistencyFault) Error() string {
	return fmt.Sprintf("storage: linked map %s: node %x: %s", f.Item, f.Key, f.Reason)
}

func (f *ConsistencyFault) Is(target error) bool { return target == ErrConsistency }

// Option customises an item at definition time.
type Option func(*options)

type options struct {
	codec  codec.Codec
	logger *slog.Logger
}

// WithCodec selects the value codec. The default is codec.RLP.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger routes the item's diagnostics to logger instead of
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{codec: codec.RLP}
	for _, opt := range opts {
		opt(&o)
	}
	o.codec = codec.Or(o.codec)
	return o
}

func (o options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// encodeKey encodes logical key material with the item codec.
func encodeKey[K any](c codec.Codec, k K) ([]byte, error) {
	data, err := codec.Encode(c, k)
	if err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}
	return data, nil
}
