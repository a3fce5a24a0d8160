// Package hashing derives the final store keys of runtime storage items.
//
// A final key is the concatenation of a fixed 32-byte item prefix (module and
// item names, each hashed with Twox128) and the hashed encodings of the item's
// logical keys. Fixed-length hashers are the only ones allowed where a key
// prefix must be unambiguous, which the FixedHasher type enforces.
package hashing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// ErrUnknownHasher is returned by Lookup for unregistered hasher names.
var ErrUnknownHasher = errors.New("hashing: unknown hasher")

// Hasher maps encoded key material to the bytes appended to a final key.
type Hasher interface {
	Hash(data []byte) []byte
	Name() string
}

// FixedHasher is a Hasher whose output always has the same length. Only
// fixed hashers can sit in front of further key material that a prefix
// removal must be able to cut at.
type FixedHasher interface {
	Hasher
	Size() int
}

// Cryptographic hashers. Keys hashed with them cannot be steered by an
// adversary who only observes final keys.
var (
	Blake2_128       FixedHasher = blake2Hasher{size: 16, name: "blake2_128"}
	Blake2_256       FixedHasher = blake2Hasher{size: 32, name: "blake2_256"}
	Blake2_128Concat Hasher      = concatHasher{inner: blake2Hasher{size: 16, name: "blake2_128"}, name: "blake2_128concat"}
	Keccak256        FixedHasher = keccakHasher{}
	Blake3_256       FixedHasher = blake3Hasher{}
)

// Fast non-cryptographic hashers built on xxHash64.
var (
	Twox64Concat Hasher      = concatHasher{inner: twoxHasher{lanes: 1, name: "twox64"}, name: "twox64concat"}
	Twox128      FixedHasher = twoxHasher{lanes: 2, name: "twox128"}
	Twox256      FixedHasher = twoxHasher{lanes: 4, name: "twox256"}
)

// Identity appends key material unchanged. Its output length depends on the
// key, so it can never be a FixedHasher.
var Identity Hasher = identityHasher{}

var registry = map[string]Hasher{}

func init() {
	for _, h := range []Hasher{
		Blake2_128, Blake2_256, Blake2_128Concat, Keccak256, Blake3_256,
		Twox64Concat, Twox128, Twox256, Identity,
	} {
		registry[h.Name()] = h
	}
}

// Lookup resolves a hasher by name, case-insensitively.
func Lookup(name string) (Hasher, error) {
	h, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
	return h, nil
}

// LookupFixed resolves a hasher by name and requires it to be fixed-length.
func LookupFixed(name string) (FixedHasher, error) {
	h, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	fixed, ok := h.(FixedHasher)
	if !ok {
		return nil, fmt.Errorf("hashing: %s has variable-length output", h.Name())
	}
	return fixed, nil
}

type blake2Hasher struct {
	size int
	name string
}

func (h blake2Hasher) Hash(data []byte) []byte {
	if h.size == 32 {
		sum := blake2b.Sum256(data)
		return sum[:]
	}
	d, err := blake2b.New(h.size, nil)
	if err != nil {
		// sizes are fixed at definition time and always valid
		panic(err)
	}
	d.Write(data)
	return d.Sum(nil)
}

func (h blake2Hasher) Size() int    { return h.size }
func (h blake2Hasher) Name() string { return h.name }

type keccakHasher struct{}

func (keccakHasher) Hash(data []byte) []byte { return ethcrypto.Keccak256(data) }
func (keccakHasher) Size() int               { return 32 }
func (keccakHasher) Name() string            { return "keccak256" }

type blake3Hasher struct{}

func (blake3Hasher) Hash(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}
func (blake3Hasher) Size() int    { return 32 }
func (blake3Hasher) Name() string { return "blake3_256" }

// twoxHasher concatenates little-endian xxHash64 digests seeded 0..lanes-1.
type twoxHasher struct {
	lanes int
	name  string
}

func (h twoxHasher) Hash(data []byte) []byte {
	out := make([]byte, 0, 8*h.lanes)
	for seed := 0; seed < h.lanes; seed++ {
		d := xxhash.NewWithSeed(uint64(seed))
		d.Write(data)
		out = binary.LittleEndian.AppendUint64(out, d.Sum64())
	}
	return out
}

func (h twoxHasher) Size() int    { return 8 * h.lanes }
func (h twoxHasher) Name() string { return h.name }

// concatHasher appends the raw key after its digest, which keeps the key
// recoverable from the final key.
type concatHasher struct {
	inner FixedHasher
	name  string
}

func (h concatHasher) Hash(data []byte) []byte {
	digest := h.inner.Hash(data)
	out := make([]byte, 0, len(digest)+len(data))
	out = append(out, digest...)
	return append(out, data...)
}

func (h concatHasher) Name() string { return h.name }

// Reverse strips the digest from a hashed key and returns the raw material.
func (h concatHasher) Reverse(hashed []byte) ([]byte, error) {
	size := h.inner.Size()
	if len(hashed) < size {
		return nil, fmt.Errorf("hashing: %s key shorter than its %d-byte digest", h.name, size)
	}
	return hashed[size:], nil
}

type identityHasher struct{}

func (identityHasher) Hash(data []byte) []byte { return append([]byte(nil), data...) }
func (identityHasher) Name() string            { return "identity" }
func (identityHasher) Reverse(hashed []byte) ([]byte, error) {
	return hashed, nil
}

// ReversibleHasher is implemented by hashers that keep the raw key material
// in their output.
type ReversibleHasher interface {
	Hasher
	Reverse(hashed []byte) ([]byte, error)
}
