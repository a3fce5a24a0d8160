package hashing

import (
	"bytes"
	"fmt"
	"strings"
)

// PrefixSize is the length of every item prefix: two Twox128 digests.
const PrefixSize = 32

// Prefix identifies a storage item: the module that owns it and the item's
// name within that module. Both are definition-time constants.
type Prefix struct {
	Module string
	Item   string
	bytes  [PrefixSize]byte
}

// NewPrefix builds the descriptor of a storage item. Empty names are a
// definition error and panic.
func NewPrefix(module, item string) Prefix {
	if strings.TrimSpace(module) == "" || strings.TrimSpace(item) == "" {
		panic(fmt.Sprintf("hashing: storage prefix requires module and item names, got %q/%q", module, item))
	}
	p := Prefix{Module: module, Item: item}
	copy(p.bytes[:16], Twox128.Hash([]byte(module)))
	copy(p.bytes[16:], Twox128.Hash([]byte(item)))
	return p
}

// Bytes returns Twox128(module) ++ Twox128(item).
func (p Prefix) Bytes() []byte {
	out := make([]byte, PrefixSize)
	copy(out, p.bytes[:])
	return out
}

// ModuleBytes returns the 16-byte module half of the prefix.
func (p Prefix) ModuleBytes() []byte {
	return append([]byte(nil), p.bytes[:16]...)
}

// String formats the prefix as module::item.
func (p Prefix) String() string {
	return p.Module + "::" + p.Item
}

// IsZero reports whether the prefix was never initialised with NewPrefix.
func (p Prefix) IsZero() bool {
	return p.bytes == [PrefixSize]byte{}
}

// DeriveKey concatenates the item prefix with already hashed key material.
// Without material the result is the bare prefix, which is the final key of
// single values and of linked map head pointers.
func DeriveKey(p Prefix, material ...[]byte) []byte {
	size := PrefixSize
	for _, m := range material {
		size += len(m)
	}
	out := make([]byte, 0, size)
	out = append(out, p.bytes[:]...)
	for _, m := range material {
		out = append(out, m...)
	}
	return out
}

// HashKey hashes encoded key material with h.
func HashKey(h Hasher, encoded []byte) []byte {
	return h.Hash(encoded)
}

// HasPrefix reports whether key was derived from p.
func HasPrefix(key []byte, p Prefix) bool {
	return bytes.HasPrefix(key, p.bytes[:])
}

// Suffix strips the item prefix from key.
func Suffix(key []byte, p Prefix) ([]byte, error) {
	if !HasPrefix(key, p) {
		return nil, fmt.Errorf("hashing: key %x is not under %s", key, p)
	}
	return key[PrefixSize:], nil
}
