package state

import (
	"bytes"
	"fmt"

	"framestore/hashing"
)

// DefaultChildStorageKeyPrefix prefixes the location of every default child
// trie in the top trie.
var DefaultChildStorageKeyPrefix = []byte(":child_storage:default:")

// ChildType distinguishes the kinds of child tries. Only the default kind,
// addressed by its parent storage key, exists today.
type ChildType uint32

const (
	ChildTypeParentKeyID ChildType = iota + 1
)

// ParentPrefix returns the location reserved for this kind of child trie in
// the top trie.
func (ct ChildType) ParentPrefix() []byte {
	switch ct {
	case ChildTypeParentKeyID:
		return DefaultChildStorageKeyPrefix
	default:
		panic(fmt.Sprintf("state: unknown child type %d", ct))
	}
}

// ChildInfo identifies a child trie by its storage key.
type ChildInfo struct {
	childType  ChildType
	storageKey []byte
}

// NewDefaultChildInfo describes a default child trie stored under
// storageKey (without the default prefix).
func NewDefaultChildInfo(storageKey []byte) ChildInfo {
	if len(storageKey) == 0 {
		panic("state: child storage key must not be empty")
	}
	return ChildInfo{
		childType:  ChildTypeParentKeyID,
		storageKey: append([]byte(nil), storageKey...),
	}
}

// ChildInfoFromPrefixedKey parses a full child location back into a
// ChildInfo. It reports false for keys outside the child namespace.
func ChildInfoFromPrefixedKey(prefixed []byte) (ChildInfo, bool) {
	prefix := ChildTypeParentKeyID.ParentPrefix()
	if !bytes.HasPrefix(prefixed, prefix) || len(prefixed) == len(prefix) {
		return ChildInfo{}, false
	}
	return NewDefaultChildInfo(prefixed[len(prefix):]), true
}

// StorageKey is the unprefixed location of the child in its parent.
func (ci ChildInfo) StorageKey() []byte {
	return append([]byte(nil), ci.storageKey...)
}

// PrefixedStorageKey is the full location of the child in its parent.
func (ci ChildInfo) PrefixedStorageKey() []byte {
	prefix := ci.childType.ParentPrefix()
	out := make([]byte, 0, len(prefix)+len(ci.storageKey))
	out = append(out, prefix...)
	return append(out, ci.storageKey...)
}

// Keyspace isolates the child's keys in the shared backend: the default
// prefix followed by the Blake2_256 digest of the storage key. Every keyspace
// has the same length, so no child's keys fall inside another's.
func (ci ChildInfo) Keyspace() []byte {
	prefix := ci.childType.ParentPrefix()
	digest := hashing.Blake2_256.Hash(ci.storageKey)
	out := make([]byte, 0, len(prefix)+len(digest))
	out = append(out, prefix...)
	return append(out, digest...)
}

// ChildType returns the kind of the child trie.
func (ci ChildInfo) ChildType() ChildType {
	return ci.childType
}

// ChildStore is the Store of a child trie namespace inside a parent Store.
// Items address it exactly like the top trie: only the target changes.
type ChildStore struct {
	parent Store
	info   ChildInfo
	space  []byte
}

// NewChildStore scopes parent to the namespace of info.
func NewChildStore(parent Store, info ChildInfo) *ChildStore {
	return &ChildStore{parent: parent, info: info, space: info.Keyspace()}
}

// Info returns the child trie descriptor.
func (s *ChildStore) Info() ChildInfo {
	return s.info
}

func (s *ChildStore) key(key []byte) []byte {
	out := make([]byte, 0, len(s.space)+len(key))
	out = append(out, s.space...)
	return append(out, key...)
}

func (s *ChildStore) Get(key []byte) ([]byte, error) {
	return s.parent.Get(s.key(key))
}

func (s *ChildStore) Set(key, value []byte) error {
	return s.parent.Set(s.key(key), value)
}

func (s *ChildStore) Remove(key []byte) error {
	return s.parent.Remove(s.key(key))
}

func (s *ChildStore) RemovePrefix(prefix []byte) error {
	return s.parent.RemovePrefix(s.key(prefix))
}

// Kill removes the whole child namespace.
func (s *ChildStore) Kill() error {
	return s.parent.RemovePrefix(s.space)
}
