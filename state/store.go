// Package state defines the raw key-value Store consumed by runtime storage
// items and the backends implementing it.
//
// A Store offers exact-key reads and writes plus prefix-scoped removal. It
// makes no ordering promises; storage items never depend on key order.
// Stores are used by a single state transition at a time and perform no
// internal synchronisation beyond what their backend provides.
package state

import (
	"errors"
	"fmt"

	"framestore/storage"
	"framestore/storage/trie"

	"github.com/ethereum/go-ethereum/common"
)

// Store is the raw key-value interface storage items are built on.
type Store interface {
	// Get returns the value stored under key, or nil when the key is absent.
	Get(key []byte) ([]byte, error)
	// Set stores value under key. Values must not be empty.
	Set(key, value []byte) error
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key []byte) error
	// RemovePrefix deletes every key starting with prefix.
	RemovePrefix(prefix []byte) error
}

// ErrEmptyValue is returned when a caller attempts to store an empty value.
// Backends cannot distinguish an empty value from an absent key.
var ErrEmptyValue = errors.New("state: empty values cannot be stored")

// TrieStore exposes a Merkle Patricia trie as a Store.
type TrieStore struct {
	trie *trie.Trie
}

// NewTrieStore wraps tr.
func NewTrieStore(tr *trie.Trie) *TrieStore {
	return &TrieStore{trie: tr}
}

func (s *TrieStore) Get(key []byte) ([]byte, error) {
	value, err := s.trie.Get(key)
	if err != nil {
		return nil, fmt.Errorf("trie get %x: %w", key, err)
	}
	if len(value) == 0 {
		return nil, nil
	}
	return value, nil
}

func (s *TrieStore) Set(key, value []byte) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}
	return s.trie.Update(key, value)
}

func (s *TrieStore) Remove(key []byte) error {
	return s.trie.Delete(key)
}

func (s *TrieStore) RemovePrefix(prefix []byte) error {
	_, err := s.trie.DeletePrefix(prefix)
	return err
}

// Root returns the hash of the trie including uncommitted changes.
func (s *TrieStore) Root() common.Hash {
	return s.trie.Hash()
}

// Trie exposes the wrapped trie, e.g. to commit it.
func (s *TrieStore) Trie() *trie.Trie {
	return s.trie
}

// KVStore exposes a plain key-value database as a Store.
type KVStore struct {
	db storage.Database
}

// NewKVStore wraps db.
func NewKVStore(db storage.Database) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *KVStore) Set(key, value []byte) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}
	return s.db.Put(key, value)
}

func (s *KVStore) Remove(key []byte) error {
	return s.db.Delete(key)
}

func (s *KVStore) RemovePrefix(prefix []byte) error {
	_, err := s.db.DeletePrefix(prefix)
	return err
}

// NewMemoryStore returns a Store backed by a fresh in-memory database.
func NewMemoryStore() *KVStore {
	return NewKVStore(storage.NewMemDB())
}
