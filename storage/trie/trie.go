package trie

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/trie/trienode"

	"framestore/storage"
)

// Trie wraps go-ethereum's trie implementation to expose the raw byte
// get/update/delete primitives the state layer builds on, while keeping
// access to the underlying trie database.
//
// The wrapper keeps track of the last committed root and recreates the
// underlying trie after each commit/reset so the instance can be reused across
// blocks.
//
// Keys are used verbatim. Callers are responsible for any hashing, which
// keeps key prefixes meaningful for DeletePrefix.
//
// Trie is not safe for concurrent use.
type Trie struct {
	db   *storage.TrieDatabase
	trie *gethtrie.Trie
	root common.Hash
}

// NewTrie creates a trie backed by the provided node database and optional
// root. A nil or empty root denotes the empty trie.
func NewTrie(db *storage.TrieDatabase, root []byte) (*Trie, error) {
	rootHash := gethtypes.EmptyRootHash
	if len(root) > 0 {
		rootHash = common.BytesToHash(root)
	}
	underlying, err := gethtrie.New(gethtrie.TrieID(rootHash), db.Database)
	if err != nil {
		return nil, err
	}
	return &Trie{
		db:   db,
		trie: underlying,
		root: rootHash,
	}, nil
}

// Get retrieves a value from the trie for the provided key. A missing key
// yields a nil value and no error.
func (t *Trie) Get(key []byte) ([]byte, error) {
	return t.trie.Get(key)
}

// Update inserts or updates a value in the trie for the provided key. An
// empty value deletes the key, mirroring go-ethereum's semantics.
func (t *Trie) Update(key, value []byte) error {
	return t.trie.Update(key, value)
}

// Delete removes the key from the trie. Missing keys are ignored.
func (t *Trie) Delete(key []byte) error {
	return t.trie.Delete(key)
}

// DeletePrefix removes every leaf whose key starts with prefix and returns
// the number of removed keys. Keys are collected first since the node
// iterator must not observe its own deletions.
func (t *Trie) DeletePrefix(prefix []byte) (int, error) {
	keys, err := t.KeysWithPrefix(prefix)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := t.trie.Delete(key); err != nil {
			return 0, fmt.Errorf("delete %x: %w", key, err)
		}
	}
	return len(keys), nil
}

// KeysWithPrefix lists all keys starting with prefix in ascending byte order.
func (t *Trie) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	nodeIter, err := t.trie.NodeIterator(prefix)
	if err != nil {
		return nil, fmt.Errorf("node iterator: %w", err)
	}
	iterator := gethtrie.NewIterator(nodeIter)
	var keys [][]byte
	for iterator.Next() {
		if !bytes.HasPrefix(iterator.Key, prefix) {
			break
		}
		keys = append(keys, common.CopyBytes(iterator.Key))
	}
	if iterator.Err != nil {
		return nil, iterator.Err
	}
	return keys, nil
}

// Hash returns the root hash of the trie reflecting all in-memory mutations.
func (t *Trie) Hash() common.Hash {
	return t.trie.Hash()
}

// Root returns the last committed root hash.
func (t *Trie) Root() common.Hash {
	return t.root
}

// Reset discards any in-memory changes and reloads the trie at the provided
// root. It is primarily used to roll back speculative state transitions.
func (t *Trie) Reset(root common.Hash) error {
	underlying, err := gethtrie.New(gethtrie.TrieID(root), t.db.Database)
	if err != nil {
		return err
	}
	t.trie = underlying
	t.root = root
	return nil
}

// Copy creates a shallow copy of the trie wrapper using go-ethereum's trie
// cloning facilities. The returned trie shares the same underlying database but
// can be mutated independently.
func (t *Trie) Copy() *Trie {
	return &Trie{
		db:   t.db,
		trie: t.trie.Copy(),
		root: t.root,
	}
}

// Commit persists the trie changes to the backing database and returns the new
// root hash. After committing the wrapper recreates the underlying trie so it
// can be reused for subsequent transitions.
func (t *Trie) Commit(parent common.Hash, blockNumber uint64) (common.Hash, error) {
	newRoot, nodes := t.trie.Commit(false)
	if nodes != nil {
		merged := trienode.NewMergedNodeSet()
		if err := merged.Merge(nodes); err != nil {
			return common.Hash{}, err
		}
		if err := t.db.Update(newRoot, parent, blockNumber, merged, nil); err != nil {
			return common.Hash{}, err
		}
		if err := t.db.Commit(newRoot, false); err != nil {
			return common.Hash{}, err
		}
	}
	underlying, err := gethtrie.New(gethtrie.TrieID(newRoot), t.db.Database)
	if err != nil {
		return common.Hash{}, err
	}
	t.trie = underlying
	t.root = newRoot
	return newRoot, nil
}

// Database exposes the node database used by the trie.
func (t *Trie) Database() *storage.TrieDatabase {
	return t.db
}
