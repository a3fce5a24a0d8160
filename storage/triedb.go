package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/triedb"
)

const (
	trieCacheMB     = 16
	trieFileHandles = 16
	trieDBNamespace = "framestore/trie/"
)

// TrieDatabase bundles the node database used by state tries with the raw
// key-value store holding the nodes, so both can be released together.
type TrieDatabase struct {
	*triedb.Database
	disk ethdb.Database
}

// NewMemoryTrieDB returns a trie database that keeps every node in memory.
func NewMemoryTrieDB() *TrieDatabase {
	disk := rawdb.NewDatabase(memorydb.New())
	return &TrieDatabase{
		Database: triedb.NewDatabase(disk, triedb.HashDefaults),
		disk:     disk,
	}
}

// OpenTrieDB opens (or creates) a persistent trie database rooted at path.
func OpenTrieDB(path string) (*TrieDatabase, error) {
	kv, err := leveldb.New(path, trieCacheMB, trieFileHandles, trieDBNamespace, false)
	if err != nil {
		return nil, fmt.Errorf("open trie database %s: %w", path, err)
	}
	disk := rawdb.NewDatabase(kv)
	return &TrieDatabase{
		Database: triedb.NewDatabase(disk, triedb.HashDefaults),
		disk:     disk,
	}, nil
}

// Close releases the node database and the underlying key-value store.
func (db *TrieDatabase) Close() error {
	if err := db.Database.Close(); err != nil {
		return err
	}
	return db.disk.Close()
}
