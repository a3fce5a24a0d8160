package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/tidwall/btree"
)

// ErrNotFound is returned by Get when the key is not present.
var ErrNotFound = errors.New("storage: key not found")

// Database is a generic interface for a raw key-value store.
// This allows the state layer to use any database backend (in-memory or persistent).
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	// DeletePrefix removes every key starting with prefix and reports how
	// many keys were removed.
	DeletePrefix(prefix []byte) (int, error)
	Close() // A way to gracefully shut down the database connection.
}

// --- In-Memory DB (for testing) ---

// MemDB keeps keys ordered so prefix deletions only touch the affected range.
type MemDB struct {
	mu   sync.RWMutex
	data btree.Map[string, []byte]
}

func NewMemDB() *MemDB {
	return &MemDB{}
}

func (db *MemDB) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data.Set(string(key), bytes.Clone(value))
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data.Get(string(key))
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (db *MemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data.Delete(string(key))
	return nil
}

func (db *MemDB) DeletePrefix(prefix []byte) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var doomed []string
	db.data.Ascend(string(prefix), func(key string, _ []byte) bool {
		if !bytes.HasPrefix([]byte(key), prefix) {
			return false
		}
		doomed = append(doomed, key)
		return true
	})
	for _, key := range doomed {
		db.data.Delete(key)
	}
	return len(doomed), nil
}

// Len returns the number of stored keys.
func (db *MemDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.data.Len()
}

// Close satisfies the Database interface for MemDB.
func (db *MemDB) Close() {
	// Nothing to close for an in-memory database.
}

// --- Persistent DB ---

// LevelDB is a persistent key-value store using LevelDB.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the specified path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Put inserts or updates a key-value pair.
func (ldb *LevelDB) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

// Get retrieves a value for a given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

// Delete removes a key. Deleting a missing key is not an error.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// DeletePrefix removes all keys sharing the prefix in a single batch.
func (ldb *LevelDB) DeletePrefix(prefix []byte) (int, error) {
	iter := ldb.db.NewIterator(util.BytesPrefix(prefix), nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(bytes.Clone(iter.Key()))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("leveldb: scan prefix %x: %w", prefix, err)
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	if err := ldb.db.Write(batch, nil); err != nil {
		return 0, err
	}
	return batch.Len(), nil
}

// Close closes the database connection.
func (ldb *LevelDB) Close() {
	ldb.db.Close()
}
