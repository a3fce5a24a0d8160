package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"framestore/hashing"
	rtstorage "framestore/runtime/storage"
	"framestore/state"
)

const module = "Chain"

// BlockStore keeps blocks, the canonical number index and an enumerable
// import log as ordinary storage items over a state.Store.
type BlockStore struct {
	store     state.Store
	blocks    rtstorage.StorageMap[common.Hash, Block]
	canonical rtstorage.StorageMap[uint64, common.Hash]
	best      rtstorage.StorageValue[uint64]
	imported  rtstorage.StorageLinkedMap[common.Hash, uint64]
}

// ImportRecord is one entry of the import log.
type ImportRecord struct {
	Hash   common.Hash
	Number uint64
}

// NewBlockStore declares the chain items over s.
func NewBlockStore(s state.Store, opts ...rtstorage.Option) *BlockStore {
	return &BlockStore{
		store: s,
		// Block hashes are already uniformly distributed.
		blocks:    rtstorage.NewStorageMap[common.Hash, Block](hashing.NewPrefix(module, "Blocks"), hashing.Identity, opts...),
		canonical: rtstorage.NewStorageMap[uint64, common.Hash](hashing.NewPrefix(module, "Canonical"), hashing.Twox64Concat, opts...),
		best:      rtstorage.NewStorageValue[uint64](hashing.NewPrefix(module, "Best"), opts...),
		imported:  rtstorage.NewStorageLinkedMap[common.Hash, uint64](hashing.NewPrefix(module, "Imported"), hashing.Identity, opts...),
	}
}

// Put stores b, makes it canonical at its number and records the import.
func (bs *BlockStore) Put(b *Block) (common.Hash, error) {
	hash := b.Hash()
	if err := bs.blocks.Insert(bs.store, hash, *b); err != nil {
		return common.Hash{}, fmt.Errorf("store block %d: %w", b.Number, err)
	}
	if err := bs.canonical.Insert(bs.store, b.Number, hash); err != nil {
		return common.Hash{}, fmt.Errorf("index block %d: %w", b.Number, err)
	}
	best, ok, err := bs.best.Get(bs.store)
	if err != nil {
		return common.Hash{}, err
	}
	if !ok || b.Number > best {
		if err := bs.best.Set(bs.store, b.Number); err != nil {
			return common.Hash{}, err
		}
	}
	if err := bs.imported.Insert(bs.store, hash, b.Number); err != nil {
		return common.Hash{}, fmt.Errorf("log import of block %d: %w", b.Number, err)
	}
	return hash, nil
}

// Block resolves id to a stored block.
func (bs *BlockStore) Block(id BlockID) (*Block, error) {
	hash := id.Hash
	if !id.ByHash {
		h, ok, err := bs.canonical.Get(bs.store, id.Number)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
		}
		hash = h
	}
	b, ok, err := bs.blocks.Get(bs.store, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	return &b, nil
}

// Best returns the highest stored block, or false when the store is empty.
func (bs *BlockStore) Best() (*Block, bool, error) {
	number, ok, err := bs.best.Get(bs.store)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := bs.Block(NumberID(number))
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Imported lists the import log, most recent first.
func (bs *BlockStore) Imported() ([]ImportRecord, error) {
	var out []ImportRecord
	it := bs.imported.Enumerate(bs.store)
	for it.Next() {
		out = append(out, ImportRecord{Hash: it.Key(), Number: it.Value()})
	}
	return out, it.Err()
}

// VerifyImportLog checks the links of the import log.
func (bs *BlockStore) VerifyImportLog() error {
	return bs.imported.Verify(bs.store)
}

// Forget drops the block with the given hash, its canonical index entry and
// its import log entry. Forgetting the best block moves Best to the highest
// remaining canonical block in the import log.
func (bs *BlockStore) Forget(hash common.Hash) error {
	b, ok, err := bs.blocks.Take(bs.store, hash)
	if err != nil || !ok {
		return err
	}
	canonical, ok, err := bs.canonical.Get(bs.store, b.Number)
	if err != nil {
		return err
	}
	if ok && canonical == hash {
		if err := bs.canonical.Remove(bs.store, b.Number); err != nil {
			return err
		}
	}
	if err := bs.imported.Remove(bs.store, hash); err != nil {
		return err
	}
	best, ok, err := bs.best.Get(bs.store)
	if err != nil || !ok || best != b.Number {
		return err
	}
	return bs.rewindBest()
}

// rewindBest walks the import log once, so its cost follows the number of
// stored blocks rather than their heights.
func (bs *BlockStore) rewindBest() error {
	var (
		best  uint64
		found bool
	)
	it := bs.imported.Enumerate(bs.store)
	for it.Next() {
		number := it.Value()
		if found && number <= best {
			continue
		}
		hash, ok, err := bs.canonical.Get(bs.store, number)
		if err != nil {
			return err
		}
		if ok && hash == it.Key() {
			best, found = number, true
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	if !found {
		return bs.best.Kill(bs.store)
	}
	return bs.best.Set(bs.store, best)
}
