package chain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"framestore/observability/metrics"
	"framestore/state"
	"framestore/storage"
	"framestore/storage/trie"
)

// Replay applies the block's operations to s in order. It stops at the first
// failing operation; s is left partially updated.
func Replay(ctx context.Context, s state.Store, b *Block) error {
	for i, op := range b.Ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := op.Apply(s); err != nil {
			return fmt.Errorf("block %d op %d (%s %x): %w", b.Number, i, op.Kind, op.Key, err)
		}
	}
	return nil
}

// parentRoot returns the state root b builds on. Block zero builds on the
// empty trie.
func parentRoot(blocks *BlockStore, b *Block) (common.Hash, error) {
	if b.Number == 0 {
		return gethtypes.EmptyRootHash, nil
	}
	parent, err := blocks.Block(HashID(b.ParentHash))
	if err != nil {
		return common.Hash{}, fmt.Errorf("parent of block %d: %w", b.Number, err)
	}
	return parent.StateRoot, nil
}

// CheckResult summarises a successful block check.
type CheckResult struct {
	Hash    common.Hash
	Number  uint64
	Root    common.Hash
	Elapsed time.Duration
}

// Checker re-executes stored blocks against their parent state and verifies
// the resulting state root.
type Checker struct {
	blocks  *BlockStore
	tries   *storage.TrieDatabase
	logger  *slog.Logger
	metrics *metrics.StorageMetrics
}

// NewChecker returns a checker reading blocks from blocks and state from
// tries. A nil logger falls back to slog.Default().
func NewChecker(blocks *BlockStore, tries *storage.TrieDatabase, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{blocks: blocks, tries: tries, logger: logger, metrics: metrics.Storage()}
}

// Check replays the block identified by id on top of its parent state
// without committing anything.
func (c *Checker) Check(ctx context.Context, id BlockID) (*CheckResult, error) {
	start := time.Now()
	b, err := c.blocks.Block(id)
	if err != nil {
		return nil, err
	}
	root, err := parentRoot(c.blocks, b)
	if err != nil {
		return nil, err
	}
	tr, err := trie.NewTrie(c.tries, root.Bytes())
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", root.Hex(), err)
	}
	store := state.NewMetered(state.NewTrieStore(tr), "trie")
	if err := Replay(ctx, store, b); err != nil {
		return nil, err
	}

	hash := b.Hash()
	got := tr.Hash()
	elapsed := time.Since(start)
	c.metrics.ObserveReplay(elapsed)
	if got != b.StateRoot {
		c.logger.Error("block check failed",
			"block", b.Number,
			"hash", hash.Hex(),
			"expected_root", b.StateRoot.Hex(),
			"computed_root", got.Hex())
		return nil, fmt.Errorf("%w: block %d expected %s, computed %s", ErrStateRootMismatch, b.Number, b.StateRoot.Hex(), got.Hex())
	}
	c.logger.Info("block check passed",
		"block", b.Number,
		"hash", hash.Hex(),
		"root", got.Hex(),
		"ops", len(b.Ops),
		"elapsed_ms", elapsed.Milliseconds())
	return &CheckResult{Hash: hash, Number: b.Number, Root: got, Elapsed: elapsed}, nil
}
