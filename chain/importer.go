package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"framestore/codec"
	"framestore/state"
	"framestore/storage"
	"framestore/storage/trie"
)

// fixtureFile mirrors the YAML layout accepted by import-blocks.
type fixtureFile struct {
	Blocks []BlockFixture `yaml:"blocks"`
}

// BlockFixture describes a block to build. The state root is computed during
// import; when StateRoot is set it must match.
type BlockFixture struct {
	StateRoot string      `yaml:"state_root"`
	Ops       []OpFixture `yaml:"ops"`
}

// OpFixture is one operation of a fixture block. Key and Value are hex when
// prefixed with 0x and UTF-8 text otherwise. Amount, a decimal 256-bit
// integer, replaces Value with its RLP encoding.
type OpFixture struct {
	Op     string `yaml:"op"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Amount string `yaml:"amount"`
}

// LoadFixtures reads block fixtures from a YAML file.
func LoadFixtures(path string) ([]BlockFixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer file.Close()
	dec := yaml.NewDecoder(file)
	var parsed fixtureFile
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if len(parsed.Blocks) == 0 {
		return nil, fmt.Errorf("%w: fixture %s has no blocks", ErrInvalidInput, path)
	}
	return parsed.Blocks, nil
}

func (f OpFixture) toOp() (Op, error) {
	kind, err := ParseOpKind(f.Op)
	if err != nil {
		return Op{}, err
	}
	key, err := parseBytes(f.Key)
	if err != nil {
		return Op{}, fmt.Errorf("key: %w", err)
	}
	if len(key) == 0 && kind != OpRemovePrefix {
		return Op{}, fmt.Errorf("%w: %s requires a key", ErrInvalidInput, kind)
	}
	op := Op{Kind: kind, Key: key}
	if kind != OpSet {
		return op, nil
	}
	if amount := strings.TrimSpace(f.Amount); amount != "" {
		value, err := uint256.FromDecimal(amount)
		if err != nil {
			return Op{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidInput, f.Amount, err)
		}
		op.Value, err = codec.RLP.Encode(value)
		if err != nil {
			return Op{}, err
		}
		return op, nil
	}
	op.Value, err = parseBytes(f.Value)
	if err != nil {
		return Op{}, fmt.Errorf("value: %w", err)
	}
	if len(op.Value) == 0 {
		return Op{}, fmt.Errorf("%w: set %x requires a value", ErrInvalidInput, key)
	}
	return op, nil
}

func parseBytes(raw string) ([]byte, error) {
	if digits, ok := strings.CutPrefix(raw, "0x"); ok {
		out, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return out, nil
	}
	return []byte(raw), nil
}

// Importer executes fixture blocks on top of the best stored block, commits
// their state and stores them.
type Importer struct {
	blocks *BlockStore
	tries  *storage.TrieDatabase
	logger *slog.Logger
}

// NewImporter returns an importer. A nil logger falls back to slog.Default().
func NewImporter(blocks *BlockStore, tries *storage.TrieDatabase, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{blocks: blocks, tries: tries, logger: logger}
}

// ImportFile loads fixtures from path and imports them.
func (im *Importer) ImportFile(ctx context.Context, path string) ([]common.Hash, error) {
	fixtures, err := LoadFixtures(path)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, fixtures)
}

// Import builds, executes and stores each fixture in order. It stops at the
// first failure; blocks imported before it stay stored.
func (im *Importer) Import(ctx context.Context, fixtures []BlockFixture) ([]common.Hash, error) {
	hashes := make([]common.Hash, 0, len(fixtures))
	for i, fixture := range fixtures {
		hash, err := im.importOne(ctx, fixture)
		if err != nil {
			return hashes, fmt.Errorf("fixture %d: %w", i, err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (im *Importer) importOne(ctx context.Context, fixture BlockFixture) (common.Hash, error) {
	b := &Block{}
	parentState := gethtypes.EmptyRootHash
	parent, ok, err := im.blocks.Best()
	if err != nil {
		return common.Hash{}, err
	}
	if ok {
		b.Number = parent.Number + 1
		b.ParentHash = parent.Hash()
		parentState = parent.StateRoot
	}
	for j, raw := range fixture.Ops {
		op, err := raw.toOp()
		if err != nil {
			return common.Hash{}, fmt.Errorf("op %d: %w", j, err)
		}
		b.Ops = append(b.Ops, op)
	}

	tr, err := trie.NewTrie(im.tries, parentState.Bytes())
	if err != nil {
		return common.Hash{}, fmt.Errorf("open state %s: %w", parentState.Hex(), err)
	}
	if err := Replay(ctx, state.NewMetered(state.NewTrieStore(tr), "trie"), b); err != nil {
		return common.Hash{}, err
	}
	root, err := tr.Commit(parentState, b.Number)
	if err != nil {
		return common.Hash{}, fmt.Errorf("commit block %d: %w", b.Number, err)
	}
	if want := strings.TrimSpace(fixture.StateRoot); want != "" && common.HexToHash(want) != root {
		return common.Hash{}, fmt.Errorf("%w: block %d expected %s, computed %s", ErrStateRootMismatch, b.Number, want, root.Hex())
	}
	b.StateRoot = root

	hash, err := im.blocks.Put(b)
	if err != nil {
		return common.Hash{}, err
	}
	im.logger.Info("imported block",
		"block", b.Number,
		"hash", hash.Hex(),
		"root", root.Hex(),
		"ops", len(b.Ops))
	return hash, nil
}
