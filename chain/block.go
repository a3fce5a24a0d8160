// Package chain drives storage items with whole blocks: a block is an ordered
// list of raw state writes plus the state root they must produce. It backs the
// check-block and import-blocks commands.
package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"framestore/state"
)

var (
	// ErrInvalidInput reports malformed user input at the command boundary.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBlockNotFound is returned when a block id does not resolve.
	ErrBlockNotFound = errors.New("block not found")
	// ErrStateRootMismatch is returned when replaying a block does not
	// reproduce its recorded state root.
	ErrStateRootMismatch = errors.New("state root mismatch")
)

// OpKind selects the store operation an Op performs.
type OpKind uint8

const (
	OpSet OpKind = iota
	OpRemove
	OpRemovePrefix
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpRemove:
		return "remove"
	case OpRemovePrefix:
		return "remove_prefix"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// ParseOpKind maps the fixture spelling of an operation to its kind.
func ParseOpKind(name string) (OpKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "set":
		return OpSet, nil
	case "remove":
		return OpRemove, nil
	case "remove_prefix":
		return OpRemovePrefix, nil
	default:
		return 0, fmt.Errorf("%w: unknown op %q", ErrInvalidInput, name)
	}
}

// Op is a single raw state write.
type Op struct {
	Kind  OpKind
	Key   []byte
	Value []byte
}

// Apply performs the operation against s.
func (op Op) Apply(s state.Store) error {
	switch op.Kind {
	case OpSet:
		return s.Set(op.Key, op.Value)
	case OpRemove:
		return s.Remove(op.Key)
	case OpRemovePrefix:
		return s.RemovePrefix(op.Key)
	default:
		return fmt.Errorf("apply %s: unsupported operation", op.Kind)
	}
}

// Block is a numbered batch of state writes anchored to its parent.
type Block struct {
	Number     uint64
	ParentHash common.Hash
	StateRoot  common.Hash
	Ops        []Op
}

// Hash returns keccak256 of the RLP encoding of the block.
func (b *Block) Hash() common.Hash {
	encoded, err := rlp.EncodeToBytes(b)
	if err != nil {
		// Every field has an RLP representation.
		panic(fmt.Sprintf("chain: encode block %d: %v", b.Number, err))
	}
	return crypto.Keccak256Hash(encoded)
}

// BlockID addresses a block by hash or by number.
type BlockID struct {
	Hash   common.Hash
	Number uint64
	ByHash bool
}

// HashID addresses a block by hash.
func HashID(h common.Hash) BlockID { return BlockID{Hash: h, ByHash: true} }

// NumberID addresses the canonical block at number n.
func NumberID(n uint64) BlockID { return BlockID{Number: n} }

func (id BlockID) String() string {
	if id.ByHash {
		return id.Hash.Hex()
	}
	return strconv.FormatUint(id.Number, 10)
}

// ParseBlockID accepts a 32-byte hex hash, with or without a 0x prefix, or
// a decimal block number that fits in 32 bits.
func ParseBlockID(input string) (BlockID, error) {
	trimmed := strings.TrimSpace(input)
	digits := strings.TrimPrefix(trimmed, "0x")
	if len(digits) == 2*common.HashLength {
		if raw, err := hex.DecodeString(digits); err == nil {
			return HashID(common.BytesToHash(raw)), nil
		}
	}
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return BlockID{}, fmt.Errorf("%w: invalid hash or number specified", ErrInvalidInput)
	}
	return NumberID(n), nil
}
