package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"framestore/chain"
	"framestore/codec"
	"framestore/hashing"
	"framestore/runtime/storage/top"
	"framestore/state"
	"framestore/storage/trie"
)

var (
	moduleFlag = cli.StringFlag{
		Name:     "module",
		Usage:    "module name of the storage item",
		Required: true,
	}
	itemFlag = cli.StringFlag{
		Name:     "item",
		Usage:    "item name within the module",
		Required: true,
	}
	hasherFlag = cli.StringFlag{
		Name:  "hasher",
		Usage: "key hasher of a map item (e.g. blake2_128concat, twox64concat, identity); empty for a value item",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex of the encoded key, appended after hashing",
	}
	typeFlag = cli.StringFlag{
		Name:  "type",
		Usage: "type to decode the entry as: bytes, string, uint64, u256 or hash",
		Value: "bytes",
	}
	rootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "state root to read; defaults to the configured StateRoot, then the best block",
	}
)

var inspectCommand = cli.Command{
	Action: inspect,
	Name:   "inspect",
	Usage:  "prints the raw and decoded entry of a storage item",
	Flags: []cli.Flag{
		&moduleFlag,
		&itemFlag,
		&hasherFlag,
		&keyFlag,
		&typeFlag,
		&rootFlag,
	},
}

func inspect(ctx *cli.Context) (err error) {
	key, err := itemKey(ctx)
	if err != nil {
		return inputError(err)
	}
	env, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer env.close(&err)

	root, err := inspectRoot(ctx, env)
	if err != nil {
		return inputError(err)
	}
	tr, err := trie.NewTrie(env.tries, root.Bytes())
	if err != nil {
		return fmt.Errorf("open state %s: %w", root.Hex(), err)
	}

	report, err := probe(state.NewTrieStore(tr), env.codec, key, ctx.String(typeFlag.Name))
	if err != nil {
		return inputError(err)
	}
	w := ctx.App.Writer
	fmt.Fprintf(w, "root:    %s\n", root.Hex())
	fmt.Fprintf(w, "key:     0x%x\n", key)
	fmt.Fprintf(w, "present: %t\n", report.present)
	if !report.present {
		return nil
	}
	fmt.Fprintf(w, "raw:     0x%x\n", report.raw)
	if report.decodeErr != nil {
		fmt.Fprintf(w, "error:   %v\n", report.decodeErr)
		return nil
	}
	fmt.Fprintf(w, "decoded: %s\n", report.decoded)
	return nil
}

func itemKey(ctx *cli.Context) ([]byte, error) {
	module := strings.TrimSpace(ctx.String(moduleFlag.Name))
	item := strings.TrimSpace(ctx.String(itemFlag.Name))
	if module == "" || item == "" {
		return nil, fmt.Errorf("%w: --module and --item must not be empty", chain.ErrInvalidInput)
	}
	prefix := hashing.NewPrefix(module, item)

	hasherName := strings.TrimSpace(ctx.String(hasherFlag.Name))
	rawKey := strings.TrimPrefix(strings.TrimSpace(ctx.String(keyFlag.Name)), "0x")
	if hasherName == "" {
		if rawKey != "" {
			return nil, fmt.Errorf("%w: --key requires --hasher", chain.ErrInvalidInput)
		}
		return hashing.DeriveKey(prefix), nil
	}
	hasher, err := hashing.Lookup(hasherName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chain.ErrInvalidInput, err)
	}
	encoded, err := hex.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("%w: --key: %v", chain.ErrInvalidInput, err)
	}
	return hashing.DeriveKey(prefix, hasher.Hash(encoded)), nil
}

func inspectRoot(ctx *cli.Context, env *environment) (common.Hash, error) {
	for _, candidate := range []string{ctx.String(rootFlag.Name), env.cfg.StateRoot} {
		if candidate = strings.TrimSpace(candidate); candidate == "" {
			continue
		}
		id, err := chain.ParseBlockID(candidate)
		if err != nil || !id.ByHash {
			return common.Hash{}, fmt.Errorf("%w: state root %q", chain.ErrInvalidInput, candidate)
		}
		return id.Hash, nil
	}
	best, ok, err := env.blocks.Best()
	if err != nil {
		return common.Hash{}, err
	}
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: no blocks imported and no state root given", chain.ErrInvalidInput)
	}
	return best.StateRoot, nil
}

type probeReport struct {
	present   bool
	raw       []byte
	decoded   string
	decodeErr error
}

func probe(s state.Store, c codec.Codec, key []byte, typ string) (probeReport, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "bytes":
		return probeAs(s, c, key, func(v []byte) string { return "0x" + hex.EncodeToString(v) })
	case "string":
		return probeAs(s, c, key, func(v string) string { return fmt.Sprintf("%q", v) })
	case "uint64":
		return probeAs(s, c, key, func(v uint64) string { return fmt.Sprint(v) })
	case "u256":
		return probeAs(s, c, key, func(v *uint256.Int) string { return v.Dec() })
	case "hash":
		return probeAs(s, c, key, func(v common.Hash) string { return v.Hex() })
	default:
		return probeReport{}, fmt.Errorf("%w: unknown --type %q", chain.ErrInvalidInput, typ)
	}
}

func probeAs[V any](s state.Store, c codec.Codec, key []byte, format func(V) string) (probeReport, error) {
	p, err := top.Inspect[V](s, c, key)
	if err != nil {
		return probeReport{}, err
	}
	report := probeReport{present: p.Present, raw: p.Raw, decodeErr: p.DecodeErr}
	if p.Decoded() {
		report.decoded = format(p.Value)
	}
	return report, nil
}
