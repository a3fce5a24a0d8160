package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"framestore/chain"
	"framestore/codec"
	"framestore/config"
	"framestore/observability/logging"
	rtstorage "framestore/runtime/storage"
	"framestore/state"
	"framestore/storage"
)

var configFlag = cli.StringFlag{
	Name:  "config",
	Usage: "path to the framectl configuration file",
	Value: "./framectl.toml",
}

// environment holds the stores one command invocation works against.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	codec  codec.Codec
	blocks *chain.BlockStore
	tries  *storage.TrieDatabase
	closer func() error
}

// open loads the configuration and opens its stores. The memory backend
// starts empty on every invocation, so it only serves import-blocks (and
// in-process use of the chain package).
func open(ctx *cli.Context) (*environment, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openStores(cfg)
}

// openExisting is open for commands that read blocks written by an earlier
// run. It refuses the memory backend, which could never hold them.
func openExisting(ctx *cli.Context) (*environment, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Backend == config.BackendMemory {
		return nil, cli.Exit(fmt.Sprintf("%s needs a persistent backend: Backend = %q keeps nothing between runs", ctx.Command.Name, config.BackendMemory), 2)
	}
	return openStores(cfg)
}

func openStores(cfg *config.Config) (*environment, error) {
	logger := logging.Setup("framectl", cfg.LogEnv)
	c, err := codec.Lookup(cfg.Codec)
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, logger: logger, codec: c}

	var meta state.Store
	switch cfg.Backend {
	case config.BackendMemory:
		meta = state.NewMemoryStore()
		env.tries = storage.NewMemoryTrieDB()
		env.closer = env.tries.Close
	case config.BackendLevelDB:
		ldb, err := storage.NewLevelDB(cfg.BlocksPath())
		if err != nil {
			return nil, fmt.Errorf("open block store: %w", err)
		}
		tries, err := storage.OpenTrieDB(cfg.StatePath())
		if err != nil {
			ldb.Close()
			return nil, err
		}
		meta = state.NewKVStore(ldb)
		env.tries = tries
		env.closer = func() error {
			ldb.Close()
			return tries.Close()
		}
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}

	env.blocks = chain.NewBlockStore(state.NewMetered(meta, cfg.Backend), rtstorage.WithCodec(c), rtstorage.WithLogger(logger))
	logger.Info("opened stores", "backend", cfg.Backend, "codec", c.Name(), "data_dir", cfg.DataDir)
	return env, nil
}

// close releases the stores, keeping the first error seen.
func (e *environment) close(err *error) {
	if e.closer == nil {
		return
	}
	if closeErr := e.closer(); closeErr != nil {
		if *err == nil {
			*err = closeErr
		} else {
			e.logger.Error("failed to close stores", "error", closeErr)
		}
	}
}

// inputError turns boundary errors into plain exit messages.
func inputError(err error) error {
	if errors.Is(err, chain.ErrInvalidInput) {
		return cli.Exit(err.Error(), 2)
	}
	return err
}
