package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
)

// Config holds the settings shared by framectl commands.
type Config struct {
	DataDir string `toml:"DataDir"`
	// Backend selects where block metadata and state tries live: "memory"
	// or "leveldb".
	Backend string `toml:"Backend"`
	// Codec names the value codec storage items use: "rlp" or "scale".
	Codec  string `toml:"Codec"`
	LogEnv string `toml:"LogEnv"`
	// StateRoot optionally pins the state root inspect reads from. Empty
	// means the state root of the best stored block.
	StateRoot string `toml:"StateRoot,omitempty"`
}

// Default returns the configuration written when no file exists.
func Default() *Config {
	return &Config{
		DataDir: "./framestore-data",
		Backend: BackendLevelDB,
		Codec:   "rlp",
		LogEnv:  "local",
	}
}

// Load loads the configuration from the given path. A missing file is
// created with default values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	defaults := Default()
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaults.DataDir
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}
	cfg.Codec = strings.ToLower(strings.TrimSpace(cfg.Codec))
	if cfg.Codec == "" {
		cfg.Codec = defaults.Codec
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BlocksPath is the LevelDB directory holding block metadata.
func (c *Config) BlocksPath() string {
	return filepath.Join(c.DataDir, "blocks")
}

// StatePath is the LevelDB directory holding state trie nodes.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state")
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
