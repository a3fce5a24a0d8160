package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"framestore/codec"
)

// Validate rejects unknown backend or codec names and malformed state roots.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendLevelDB:
	default:
		return fmt.Errorf("config: unknown Backend %q (want %s or %s)", c.Backend, BackendMemory, BackendLevelDB)
	}
	if _, err := codec.Lookup(c.Codec); err != nil {
		return fmt.Errorf("config: Codec: %w", err)
	}
	if root := strings.TrimSpace(c.StateRoot); root != "" {
		digits := strings.TrimPrefix(root, "0x")
		if len(digits) != 2*common.HashLength || !isHex(digits) {
			return fmt.Errorf("config: StateRoot %q is not a 32-byte hex hash", c.StateRoot)
		}
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
