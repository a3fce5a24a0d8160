package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"framestore/chain"
	"framestore/codec"
	"framestore/hashing"
)

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "framectl.toml")
	contents := fmt.Sprintf("DataDir = %q\nBackend = %q\nCodec = \"rlp\"\nLogEnv = \"test\"\n", filepath.Join(dir, "data"), backend)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func balanceKey(t *testing.T, who string) []byte {
	t.Helper()
	encoded, err := codec.RLP.Encode(who)
	require.NoError(t, err)
	return hashing.DeriveKey(hashing.NewPrefix("Balances", "Free"), hashing.Blake2_128Concat.Hash(encoded))
}

func writeFixture(t *testing.T) string {
	t.Helper()
	fixture := fmt.Sprintf(`blocks:
  - ops:
      - op: set
        key: "0x%x"
        amount: "750"
  - ops:
      - op: set
        key: "0x%x"
        amount: "20"
`, balanceKey(t, "alice"), balanceKey(t, "bob"))
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"framectl"}, args...))
	return out.String(), err
}

func TestImportCheckInspect(t *testing.T) {
	cfg := writeConfig(t, "leveldb")

	out, err := run(t, "--config", cfg, "import-blocks", "--file", writeFixture(t))
	require.NoError(t, err)
	require.Len(t, strings.Fields(out), 2)

	out, err = run(t, "--config", cfg, "check-block", "1")
	require.NoError(t, err)
	require.Regexp(t, `^Completed in \d+ ms\.\n$`, out)

	hash := strings.Fields(mustRun(t, "--config", cfg, "history"))[1]
	out, err = run(t, "--config", cfg, "check-block", hash)
	require.NoError(t, err)
	require.Contains(t, out, "Completed in")

	out, err = run(t, "--config", cfg, "inspect",
		"--module", "Balances", "--item", "Free",
		"--hasher", "blake2_128concat", "--key", fmt.Sprintf("%x", mustEncode(t, "alice")),
		"--type", "u256")
	require.NoError(t, err)
	require.Contains(t, out, "present: true")
	require.Contains(t, out, "decoded: 750")

	out, err = run(t, "--config", cfg, "inspect", "--module", "Balances", "--item", "Free",
		"--hasher", "blake2_128concat", "--key", fmt.Sprintf("%x", mustEncode(t, "carol")))
	require.NoError(t, err)
	require.Contains(t, out, "present: false")
}

func TestImportVerifyInMemory(t *testing.T) {
	cfg := writeConfig(t, "memory")
	out, err := run(t, "--config", cfg, "import-blocks", "--file", writeFixture(t), "--verify")
	require.NoError(t, err)
	require.Len(t, strings.Fields(out), 2)
}

func TestCheckBlockRejectsBadInput(t *testing.T) {
	cfg := writeConfig(t, "memory")
	_, err := run(t, "--config", cfg, "check-block", "not-a-block")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hash or number specified")

	_, err = run(t, "--config", writeConfig(t, "leveldb"), "check-block", "3")
	require.ErrorIs(t, err, chain.ErrBlockNotFound)
}

func TestReadCommandsRefuseMemoryBackend(t *testing.T) {
	cfg := writeConfig(t, "memory")
	for _, args := range [][]string{
		{"check-block", "0"},
		{"history"},
		{"inspect", "--module", "Balances", "--item", "Free"},
	} {
		_, err := run(t, append([]string{"--config", cfg}, args...)...)
		require.Error(t, err, args[0])
		require.Contains(t, err.Error(), "needs a persistent backend", args[0])
		var exit cli.ExitCoder
		require.ErrorAs(t, err, &exit)
		require.Equal(t, 2, exit.ExitCode())
	}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	return out
}

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := codec.RLP.Encode(v)
	require.NoError(t, err)
	return data
}
