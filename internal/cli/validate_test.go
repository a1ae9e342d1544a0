package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runValidateCmd(t *testing.T, format, path string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateBalanceFile(t *testing.T) {
	path := writeFile(t, "balance.yaml", `
tick_interval: 500ms
combo:
  cap: 4
critical:
  base_chance: 10
`)

	out, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ balance file valid")
}

func TestValidateEmptyBalanceFile(t *testing.T) {
	path := writeFile(t, "balance.yml", "")

	out, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ balance file valid")
}

func TestValidateBalanceUnknownKey(t *testing.T) {
	path := writeFile(t, "balance.yaml", "combo:\n  capp: 4\n")

	out, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, ErrCodeBalance)
}

func TestValidateBalanceOutOfRangeJSON(t *testing.T) {
	path := writeFile(t, "balance.yaml", "critical:\n  base_chance: 150\n")

	out, err := runValidateCmd(t, "json", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBalance, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "critical.base_chance")
}

func TestValidateBuiltInCatalog(t *testing.T) {
	path := filepath.Join("..", "catalog", "catalog.cue")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("catalog.cue not found")
	}

	out, err := runValidateCmd(t, "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateBrokenCatalog(t *testing.T) {
	path := writeFile(t, "catalog.cue", `upgrades: [{id: "sword", cost: -1}]`)

	out, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeCatalog)
}

func TestValidateUnknownExtension(t *testing.T) {
	path := writeFile(t, "balance.toml", "")

	out, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeUnknownKind)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := runValidateCmd(t, "text", "/nonexistent/balance.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeUnreadable)
}

func TestValidateMissingArgs(t *testing.T) {
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
