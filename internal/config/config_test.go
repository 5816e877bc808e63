package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeFile(t, t.TempDir(), "uivet.yaml", ""))
	require.NoError(t, err)

	assert.Equal(t, EngineLexical, cfg.Validator.Engine)
	assert.Equal(t, 1<<20, cfg.Validator.MaxInputBytes)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_FileOverrides(t *testing.T) {
	t.Parallel()

	content := `validator:
  engine: treesitter
server:
  port: 9090
batch:
  workers: 4
`
	cfg, err := Load(writeFile(t, t.TempDir(), "uivet.yaml", content))
	require.NoError(t, err)

	assert.Equal(t, EngineTreeSitter, cfg.Validator.Engine)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoad_InvalidEngine(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "uivet.yaml", "validator:\n  engine: babel\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidEngine)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "uivet.yaml", "server:\n  port: 70000\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestLoad_NegativeWorkers(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "uivet.yaml", "batch:\n  workers: -1\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}
