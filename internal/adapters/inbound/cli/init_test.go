package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/config"
	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, _, err := run(t, "", "init", tmpDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".jsonkraft.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# jsonkraft configuration")
	assert.Contains(t, string(data), "heuristics:")
	assert.Contains(t, string(data), "repair:")

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".jsonkraft.yaml"), []byte("existing"), 0644))

	_, _, err := run(t, "", "init", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".jsonkraft.yaml"), []byte("old"), 0644))

	_, _, err := run(t, "", "init", tmpDir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".jsonkraft.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "heuristics:")
}

func TestInitCmd_InvalidConfigRejectedByAnalyze(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".jsonkraft.yaml"), []byte("min_score: 500\n"), 0644))

	_, _, err := run(t, cleanDoc, "analyze", "--dir", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_score")
}
