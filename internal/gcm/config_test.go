package gcm

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "clustering_output.txt", cfg.OutputFile)
	assert.Equal(t, 12345, cfg.Seed)
	assert.Equal(t, 0.0, cfg.Chi)
	assert.Equal(t, "space", cfg.Sep)
	assert.Equal(t, time.Duration(0), cfg.StepTimeout)
	assert.Equal(t, "python", cfg.Tools.Python)
	assert.Equal(t, "bash", cfg.Tools.Shell)
	assert.Equal(t, "format_edgelist.py", filepath.Base(cfg.Tools.FormatScript))
	assert.Equal(t, "work.sh", filepath.Base(cfg.Tools.WorkScript))
	assert.Equal(t, "a.out", filepath.Base(cfg.Tools.Cluster))
}

func TestLoadConfigRejectsUnknownSeparator(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("sep", "space", "")
	require.NoError(t, fs.Set("sep", "tab"))

	_, err := LoadConfig(fs, "")
	assert.ErrorContains(t, err, "invalid sep")
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcm.yaml")
	writeFile(t, path, ""+
		"seed: 99\n"+
		"sep: semicolon\n"+
		"step_timeout: 30s\n"+
		"tools:\n"+
		"  python: /usr/bin/python3\n"+
		"  cluster: /opt/gcm/a.out\n")

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Seed)
	assert.Equal(t, "semicolon", cfg.Sep)
	assert.Equal(t, 30*time.Second, cfg.StepTimeout)
	assert.Equal(t, "/usr/bin/python3", cfg.Tools.Python)
	assert.Equal(t, "/opt/gcm/a.out", cfg.Tools.Cluster)
	assert.Equal(t, "bash", cfg.Tools.Shell)
}

func TestLoadConfigFlagsBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcm.yaml")
	writeFile(t, path, "seed: 99\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("seed", 12345, "")
	require.NoError(t, fs.Set("seed", "7"))

	cfg, err := LoadConfig(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Seed)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GCM_CHI", "1.25")
	t.Setenv("GCM_TOOLS_CLUSTER", "/opt/gcm/a.out")

	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1.25, cfg.Chi)
	assert.Equal(t, "/opt/gcm/a.out", cfg.Tools.Cluster)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
