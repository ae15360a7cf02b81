package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtreectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tree:
  root: /tmp/device-tree
  max_depth: 6
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/device-tree", cfg.Tree.Root)
	assert.Equal(t, 6, cfg.Tree.MaxDepth)
	assert.Equal(t, "reg", cfg.Tree.RegFile, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DTREECTL_TREE_ROOT", "/srv/dt")
	t.Setenv("DTREECTL_BUS_MEM_PATH", "/tmp/mem")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/dt", cfg.Tree.Root)
	assert.Equal(t, "/tmp/mem", cfg.Bus.MemPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty root", func(c *Config) { c.Tree.Root = "" }, "tree.root"},
		{"zero depth", func(c *Config) { c.Tree.MaxDepth = 0 }, "tree.max_depth"},
		{"empty reg file", func(c *Config) { c.Tree.RegFile = "" }, "tree.reg_file"},
		{"empty mem path", func(c *Config) { c.Bus.MemPath = "" }, "bus.mem_path"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	require.NoError(t, Default().Validate())
}
