package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Git.DefaultBranch)
	assert.Equal(t, "master", cfg.Git.LegacyBranch)
	assert.Equal(t, "origin", cfg.Git.RemoteName)
	assert.Equal(t, 30*time.Second, cfg.Git.Timeout)
	assert.Equal(t, ".env", cfg.Credentials.File)
}

func TestNew_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
git:
  workspace_dir: /srv/repos
  default_branch: trunk
templates:
  base_url: http://templates.local
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/srv/repos", cfg.Git.WorkspaceDir)
	assert.Equal(t, "trunk", cfg.Git.DefaultBranch)
	assert.Equal(t, "http://templates.local", cfg.Templates.BaseURL)
	assert.Equal(t, "origin", cfg.Git.RemoteName)
}
