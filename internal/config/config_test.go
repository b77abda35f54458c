package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tapdrill/internal/finger"
	"github.com/verte-zerg/tapdrill/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Mode)
	assert.Nil(t, cfg.Log.Level)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
mode = "right-ring"
length = "long"
storage = "sqlite"
wordlist = "/tmp/words.txt"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Mode)
	assert.Equal(t, "right-ring", *cfg.Practice.Mode)
	assert.Equal(t, "long", *cfg.Practice.Length)
	assert.Equal(t, "sqlite", *cfg.Practice.Storage)
	assert.Equal(t, "/tmp/words.txt", *cfg.Practice.WordList)
	assert.Equal(t, "debug", *cfg.Log.Level)
	assert.Nil(t, cfg.Log.File)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nwords = 25\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "practice.words")
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(Template()), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Mode)
}

func TestResolve(t *testing.T) {
	cfg, err := Resolve(Options{Mode: "left-index-drill", Length: "short"})
	require.NoError(t, err)
	assert.Equal(t, model.FingerDrill(finger.LeftIndex), cfg.Mode)
	assert.Equal(t, model.Short, cfg.Length)
	assert.Equal(t, model.StorageJSON, cfg.Storage)

	cfg, err = Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, model.Normal(), cfg.Mode)
	assert.Equal(t, model.DefaultLength, cfg.Length)

	_, err = Resolve(Options{Mode: "thumb"})
	assert.Error(t, err)
	_, err = Resolve(Options{Length: "huge"})
	assert.Error(t, err)
	_, err = Resolve(Options{Storage: "redis"})
	assert.Error(t, err)
}

func TestPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")

	assert.Equal(t, filepath.Join("/data", "tapdrill", "progress.json"), DefaultHistoryPath(model.StorageJSON))
	assert.Equal(t, filepath.Join("/data", "tapdrill", "tapdrill.db"), DefaultHistoryPath(model.StorageSQLite))
	assert.Equal(t, filepath.Join("/cfg", "tapdrill", "theme.json"), DefaultThemePath())
	assert.Equal(t, filepath.Join("/cfg", "tapdrill", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/state", "tapdrill", "tapdrill.log"), DefaultLogPath())
}
