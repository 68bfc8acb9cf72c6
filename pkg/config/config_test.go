package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/loader"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "data/new-data", cfg.Data.Dir)
	assert.Equal(t, []string{PMSelectionTitle}, cfg.Data.ExcludeTitles)
	assert.Equal(t, aggregate.ModeDetailed, cfg.Mode())
	assert.Equal(t, "gradient", cfg.Strategy().Name())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOTEGRID_VIEW_MODE", "fact")
	t.Setenv("VOTEGRID_VIEW_TILE_SIZE", "16")
	t.Setenv("VOTEGRID_CACHE_TTL", "30m")
	t.Setenv("VOTEGRID_SERVER_ADDR", ":9999")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, aggregate.ModeFact, cfg.Mode())
	assert.Equal(t, "3bin", cfg.Strategy().Name(), "auto picks bins for small tiles")
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  url: https://example.com/data
view:
  strategy: 3bin
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/data", cfg.Data.URL)
	assert.Equal(t, "3bin", cfg.Strategy().Name())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	bad := *cfg
	bad.View.Mode = "sideways"
	bad.Cache.Backend = "etcd"
	bad.View.Width = 0
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
	assert.Contains(t, err.Error(), "etcd")
	assert.Contains(t, err.Error(), "window size")

	bad = *cfg
	bad.Data.Dir = ""
	assert.Error(t, bad.Validate())
	bad.Data.Live = true
	assert.NoError(t, bad.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	log := zap.NewNop()

	src, closer, err := cfg.OpenSource(context.Background(), log, nil)
	require.NoError(t, err)
	assert.IsType(t, loader.DirSource{}, src)
	assert.NoError(t, closer.Close())

	cfg.Cache.Backend = "badger"
	cfg.Cache.Path = t.TempDir()
	cfg.Data.Live = true
	src, closer, err = cfg.OpenSource(context.Background(), log, nil)
	require.NoError(t, err)
	cached, ok := src.(*loader.CachedSource)
	require.True(t, ok)
	assert.IsType(t, &loader.LiveSource{}, cached.Source)
	assert.NoError(t, closer.Close())
}
