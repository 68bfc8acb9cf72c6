package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/config"
)

func writeCollections(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"person_data.json":      `[{"person_name":"ก","m__province":"ตาก"},{"person_name":"ข"}]`,
		"person_vote_data.json": `[]`,
		"fact_data.json":        `[{"title":"Vote","province":"ตาก","option":"เห็นด้วย","portion":1,"type":"All"}]`,
		"vote_detail_data.json": `[{"title":"Vote","province":"ตาก","person_name":"ก","option":"เห็นด้วย"}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestBoot(t *testing.T) {
	dir := writeCollections(t)
	a, err := Boot(context.Background(), "", Overrides{DataDir: dir, Mode: "fact", Strategy: "3bin", LogLevel: "warn"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	assert.Equal(t, dir, a.Config.Data.Dir)
	assert.Equal(t, aggregate.ModeFact, a.Config.Mode())
	assert.Equal(t, "warn", a.Level.String())
	assert.Len(t, a.Dataset.People, 2)
	assert.Nil(t, a.Dataset.Metadata)
	assert.Equal(t, []string{"Vote"}, a.Reducer.Events())
	assert.Equal(t, colors.ThreeBin{}, a.Reducer.Policy.Strategy)

	mfs, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestBootRejectsInvalidOverrides(t *testing.T) {
	_, err := Boot(context.Background(), "", Overrides{Mode: "sideways"})
	assert.Error(t, err)
}

func TestBootMissingDataDegrades(t *testing.T) {
	a, err := Boot(context.Background(), "", Overrides{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.Dataset.Empty())
	assert.Empty(t, a.Reducer.Events())
}

func TestLayout(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	cfg.View.TileSize = 20
	assert.Equal(t, 20.0, Layout(cfg).TileSize)
}
