package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() Config {
	floating := true
	output := "DP-1"
	return Config{
		Outputs: []Output{{
			Name: "DP-1", X: 0, Y: 0, Width: 2560, Height: 1440, Scale: 1.5,
			Tags: []Tag{{Name: "1", Layout: "master_stack"}, {Name: "www", Layout: "grid"}},
		}},
		WindowRules: []WindowRule{{
			Cond: RuleCondition{Classes: []string{"mpv"}},
			Rule: Rule{Output: &output, Floating: &floating},
		}},
	}
}

func TestStoreWritesDefaultOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinnacle.yaml")

	store, err := NewStore(NewYAML(path))
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Outputs)
	assert.Empty(t, cfg.WindowRules)
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinnacle.yaml")
	store, err := NewStore(NewYAML(path))
	require.NoError(t, err)

	require.NoError(t, store.UpdateConfig(func(cfg Config) (Config, error) {
		return sampleConfig(), nil
	}))

	// A fresh store must see exactly what was written.
	reopened, err := NewStore(NewYAML(path))
	require.NoError(t, err)
	cfg, err := reopened.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), cfg)
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinnacle.json")
	store, err := NewStore(NewJSON(path))
	require.NoError(t, err)

	require.NoError(t, store.UpdateConfig(func(cfg Config) (Config, error) {
		return sampleConfig(), nil
	}))

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), cfg)
}

func TestReadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinnacle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0600))

	store, err := NewStore(NewYAML(path))
	require.NoError(t, err)
	_, err = store.GetConfig()
	assert.Error(t, err)
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinnacle.yaml")
	_, err := NewStore(NewYAML(path))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pinnacle.yaml", entries[0].Name())
}
