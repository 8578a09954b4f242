package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1e-3, cfg.Mesh.Tolerance)
	assert.Equal(t, 1e-3, cfg.Mesh.SupportEpsilon(), "Expected support tolerance to fall back to the node tolerance")
	assert.False(t, cfg.Mesh.FixBase)
	assert.Equal(t, 0.1, cfg.Defaults.Section.A)
	assert.Equal(t, 200e9, cfg.Defaults.Material.E)
	assert.Len(t, cfg.Synonyms, len(DefaultSynonyms))
	assert.NoError(t, cfg.Validate())

	cfg.Synonyms[0].Accept[0] = "changed"
	assert.Equal(t, "CrossSectionArea", DefaultSynonyms[0].Accept[0], "Expected Default to copy the synonym table")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML overrides selected fields", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mesh:\n  tolerance: 0.01\n  fix_base: true\nloads:\n  self_weight: true\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0.01, cfg.Mesh.Tolerance)
		assert.True(t, cfg.Mesh.FixBase)
		assert.True(t, cfg.Loads.SelfWeight)
		assert.Equal(t, 9.81, cfg.Loads.Gravity, "Expected unset fields to keep defaults")
	})

	t.Run("JSON overrides selected fields", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"geometry":{"min_length":0.001,"min_area":0.0001}}`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0.001, cfg.Geometry.MinLength)
		assert.Equal(t, 1e-3, cfg.Mesh.Tolerance)
	})

	t.Run("Invalid tolerance is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"mesh":{"tolerance":0}}`), 0o644))

		_, err := Load(path)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "none.yaml"))
		assert.Error(t, err)
	})
}
