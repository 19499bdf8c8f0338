package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, ".", cfg.Modules.Root)
	assert.Equal(t, "chdr", cfg.Modules.Extension)
	assert.Equal(t, "build", cfg.Output.Dir)
	assert.Equal(t, config.FormatSeparate, cfg.Output.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoManifestFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_ManifestOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[modules]
root = "shaders"
extension = "cheddar"

[output]
dir = "out"
format = "bundle"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cheddar.toml"), []byte(manifest), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "shaders", cfg.Modules.Root)
	assert.Equal(t, "cheddar", cfg.Modules.Extension)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, config.FormatBundle, cfg.Output.Format)
}

func TestLoad_PartialManifestKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[output]
dir = "out"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cheddar.toml"), []byte(manifest), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Modules.Root)
	assert.Equal(t, "chdr", cfg.Modules.Extension)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, config.FormatSeparate, cfg.Output.Format)
}

func TestLoad_InvalidOutputFormat(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[output]
format = "nonsense"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cheddar.toml"), []byte(manifest), 0o644))

	_, err := config.Load(dir)
	require.Error(t, err)
}

func TestLoad_MalformedToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cheddar.toml"), []byte("not = [valid"), 0o644))

	_, err := config.Load(dir)
	require.Error(t, err)
}

func TestValidate_EmptyExtensionRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Modules.Extension = ""
	assert.Error(t, cfg.Validate())
}
