package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulienPalard/TheodoreServer/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(config.EnvTheodoreHomeDir, t.TempDir())

	cfg := &config.EnvConfig{}
	require.NoError(t, cfg.Load())

	assert.Equal(t, config.DefaultListenAddr, cfg.Daemon.Listen)
	assert.Equal(t, config.DefaultListenAddr, cfg.Client.Endpoint)
}

func TestLoadEnvTomlOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvTheodoreHomeDir, home)

	toml := []byte("[daemon]\nlisten = \"0.0.0.0:9999\"\n\n[client]\nendpoint = \"theodore.example.com:7300\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), toml, 0644))

	cfg := &config.EnvConfig{}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "0.0.0.0:9999", cfg.Daemon.Listen)
	assert.Equal(t, "theodore.example.com:7300", cfg.Client.Endpoint)
	assert.Equal(t, home, cfg.Home())
}

func TestLoadEnvVarsTrumpEnvToml(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvTheodoreHomeDir, home)
	t.Setenv(config.EnvTheodoreListen, "127.0.0.1:7301")

	toml := []byte("[daemon]\nlisten = \"0.0.0.0:9999\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), toml, 0644))

	cfg := &config.EnvConfig{}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "127.0.0.1:7301", cfg.Daemon.Listen)
}

func TestLoadCreatesHomeDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "theodore")
	t.Setenv(config.EnvTheodoreHomeDir, home)

	cfg := &config.EnvConfig{}
	require.NoError(t, cfg.Load())

	fi, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestLoadRejectsMalformedEnvToml(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvTheodoreHomeDir, home)

	require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), []byte("[daemon\n"), 0644))

	cfg := &config.EnvConfig{}
	assert.Error(t, cfg.Load())
}
