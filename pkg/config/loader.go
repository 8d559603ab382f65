package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

const (
	EnvTheodoreHomeDir  = "THEODORE_HOME"
	EnvTheodoreListen   = "THEODORE_LISTEN"
	EnvTheodoreEndpoint = "THEODORE_ENDPOINT"

	DefaultListenAddr = "localhost:7300"
)

// Load populates this EnvConfig by applying defaults, overlaying the
// optional .env.toml from the theodore home directory, then overlaying
// environment variables.
func (e *EnvConfig) Load() error {
	// apply fallbacks.
	e.Daemon.Listen = DefaultListenAddr
	e.Client.Endpoint = DefaultListenAddr

	// calculate home directory; use env var, or fall back to $HOME/theodore
	// otherwise.
	var home string
	if v, ok := os.LookupEnv(EnvTheodoreHomeDir); ok {
		home = v
	} else {
		v, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to obtain user home dir: %w", err)
		}
		home = filepath.Join(v, "theodore")
	}

	switch fi, err := os.Stat(home); {
	case os.IsNotExist(err):
		logging.S().Infof("creating home directory at %s", home)
		if err := os.MkdirAll(home, 0777); err != nil {
			return fmt.Errorf("failed to create home directory at %s: %w", home, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat home directory %s: %w", home, err)
	case !fi.IsDir():
		return fmt.Errorf("home path is not a directory: %s", home)
	}
	e.home = home

	// parse the .env.toml file, if it exists.
	f := filepath.Join(home, ".env.toml")
	if _, err := os.Stat(f); err == nil {
		if _, err := toml.DecodeFile(f, e); err != nil {
			return fmt.Errorf("found .env.toml at %s, but failed to parse: %w", f, err)
		}
		logging.S().Infof(".env.toml loaded from: %s", f)
	} else {
		logging.S().Infof("no .env.toml found at %s; running with defaults", f)
	}

	// environment variables trump the file.
	if v, ok := os.LookupEnv(EnvTheodoreListen); ok {
		e.Daemon.Listen = v
	}
	if v, ok := os.LookupEnv(EnvTheodoreEndpoint); ok {
		e.Client.Endpoint = v
	}

	return nil
}
