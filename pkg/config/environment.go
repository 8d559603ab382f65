package config

// EnvConfig contains the environment configuration. It is populated by
// coalescing values from these sources, in descending order of precedence:
//
//  1. environment variables.
//  2. env.toml.
//  3. default fallbacks.
type EnvConfig struct {
	home string

	Daemon DaemonConfig `toml:"daemon"`
	Client ClientConfig `toml:"client"`
}

// Home returns the theodore home directory.
func (e EnvConfig) Home() string {
	return e.home
}

type DaemonConfig struct {
	Listen string `toml:"listen"`
}

type ClientConfig struct {
	Endpoint string `toml:"endpoint"`
}
