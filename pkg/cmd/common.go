package cmd

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/JulienPalard/TheodoreServer/pkg/client"
	"github.com/JulienPalard/TheodoreServer/pkg/config"
)

func setupClient(c *cli.Context) (*client.Client, *config.EnvConfig, error) {
	cfg := &config.EnvConfig{}
	if err := cfg.Load(); err != nil {
		return nil, nil, err
	}
	endpoint := c.String("endpoint")

	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}

	cl := client.New(cfg.Client.Endpoint)
	return cl, cfg, nil
}

// payloadFromArgs returns the payload to publish: the second positional
// argument, or stdin when the argument is absent or "-".
func payloadFromArgs(c *cli.Context) ([]byte, error) {
	if c.NArg() >= 2 && c.Args().Get(1) != "-" {
		return []byte(c.Args().Get(1)), nil
	}
	return io.ReadAll(os.Stdin)
}
