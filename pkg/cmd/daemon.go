package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/JulienPalard/TheodoreServer/pkg/config"
	"github.com/JulienPalard/TheodoreServer/pkg/daemon"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

// DaemonCommand is the specification of the `daemon` command.
var DaemonCommand = cli.Command{
	Name:   "daemon",
	Usage:  "start the theodore daemon",
	Action: daemonCommand,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "listen address (overrides .env.toml)",
		},
	},
}

func daemonCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	logging.ConsoleMode()

	cfg := &config.EnvConfig{}
	if err := cfg.Load(); err != nil {
		return err
	}
	if listen := c.String("listen"); listen != "" {
		cfg.Daemon.Listen = listen
	}

	srv, err := daemon.New(cfg.Daemon.Listen)
	if err != nil {
		return err
	}

	exiting := make(chan struct{})
	defer close(exiting)

	go func() {
		select {
		case <-ctx.Done():
		case <-exiting:
			// no need to shutdown in this case.
			return
		}

		logging.S().Infow("shutting down daemon")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			// Long-polls still parked; hang up on them.
			logging.S().Warnw("graceful shutdown expired, closing open long-polls", "err", err)
			if err := srv.Close(); err != nil {
				logging.S().Errorw("failed to close daemon", "err", err)
			}
			return
		}
		logging.S().Infow("daemon stopped")
	}()

	logging.S().Infow("listen and serve", "addr", srv.Addr())
	err = srv.Serve()
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}
