package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

// StatsCommand is the specification of the `stats` command.
var StatsCommand = cli.Command{
	Name:      "stats",
	Usage:     "print statistics for a channel",
	ArgsUsage: "<channel>",
	Action:    statsCommand,
}

func statsCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	if c.NArg() != 1 {
		return errors.New("missing channel name")
	}

	cl, _, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	stats, err := cl.Stats(ctx, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Print(stats.String())
	return nil
}
