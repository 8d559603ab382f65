package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"

	"github.com/JulienPalard/TheodoreServer/pkg/client"
)

// GetCommand is the specification of the `get` command.
var GetCommand = cli.Command{
	Name:      "get",
	Usage:     "retrieve one message from a channel",
	ArgsUsage: "<channel>",
	Description: "Prints the selected message's payload on stdout. Without " +
		"--min-id the latest message is returned, waiting for the first one " +
		"if the channel is empty.",
	Action: getCommand,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "min-id",
			Usage: "message selector: a message id, or next; the latest when unset",
		},
		&cli.BoolFlag{
			Name:  "no-wait",
			Usage: "come back empty-handed instead of waiting",
		},
		&cli.BoolFlag{
			Name:  "follow",
			Usage: "keep printing messages as they arrive",
		},
	},
}

func getCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	if c.NArg() != 1 {
		return errors.New("missing channel name")
	}
	channel := c.Args().First()

	cl, _, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	follow := c.Bool("follow")

	req := &client.GetRequest{
		Selector: c.String("min-id"),
		NoWait:   c.Bool("no-wait"),
	}
	if follow {
		// Bootstrap the restart fence: an unknown date draws a rejection
		// carrying the daemon's current one.
		req.StartDate = "unknown"
	}

	var seen bool
	for {
		msg, err := cl.Get(ctx, channel, req)
		if err != nil {
			var stale *client.StaleClientError
			switch {
			case errors.As(err, &stale):
				if seen {
					// The daemon restarted under us; every id we remember
					// is void.
					fmt.Fprintln(os.Stderr, aurora.Yellow("daemon restarted, resuming from the next message"))
					req.Selector = "next"
				}
				req.StartDate = stale.StartDate
				continue
			case follow && errors.Is(err, client.ErrNotFound):
				// Drained the backlog under --no-wait.
				return nil
			}
			return err
		}

		os.Stdout.Write(msg.Payload)
		fmt.Println()

		if !follow {
			return nil
		}
		seen = true
		req.Selector = strconv.FormatUint(msg.ID+1, 10)
	}
}
