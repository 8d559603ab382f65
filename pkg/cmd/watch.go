package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"

	"github.com/JulienPalard/TheodoreServer/pkg/client"
)

// WatchCommand is the specification of the `watch` command.
var WatchCommand = cli.Command{
	Name:      "watch",
	Usage:     "wait on several channels at once for the first message",
	ArgsUsage: "<channel[=selector]>...",
	Description: "Waits on every named channel and prints the first message " +
		"that shows up on any of them. A selector is a message id or the " +
		"word next; a bare channel name waits for its latest message. With " +
		"--follow, cursors advance automatically and watching never stops.",
	Action: watchCommand,
	Flags: []cli.Flag{
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

func watchCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	if c.NArg() == 0 {
		return errors.New("missing channel names")
	}

	selectors := make(map[string]string, c.NArg())
	for _, arg := range c.Args().Slice() {
		name, sel, _ := strings.Cut(arg, "=")
		selectors[name] = sel
	}

	cl, _, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	follow := c.Bool("follow")

	req := &client.MultiRequest{
		Selectors: selectors,
		NoWait:    c.Bool("no-wait"),
	}

	for {
		msg, err := cl.GetMultiple(ctx, req)
		if err != nil {
			if follow && errors.Is(err, client.ErrNotFound) {
				// Drained every backlog under --no-wait.
				return nil
			}
			return err
		}

		fmt.Printf("%s %s\n", aurora.Bold(aurora.Cyan(msg.Channel+":")), msg.Payload)

		if !follow {
			return nil
		}

		// The winning channel resumes right after the message just printed.
		// Losers that waited for latest or next are pinned to the id
		// snapshot, so a message landing between rounds is not missed: an id
		// cursor reads from history first. Losers already on an id cursor
		// keep it and drain history one round at a time.
		for name, last := range msg.LastIDs {
			if name == msg.Channel {
				req.Selectors[name] = strconv.FormatUint(msg.ID+1, 10)
			} else if _, err := strconv.ParseUint(req.Selectors[name], 10, 64); err != nil {
				req.Selectors[name] = strconv.FormatUint(last+1, 10)
			}
		}
	}
}
