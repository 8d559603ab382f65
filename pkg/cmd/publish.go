package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"
)

// PublishCommand is the specification of the `publish` command.
var PublishCommand = cli.Command{
	Name:      "publish",
	Usage:     "push a message onto a channel",
	ArgsUsage: "<channel> [payload]",
	Description: "Pushes the payload onto the channel, waking every consumer " +
		"currently waiting on it. When the payload is absent or -, it is read " +
		"from stdin.",
	Action: publishCommand,
}

func publishCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	if c.NArg() < 1 {
		return errors.New("missing channel name")
	}
	channel := c.Args().First()

	payload, err := payloadFromArgs(c)
	if err != nil {
		return err
	}

	cl, _, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.Publish(ctx, channel, payload); err != nil {
		return err
	}

	fmt.Printf("published %s to %s\n", humanize.Bytes(uint64(len(payload))), aurora.Bold(channel))
	return nil
}
