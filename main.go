package main

import (
	"fmt"
	"os"

	"github.com/JulienPalard/TheodoreServer/pkg/cmd"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
)

func main() {
	app := cli.NewApp()
	app.Name = "theodore"
	app.Usage = "a long-polling publish/subscribe message broker"
	app.Description = "theodore serves named channels of numbered messages: " +
		"producers push payloads onto a channel, and consumers long-poll for " +
		"the message they are missing, by id, next, or latest, over one " +
		"channel or several at once."
	app.Commands = cmd.RootCommands
	app.Flags = cmd.RootFlags
	// Disable the built-in -v flag (version), to avoid collisions with the
	// verbosity flags. The `theodore version` command covers it.
	app.HideVersion = true
	app.Before = func(c *cli.Context) error {
		configureLogging(c)
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configureLogging(c *cli.Context) {
	// The LOG_LEVEL environment variable takes precedence.
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			panic(err)
		}
		logging.SetLevel(l)
		return
	}

	// Apply verbosity flags.
	switch {
	case c.Bool("vv"):
		logging.SetLevel(zapcore.DebugLevel)
	case c.Bool("v"):
		logging.SetLevel(zapcore.InfoLevel)
	}
}
