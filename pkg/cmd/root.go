package cmd

import "github.com/urfave/cli/v2"

// RootCommands collects all subcommands of the theodore CLI.
var RootCommands = cli.Commands{
	&DaemonCommand,
	&PublishCommand,
	&GetCommand,
	&WatchCommand,
	&StatsCommand,
	&VersionCommand,
}

var RootFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "v",
		Usage: "verbose output (equivalent to INFO log level)",
	},
	&cli.BoolFlag{
		Name:  "vv",
		Usage: "super verbose output (equivalent to DEBUG log level)",
	},
	&cli.StringFlag{
		Name:  "endpoint",
		Usage: "set the daemon endpoint (overrides .env.toml)",
	},
}
