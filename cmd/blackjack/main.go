package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"blackjack.hcl" help:"Path to HCL configuration file"`
	EnvFile []string         `name:"env-file" help:"Dotenv files to load (default .env)"`
	Debug   bool             `help:"Enable debug logging"`

	Serve   ServeCmd   `cmd:"" help:"Run the blackjack HTTP and WebSocket server"`
	Play    PlayCmd    `cmd:"" help:"Play in the terminal against a local dealer"`
	Migrate MigrateCmd `cmd:"" help:"Create or upgrade the session store schema"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Two-participant blackjack: one player against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
