package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
	"github.com/muesli/termenv"
)

type PlayCmd struct {
	Decks   int    `help:"Number of decks in the shoe (overrides config)"`
	Balance int    `help:"Starting balance (overrides config)"`
	Seed    int64  `help:"Shoe RNG seed (overrides config, 0 for random)"`
	LogFile string `name:"log-file" help:"Write logs to this file instead of discarding them"`
	NoColor bool   `name:"no-color" help:"Disable colors"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config, cli.EnvFile...)
	if err != nil {
		return err
	}
	if c.Decks != 0 {
		cfg.Game.Decks = c.Decks
	}
	if c.Balance != 0 {
		cfg.Game.StartingBalance = c.Balance
	}
	if c.Seed != 0 {
		cfg.Game.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := shared.SetupFileLogger(c.LogFile, cli.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	if c.NoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	seed := randutil.Seed(cfg.Game.Seed)
	logger.Info("Starting local game", "decks", cfg.Game.Decks, "seed", seed)
	engine := game.NewEngine(cfg.Engine(), randutil.New(seed), logger)
	return tui.Run(ctx, engine, logger)
}
