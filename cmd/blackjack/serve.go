package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/store"
)

// sweepInterval is how often the memory store looks for idle sessions.
const sweepInterval = time.Minute

type ServeCmd struct {
	Addr     string `short:"a" help:"Address to bind to (overrides config)"`
	Port     int    `short:"p" help:"Port to listen on (overrides config)"`
	LogLevel string `short:"l" name:"log-level" help:"Log level (overrides config)"`
	Store    string `help:"Session store backend: memory, file, sqlite or postgres (overrides config)"`
	Seed     int64  `help:"Shoe RNG seed (overrides config, 0 for random)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config, cli.EnvFile...)
	if err != nil {
		return err
	}
	c.override(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, cli.Debug)
	if err != nil {
		return err
	}
	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	clock := quartz.NewReal()
	opts, err := cfg.StoreOptions()
	if err != nil {
		return err
	}
	opts.Clock = clock
	opts.Logger = logger
	st, err := store.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	seed := randutil.Seed(cfg.Game.Seed)
	engine := game.NewEngine(cfg.Engine(), randutil.NewLocked(seed), logger, game.WithClock(clock))
	service := server.NewService(engine, st, nil, logger)

	var serverOpts []server.Option
	if mem, ok := st.(*store.Memory); ok {
		serverOpts = append(serverOpts, server.WithWorker(func(ctx context.Context) error {
			return mem.Run(ctx, sweepInterval)
		}))
	}

	logger.Info("Starting blackjack server",
		"addr", cfg.ListenAddr(),
		"store", cfg.Store.Backend,
		"decks", cfg.Game.Decks,
		"startingBalance", cfg.Game.StartingBalance,
		"seed", seed)

	return server.NewServer(cfg.ListenAddr(), service, logger, serverOpts...).Run(ctx)
}

func (c *ServeCmd) override(cfg *config.Config) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Store != "" {
		cfg.Store.Backend = c.Store
	}
	if c.Seed != 0 {
		cfg.Game.Seed = c.Seed
	}
}
