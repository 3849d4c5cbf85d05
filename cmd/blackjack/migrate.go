package main

import (
	"fmt"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/store"
)

type MigrateCmd struct {
	Store string `help:"Session store backend (overrides config)"`
	Path  string `help:"SQLite database path (overrides config)"`
	DSN   string `help:"PostgreSQL connection string (overrides config)"`
}

func (c *MigrateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config, cli.EnvFile...)
	if err != nil {
		return err
	}
	if c.Store != "" {
		cfg.Store.Backend = c.Store
	}
	if c.Path != "" {
		cfg.Store.Path = c.Path
	}
	if c.DSN != "" {
		cfg.Store.DSN = c.DSN
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, cli.Debug)
	if err != nil {
		return err
	}
	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	switch cfg.Store.Backend {
	case store.BackendSQLite, store.BackendPostgres:
	default:
		logger.Info("Nothing to migrate", "store", cfg.Store.Backend)
		return nil
	}

	opts, err := cfg.StoreOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger
	// Opening a database store applies the embedded schema.
	st, err := store.Open(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("Schema is up to date", "store", cfg.Store.Backend)
	return st.Close()
}
