// Package config loads blackjack server settings from an HCL file, a .env
// file and BLACKJACK_* environment variables, in that order of precedence
// (later sources win).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/store"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings
	Game   GameSettings
	Store  StoreSettings
}

// ServerSettings controls the listener and logging.
type ServerSettings struct {
	Address  string `hcl:"address,optional" env:"BLACKJACK_ADDRESS"`
	Port     int    `hcl:"port,optional" env:"BLACKJACK_PORT"`
	LogLevel string `hcl:"log_level,optional" env:"BLACKJACK_LOG_LEVEL"`
}

// GameSettings are the table rules.
type GameSettings struct {
	Decks           int   `hcl:"decks,optional" env:"BLACKJACK_DECKS"`
	StartingBalance int   `hcl:"starting_balance,optional" env:"BLACKJACK_STARTING_BALANCE"`
	Seed            int64 `hcl:"seed,optional" env:"BLACKJACK_SEED"`
}

// StoreSettings select the session store backend.
type StoreSettings struct {
	Backend    string `hcl:"backend,optional" env:"BLACKJACK_STORE"`
	Path       string `hcl:"path,optional" env:"BLACKJACK_STORE_PATH"`
	DSN        string `hcl:"dsn,optional" env:"BLACKJACK_DSN"`
	SessionTTL string `hcl:"session_ttl,optional" env:"BLACKJACK_SESSION_TTL"`
}

// fileConfig mirrors Config with optional blocks.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
	Store  *StoreSettings  `hcl:"store,block"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			Decks:           game.DefaultConfig().Decks,
			StartingBalance: game.DefaultConfig().StartingBalance,
		},
		Store: StoreSettings{
			Backend:    store.BackendMemory,
			SessionTTL: "2h",
		},
	}
}

// Load reads filename (a missing file means defaults), then the given .env
// files (".env" when none are named, missing files are ignored), then the
// process environment.
func Load(filename string, envFiles ...string) (*Config, error) {
	cfg, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func loadFile(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	if fc.Game != nil {
		cfg.Game = *fc.Game
	}
	if fc.Store != nil {
		cfg.Store = *fc.Store
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Game.Decks == 0 {
		c.Game.Decks = d.Game.Decks
	}
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = d.Game.StartingBalance
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.SessionTTL == "" {
		c.Store.SessionTTL = d.Store.SessionTTL
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Game.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Game.Decks)
	}
	if c.Game.StartingBalance < 1 {
		return fmt.Errorf("starting balance must be positive, got %d", c.Game.StartingBalance)
	}

	backends := []string{store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendPostgres}
	if !slices.Contains(backends, c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Store.Backend {
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store backend %q requires a path", c.Store.Backend)
		}
	case store.BackendPostgres:
		if c.Store.DSN == "" {
			return errors.New("store backend \"postgres\" requires a dsn")
		}
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	return nil
}

// SessionTTL parses the idle session timeout. "0" disables eviction.
func (c *Config) SessionTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Store.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl %q: %w", c.Store.SessionTTL, err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("session_ttl must not be negative: %s", ttl)
	}
	return ttl, nil
}

// ListenAddr is the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Engine returns the table rules for game.NewEngine.
func (c *Config) Engine() game.Config {
	return game.Config{Decks: c.Game.Decks, StartingBalance: c.Game.StartingBalance}
}

// StoreOptions returns the store.Open options, without clock or logger.
func (c *Config) StoreOptions() (store.Options, error) {
	ttl, err := c.SessionTTL()
	if err != nil {
		return store.Options{}, err
	}
	return store.Options{
		Backend:    c.Store.Backend,
		Path:       c.Store.Path,
		DSN:        c.Store.DSN,
		SessionTTL: ttl,
	}, nil
}
