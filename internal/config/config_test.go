package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"), noDotEnv(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
}

func TestLoadHCL(t *testing.T) {
	path := writeFile(t, "blackjack.hcl", `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

game {
  decks            = 6
  starting_balance = 1000
  seed             = 42
}

store {
  backend     = "sqlite"
  path        = "/var/lib/blackjack/sessions.db"
  session_ttl = "30m"
}
`)
	cfg, err := Load(path, noDotEnv(t))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 6, cfg.Engine().Decks)
	assert.Equal(t, 1000, cfg.Engine().StartingBalance)
	assert.Equal(t, int64(42), cfg.Game.Seed)

	opts, err := cfg.StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", opts.Backend)
	assert.Equal(t, "/var/lib/blackjack/sessions.db", opts.Path)
	assert.Equal(t, 30*time.Minute, opts.SessionTTL)
}

func TestLoadPartialHCLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "blackjack.hcl", `
game {
  decks = 2
}
`)
	cfg, err := Load(path, noDotEnv(t))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Game.Decks)
	assert.Equal(t, 500, cfg.Game.StartingBalance)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadInvalidHCL(t *testing.T) {
	_, err := Load(writeFile(t, "bad.hcl", `server {`), noDotEnv(t))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.hcl", `table "main" {}`), noDotEnv(t))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "blackjack.hcl", `
server {
  port = 9090
}
`)
	t.Setenv("BLACKJACK_PORT", "7070")
	t.Setenv("BLACKJACK_STORE", "postgres")
	t.Setenv("BLACKJACK_DSN", "postgres://localhost/blackjack")

	cfg, err := Load(path, noDotEnv(t))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/blackjack", cfg.Store.DSN)
}

func TestDotEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set, so clear
	// these for the duration of the test.
	t.Setenv("BLACKJACK_DECKS", "")
	os.Unsetenv("BLACKJACK_DECKS")
	t.Setenv("BLACKJACK_SESSION_TTL", "")
	os.Unsetenv("BLACKJACK_SESSION_TTL")
	t.Cleanup(func() {
		os.Unsetenv("BLACKJACK_DECKS")
		os.Unsetenv("BLACKJACK_SESSION_TTL")
	})

	dotenv := writeFile(t, ".env", "BLACKJACK_DECKS=4\nBLACKJACK_SESSION_TTL=0\n")
	cfg, err := Load("", dotenv)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Game.Decks)

	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestBadEnvironmentValue(t *testing.T) {
	t.Setenv("BLACKJACK_PORT", "eighty")
	_, err := Load("", noDotEnv(t))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "log level", mutate: func(c *Config) { c.Server.LogLevel = "loud" }},
		{name: "decks", mutate: func(c *Config) { c.Game.Decks = -1 }},
		{name: "balance", mutate: func(c *Config) { c.Game.StartingBalance = -100 }},
		{name: "backend", mutate: func(c *Config) { c.Store.Backend = "redis" }},
		{name: "file without path", mutate: func(c *Config) { c.Store.Backend = "file" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Backend = "postgres" }},
		{name: "ttl", mutate: func(c *Config) { c.Store.SessionTTL = "soon" }},
		{name: "negative ttl", mutate: func(c *Config) { c.Store.SessionTTL = "-1h" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
