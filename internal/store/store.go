// Package store persists sessions between commands.
//
// Every backend stores the encoded form produced by Encode and returns
// sessions through Decode, so a session read from any store has already been
// validated.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store is a keyed collection of sessions.
type Store interface {
	Get(ctx context.Context, id string) (*game.Session, error)
	Put(ctx context.Context, id string, s *game.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the directory for the file backend and the database file for
	// SQLite.
	Path string
	// DSN is the PostgreSQL connection string.
	DSN string
	// SessionTTL evicts idle sessions from the memory backend. Zero keeps
	// them forever.
	SessionTTL time.Duration
	Clock      quartz.Clock
	Logger     *log.Logger
}

// Open creates the backend named by opts.Backend. Database backends are
// migrated before they are returned.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	logger := opts.Logger.WithPrefix("store")

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(opts.Clock, opts.SessionTTL, logger), nil
	case BackendFile:
		return NewFile(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path, opts.Clock)
	case BackendPostgres:
		pg, err := OpenPostgres(ctx, opts.DSN, opts.Clock)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
