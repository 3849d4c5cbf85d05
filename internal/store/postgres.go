package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lox/blackjack/internal/game"
)

// Postgres stores sessions in a PostgreSQL table through a pgx pool.
type Postgres struct {
	pool  *pgxpool.Pool
	clock quartz.Clock
}

// OpenPostgres connects to dsn. Call Migrate before first use on a new
// database.
func OpenPostgres(ctx context.Context, dsn string, clock quartz.Clock) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres store requires a dsn")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool, clock: clock}, nil
}

// Migrate applies the embedded schema. It is safe to run repeatedly.
func (p *Postgres) Migrate(ctx context.Context) error {
	ddl, err := schemas.ReadFile("schema/postgres.sql")
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*game.Session, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM sessions WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return Decode(data)
}

func (p *Postgres) Put(ctx context.Context, id string, s *game.Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		  SET data = EXCLUDED.data,
		      updated_at = EXCLUDED.updated_at`,
		id, data, p.clock.Now())
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes every pooled connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
