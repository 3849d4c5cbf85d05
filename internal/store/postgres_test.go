package store

import (
	"context"
	"os"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BLACKJACK_TEST_DSN")
	if dsn == "" {
		t.Skip("BLACKJACK_TEST_DSN not set")
	}
	ctx := context.Background()

	st, err := OpenPostgres(ctx, dsn, quartz.NewMock(t))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Migrate(ctx), "migrations are idempotent")
	testStore(t, st)
}
