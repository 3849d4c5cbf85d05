package store

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory(quartz.NewMock(t), 0, testLogger()))
}

func TestMemoryEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m := NewMemory(clock, time.Hour, testLogger())

	require.NoError(t, m.Put(ctx, "idle", midHand(t)))
	require.NoError(t, m.Put(ctx, "busy", midHand(t)))

	clock.Advance(40 * time.Minute)
	_, err := m.Get(ctx, "busy")
	require.NoError(t, err, "reads refresh the idle timer")

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "busy")
	assert.NoError(t, err)
}

func TestMemoryGetExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m := NewMemory(clock, time.Minute, testLogger())

	require.NoError(t, m.Put(ctx, "a", midHand(t)))
	clock.Advance(2 * time.Minute)
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, m.Len())
}

func TestMemoryRunStopsWithContext(t *testing.T) {
	m := NewMemory(quartz.NewMock(t), time.Minute, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Second) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	id := newID(t)

	_, err := st.Get(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	s := midHand(t)
	require.NoError(t, st.Put(ctx, id, s))

	got, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	got.Balance = 1
	again, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 500, again.Balance, "stored copy must not alias the returned session")

	s.Bet = 100
	require.NoError(t, st.Put(ctx, id, s))
	got, err = st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Bet)

	corrupt := midHand(t)
	corrupt.Balance = -10
	assert.ErrorIs(t, st.Put(ctx, id, corrupt), game.ErrCorruptSession)

	require.NoError(t, st.Delete(ctx, id))
	_, err = st.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Delete(ctx, id), "deleting twice is fine")

	require.NoError(t, st.Close())
}
