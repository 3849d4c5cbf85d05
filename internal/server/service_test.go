package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, view, err := svc.Create(ctx, "  Alice ")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Alice", view.PlayerName)
	assert.Equal(t, game.StatusNone, view.Status)
	assert.Len(t, view.PlayerCards, 2)
	assert.Equal(t, game.HiddenCard, view.DealerCards[0])
	assert.Equal(t, 500, view.Balance)
	assert.Equal(t, 1, view.Stats.HandsDealt)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view, got)
}

func TestServiceCreateRejectsEmptyName(t *testing.T) {
	svc, mem := newTestService(t)
	_, _, err := svc.Create(context.Background(), " ")
	assert.ErrorIs(t, err, game.ErrInvalidName)
	assert.Zero(t, mem.Len())
}

func TestServiceGetUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Apply(context.Background(), "missing", game.Command{Kind: game.CommandHit})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceRiggedHand(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, _, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)
	rig(t, svc, id, "Th9s", "8h8s")

	view, err := svc.Apply(ctx, id, game.Command{Kind: game.CommandBet, Amount: "100"})
	require.NoError(t, err)
	assert.Equal(t, game.StatusDealingToPlayer, view.Status)

	view, err = svc.Apply(ctx, id, game.Command{Kind: game.CommandStay})
	require.NoError(t, err)
	assert.Equal(t, game.StatusDealingToDealer, view.Status)
	assert.Equal(t, 16, view.DealerTotal)

	for view.Status == game.StatusDealingToDealer {
		view, err = svc.Apply(ctx, id, game.Command{Kind: game.CommandDealerHit})
		require.NoError(t, err)
	}
	assert.True(t, view.Status.IsTerminal())
	switch view.Status {
	case game.StatusPlayerWon:
		assert.Equal(t, 600, view.Balance)
	case game.StatusDealerWon:
		assert.Equal(t, 400, view.Balance)
	case game.StatusPush:
		assert.Equal(t, 500, view.Balance)
	}
}

func TestServiceRejectedCommandIsNotPersisted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, before, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, id, game.Command{Kind: game.CommandBet, Amount: "lots"})
	require.ErrorIs(t, err, game.ErrInvalidBet)
	assert.Equal(t, "Must enter a bet", err.Error())

	_, err = svc.Apply(ctx, id, game.Command{Kind: game.CommandDealerHit})
	require.ErrorIs(t, err, game.ErrIllegalAction)

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestServiceFaultIsNotPersisted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, before, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)

	_, err = svc.Do(ctx, id, func(s *game.Session) error {
		s.Balance = 1_000_000
		return &game.Fault{Op: "test", Err: game.ErrNegativeBalance}
	})
	require.True(t, game.IsFault(err))

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestServiceInvalidMutationIsNotPersisted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, before, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)

	_, err = svc.Do(ctx, id, func(s *game.Session) error {
		s.Shoe.Draw = s.Shoe.Draw[1:]
		return nil
	})
	require.ErrorIs(t, err, game.ErrCorruptSession)
	assert.True(t, game.IsFault(err))

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestServiceSerializesCommandsPerSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, _, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)
	other, _, err := svc.Create(ctx, "Bob")
	require.NoError(t, err)

	const workers = 25
	var inFlight, overlaps atomic.Int32
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := id
			if i%5 == 0 {
				target = other
			}
			_, err := svc.Do(ctx, target, func(s *game.Session) error {
				if target == id {
					if inFlight.Add(1) > 1 {
						overlaps.Add(1)
					}
					defer inFlight.Add(-1)
				}
				// Read-modify-write that loses updates unless serialized.
				n := s.Stats.PlayerWins
				time.Sleep(time.Millisecond)
				s.Stats.PlayerWins = n + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, overlaps.Load())
	view, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workers-workers/5, view.Stats.PlayerWins)

	view, err = svc.Get(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, workers/5, view.Stats.PlayerWins)
}

func TestServiceConcurrentRandomPlay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, view, err := svc.Create(ctx, fmt.Sprintf("player%d", p))
			require.NoError(t, err)
			choices := randutil.New(int64(p + 1))

			for range 50 {
				cmd := game.Command{Kind: game.CommandHit}
				switch view.Status {
				case game.StatusNone:
					cmd = game.Command{Kind: game.CommandBet, Amount: "5"}
				case game.StatusDealingToPlayer:
					if choices.IntN(2) == 0 {
						cmd.Kind = game.CommandStay
					}
				case game.StatusDealingToDealer:
					cmd.Kind = game.CommandDealerHit
				default:
					if view.Goodbye {
						return
					}
					cmd.Kind = game.CommandNewHand
				}
				view, err = svc.Apply(ctx, id, cmd)
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestServiceStartOver(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, _, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)

	view, err := svc.StartOver(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Goodbye)
	assert.Equal(t, 500, view.Balance)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.StartOver(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// corruptStore returns a session that fails validation for every Get.
type corruptStore struct{ store.Store }

func (corruptStore) Get(context.Context, string) (*game.Session, error) {
	return store.Decode([]byte(`{"status":"dealing_to_player","balance":-1}`))
}

func TestServiceCorruptStoredSessionIsFault(t *testing.T) {
	engine := game.NewEngine(game.DefaultConfig(), randutil.New(1), testLogger())
	svc := NewService(engine, corruptStore{}, nil, testLogger())

	_, err := svc.Apply(context.Background(), "any", game.Command{Kind: game.CommandHit})
	assert.True(t, game.IsFault(err))
	assert.ErrorIs(t, err, game.ErrCorruptSession)

	_, err = svc.Get(context.Background(), "any")
	assert.True(t, game.IsFault(err))
}
