package server

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	clock := quartz.NewMock(t)
	engine := game.NewEngine(game.DefaultConfig(), randutil.NewLocked(1), testLogger(), game.WithClock(clock))
	mem := store.NewMemory(clock, 0, testLogger())
	return NewService(engine, mem, nil, testLogger()), mem
}

// rig replaces the dealt hand of a session that has not bet yet with the
// given cards, keeping every card in the shoe accounted for.
func rig(t *testing.T, svc *Service, id, player, dealer string) {
	t.Helper()
	_, err := svc.Do(context.Background(), id, func(s *game.Session) error {
		s.Shoe.Draw = append(s.Shoe.Draw, s.Player...)
		s.Shoe.Draw = append(s.Shoe.Draw, s.Dealer...)
		s.Player = takeCards(t, s, player)
		s.Dealer = takeCards(t, s, dealer)
		return nil
	})
	require.NoError(t, err)
}

func takeCards(t *testing.T, s *game.Session, codes string) game.Hand {
	t.Helper()
	cards, err := deck.ParseCards(codes)
	require.NoError(t, err)

	hand := game.Hand{}
	for _, c := range cards {
		found := false
		for _, pile := range []*[]deck.Card{&s.Shoe.Draw, &s.Shoe.Discard} {
			if i := slices.Index(*pile, c); i >= 0 {
				*pile = slices.Delete(*pile, i, i+1)
				found = true
				break
			}
		}
		require.True(t, found, "card %s not in shoe", c.Code())
		hand = append(hand, c)
	}
	return hand
}
