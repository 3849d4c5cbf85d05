package store

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/sessionid"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// midHand returns a session with a bet on the table and the player to act.
func midHand(t *testing.T) *game.Session {
	t.Helper()
	e := game.NewEngine(game.DefaultConfig(), randutil.New(7), testLogger())
	s := e.NewGame("Alice")
	// A fixed, unsettled hand: 10 + 6 against 9 + 7.
	for _, code := range []string{"Th", "6s"} {
		s.Player = append(s.Player, take(t, s, code))
	}
	for _, code := range []string{"9d", "7c"} {
		s.Dealer = append(s.Dealer, take(t, s, code))
	}
	require.NoError(t, e.PlaceBet(s, "50"))
	require.Equal(t, game.StatusDealingToPlayer, s.Status)
	return s
}

// take moves the card with code out of whichever shoe pile holds it.
func take(t *testing.T, s *game.Session, code string) deck.Card {
	t.Helper()
	c, err := deck.ParseCard(code)
	require.NoError(t, err)
	for _, pile := range []*[]deck.Card{&s.Shoe.Draw, &s.Shoe.Discard} {
		if i := slices.Index(*pile, c); i >= 0 {
			*pile = slices.Delete(*pile, i, i+1)
			return c
		}
	}
	t.Fatalf("card %s not in shoe", code)
	return c
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := sessionid.Generate()
	require.NoError(t, err)
	return id
}
