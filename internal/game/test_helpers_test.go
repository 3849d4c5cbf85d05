package game

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestEngine(opts ...Option) *Engine {
	return NewEngine(DefaultConfig(), randutil.New(42), testLogger(), opts...)
}

func cards(t *testing.T, s string) Hand {
	t.Helper()
	c, err := deck.ParseCards(s)
	require.NoError(t, err)
	return Hand(c)
}

// removeCards takes each of want out of pile, failing if one is missing.
func removeCards(t *testing.T, pile []deck.Card, want ...deck.Card) []deck.Card {
	t.Helper()
	for _, c := range want {
		i := slices.Index(pile, c)
		require.GreaterOrEqual(t, i, 0, "card %v not in pile", c)
		pile = slices.Delete(pile, i, i+1)
	}
	return pile
}

// sessionWithHands returns a session in status with the given hands dealt from
// an otherwise full single-deck shoe, so the conservation invariant holds.
func sessionWithHands(t *testing.T, player, dealer string, status Status, balance, bet int) *Session {
	t.Helper()
	p, d := cards(t, player), cards(t, dealer)
	shoe := deck.BuildShoe(1, randutil.New(1))
	shoe.Draw = removeCards(t, shoe.Draw, p...)
	shoe.Draw = removeCards(t, shoe.Draw, d...)

	s := &Session{
		PlayerName:   "Alice",
		Status:       status,
		Player:       p,
		Dealer:       d,
		Shoe:         shoe,
		Balance:      balance,
		Bet:          bet,
		MessageClass: ClassAlert,
	}
	require.NoError(t, s.Validate())
	return s
}

// stackDraw arranges for next to be dealt in order from the draw pile.
func stackDraw(t *testing.T, s *Session, next string) {
	t.Helper()
	want := cards(t, next)
	s.Shoe.Draw = removeCards(t, s.Shoe.Draw, want...)
	for i := len(want) - 1; i >= 0; i-- {
		s.Shoe.Draw = append(s.Shoe.Draw, want[i])
	}
}

type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *recordingSubscriber) ofType(et EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}
