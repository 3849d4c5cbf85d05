package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Stats are running counters for a session. They are never read back by the
// state machine.
type Stats struct {
	HandsDealt int `json:"hands_dealt"`
	PlayerWins int `json:"player_wins"`
	DealerWins int `json:"dealer_wins"`
	Pushes     int `json:"pushes"`
	Reshuffles int `json:"reshuffles"`
}

// Session is the complete state of one player's game. It is read, mutated by
// exactly one engine command and written back as a unit.
type Session struct {
	PlayerName   string       `json:"player_name"`
	Status       Status       `json:"status"`
	Player       Hand         `json:"player_cards"`
	Dealer       Hand         `json:"dealer_cards"`
	Shoe         deck.Shoe    `json:"shoe"`
	Balance      int          `json:"balance"`
	Bet          int          `json:"bet_amount"`
	PlayerStayed bool         `json:"player_stayed"`
	Message      string       `json:"message"`
	MessageClass MessageClass `json:"message_class"`
	Stats        Stats        `json:"stats"`
}

// CardCount is the number of cards held anywhere in the session.
func (s *Session) CardCount() int {
	return s.Shoe.Count() + len(s.Player) + len(s.Dealer)
}

// Validate checks the session's shape: a known status, non-negative money, a
// live bet once a hand is in play, legal cards and every card of the shoe
// present exactly once per deck.
func (s *Session) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrCorruptSession, ErrUnknownStatus, uint8(s.Status))
	}
	if s.Balance < 0 {
		return fmt.Errorf("%w: %w: %d", ErrCorruptSession, ErrNegativeBalance, s.Balance)
	}
	if s.Bet < 0 {
		return fmt.Errorf("%w: negative bet %d", ErrCorruptSession, s.Bet)
	}
	if s.Status != StatusNone && s.Bet == 0 {
		return fmt.Errorf("%w: status %s without a bet", ErrCorruptSession, s.Status)
	}
	if s.Shoe.Decks < 1 {
		return fmt.Errorf("%w: shoe has %d decks", ErrCorruptSession, s.Shoe.Decks)
	}
	if got, want := s.CardCount(), s.Shoe.Capacity(); got != want {
		return fmt.Errorf("%w: %d cards in play, want %d", ErrCorruptSession, got, want)
	}

	counts := make(map[deck.Card]int, deck.DeckSize)
	for _, pile := range [][]deck.Card{s.Shoe.Draw, s.Shoe.Discard, s.Player, s.Dealer} {
		for _, c := range pile {
			if !c.Valid() {
				return fmt.Errorf("%w: illegal card %v", ErrCorruptSession, c)
			}
			counts[c]++
		}
	}
	for c, n := range counts {
		if n != s.Shoe.Decks {
			return fmt.Errorf("%w: card %s appears %d times in a %d deck shoe", ErrCorruptSession, c, n, s.Shoe.Decks)
		}
	}
	return nil
}

// OutOfFunds reports whether the player can no longer bet.
func (s *Session) OutOfFunds() bool {
	return s.Balance == 0
}

func (s *Session) appendMessage(format string, args ...any) {
	s.Message += fmt.Sprintf(format, args...)
}

func (s *Session) clearMessage() {
	s.Message = ""
	s.MessageClass = ClassAlert
}

func (s *Session) requireHands(op string) error {
	if len(s.Player) == 0 {
		return fault(op, fmt.Errorf("%w: no cards dealt to player", ErrEmptyHand))
	}
	if len(s.Dealer) == 0 {
		return fault(op, fmt.Errorf("%w: no cards dealt to dealer", ErrEmptyHand))
	}
	return nil
}
