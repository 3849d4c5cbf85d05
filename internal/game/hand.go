package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// WinValue is the total both sides are trying to reach.
	WinValue = 21
	// DealerStandsAt is the total at or above which the dealer stops drawing.
	DealerStandsAt = 17

	softAceBonus = 10
)

// Hand is an ordered run of cards. Order only matters for display.
type Hand []deck.Card

// Total returns the hand's point total. Cards are summed at their hard value
// and, when the hand holds an ace and the sum is at most 11, one ace is
// counted as 11. Only one ace is ever promoted.
func (h Hand) Total() int {
	total := h.hardTotal()
	if h.hasAce() && total <= WinValue-softAceBonus {
		total += softAceBonus
	}
	return total
}

// IsSoft reports whether Total counts an ace as 11.
func (h Hand) IsSoft() bool {
	return h.hasAce() && h.hardTotal() <= WinValue-softAceBonus
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Total() == WinValue
}

// IsBust reports whether the hand is over 21.
func (h Hand) IsBust() bool {
	return h.Total() > WinValue
}

func (h Hand) hardTotal() int {
	total := 0
	for _, c := range h {
		total += c.Points()
	}
	return total
}

func (h Hand) hasAce() bool {
	for _, c := range h {
		if c.IsAce() {
			return true
		}
	}
	return false
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
