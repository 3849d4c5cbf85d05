package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewHidesHoleCardWhilePlayerActs(t *testing.T) {
	for _, status := range []Status{StatusNone, StatusDealingToPlayer} {
		bet := 10
		if status == StatusNone {
			bet = 0
		}
		s := sessionWithHands(t, "Th6s", "9d7s", status, 500, bet)
		v := NewView(s)
		assert.Equal(t, []string{HiddenCard, "7♠"}, v.DealerCards)
		assert.Zero(t, v.DealerTotal)
		assert.Equal(t, 16, v.PlayerTotal)
		assert.Equal(t, "9♦", s.Dealer[0].String(), "view must not modify the session")
	}
}

func TestViewRevealsDealerHand(t *testing.T) {
	s := sessionWithHands(t, "Th6s", "9d7s", StatusDealingToDealer, 500, 10)
	v := NewView(s)
	assert.Equal(t, []string{"9♦", "7♠"}, v.DealerCards)
	assert.Equal(t, 16, v.DealerTotal)
	assert.Equal(t, 48, v.CardsLeft)
}

func TestViewMessageClass(t *testing.T) {
	s := sessionWithHands(t, "Th6s", "9d7s", StatusPlayerWon, 500, 10)
	assert.Equal(t, ClassSuccess, NewView(s).MessageClass)

	s.Status = StatusDealerWon
	assert.Equal(t, ClassError, NewView(s).MessageClass)

	s.Status = StatusDealingToPlayer
	s.MessageClass = ClassInfo
	assert.Equal(t, ClassInfo, NewView(s).MessageClass)

	s.MessageClass = ""
	assert.Equal(t, ClassAlert, NewView(s).MessageClass)
}

func TestViewGoodbye(t *testing.T) {
	s := sessionWithHands(t, "KhQs5d", "9d7s", StatusDealerWon, 0, 10)
	assert.True(t, NewView(s).Goodbye)

	s.Balance = 10
	assert.False(t, NewView(s).Goodbye)
}
