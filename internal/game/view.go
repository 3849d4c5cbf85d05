package game

import "github.com/lox/blackjack/internal/deck"

// HiddenCard is shown in place of the dealer's hole card.
const HiddenCard = "??"

// View is what a player is allowed to see of a session.
type View struct {
	PlayerName   string       `json:"player_name"`
	Status       Status       `json:"status"`
	PlayerCards  []string     `json:"player_cards"`
	DealerCards  []string     `json:"dealer_cards"`
	PlayerTotal  int          `json:"player_total"`
	DealerTotal  int          `json:"dealer_total,omitempty"`
	Balance      int          `json:"balance"`
	Bet          int          `json:"bet_amount,omitempty"`
	PlayerStayed bool         `json:"player_stayed"`
	Message      string       `json:"message,omitempty"`
	MessageClass MessageClass `json:"message_class"`
	CardsLeft    int          `json:"cards_left"`
	Goodbye      bool         `json:"goodbye,omitempty"`
	Stats        Stats        `json:"stats"`
}

// NewView projects s for display. The dealer's first card and total stay
// hidden until the player has finished acting.
func NewView(s *Session) View {
	hideHole := s.Status == StatusNone || s.Status == StatusDealingToPlayer

	v := View{
		PlayerName:   s.PlayerName,
		Status:       s.Status,
		PlayerCards:  cardStrings(s.Player),
		DealerCards:  cardStrings(s.Dealer),
		PlayerTotal:  s.Player.Total(),
		Balance:      s.Balance,
		Bet:          s.Bet,
		PlayerStayed: s.PlayerStayed,
		Message:      s.Message,
		MessageClass: classFor(s),
		CardsLeft:    s.Shoe.CardsRemaining(),
		Goodbye:      s.OutOfFunds() && (s.Status == StatusNone || s.Status.IsTerminal()),
		Stats:        s.Stats,
	}
	if hideHole && len(v.DealerCards) > 0 {
		v.DealerCards[0] = HiddenCard
	} else {
		v.DealerTotal = s.Dealer.Total()
	}
	return v
}

func classFor(s *Session) MessageClass {
	switch s.Status {
	case StatusPlayerWon:
		return ClassSuccess
	case StatusDealerWon:
		return ClassError
	}
	if s.MessageClass == "" {
		return ClassAlert
	}
	return s.MessageClass
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
