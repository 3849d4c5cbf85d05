package game

import "fmt"

// CommandKind names a player-facing action.
type CommandKind string

const (
	CommandNewHand   CommandKind = "new_hand"
	CommandBet       CommandKind = "bet"
	CommandHit       CommandKind = "hit"
	CommandStay      CommandKind = "stay"
	CommandDealerHit CommandKind = "dealer_hit"
)

// Command is one action against an existing session. Amount is the raw bet
// input and is only read by CommandBet.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Amount string      `json:"amount,omitempty"`
}

// Apply dispatches cmd to the matching engine method.
func (e *Engine) Apply(s *Session, cmd Command) error {
	switch cmd.Kind {
	case CommandNewHand:
		return e.NewHand(s)
	case CommandBet:
		return e.PlaceBet(s, cmd.Amount)
	case CommandHit:
		return e.PlayerHit(s)
	case CommandStay:
		return e.PlayerStay(s)
	case CommandDealerHit:
		return e.DealerHit(s)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrIllegalAction, cmd.Kind)
	}
}
