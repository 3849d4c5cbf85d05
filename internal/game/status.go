package game

import "fmt"

// Status is the position of a session in the hand state machine.
type Status uint8

const (
	// StatusNone is the cleared status between dealing a hand and placing a bet.
	StatusNone Status = iota
	StatusDealingToPlayer
	StatusDealingToDealer
	StatusPlayerWon
	StatusDealerWon
	StatusPush
)

var statusNames = [...]string{
	StatusNone:            "",
	StatusDealingToPlayer: "dealing_to_player",
	StatusDealingToDealer: "dealing_to_dealer",
	StatusPlayerWon:       "player_won",
	StatusDealerWon:       "dealer_won",
	StatusPush:            "push",
}

// String returns the string representation of the status
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	if s == StatusNone {
		return "none"
	}
	return statusNames[s]
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// IsTerminal reports whether the hand is over.
func (s Status) IsTerminal() bool {
	return s == StatusPlayerWon || s == StatusDealerWon || s == StatusPush
}

// ParseStatus is the inverse of MarshalText.
func ParseStatus(text string) (Status, error) {
	for i, name := range statusNames {
		if name == text {
			return Status(i), nil
		}
	}
	return StatusNone, fmt.Errorf("%w: %q", ErrUnknownStatus, text)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MessageClass tags the advisory message for display.
type MessageClass string

const (
	ClassAlert   MessageClass = "alert"
	ClassSuccess MessageClass = "success"
	ClassInfo    MessageClass = "info"
	ClassError   MessageClass = "error"
)
