package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/game"
)

// MessageType identifies the payload of a WebSocket message.
type MessageType string

// Client → server
const (
	MessageTypeNewGame   MessageType = "new_game"
	MessageTypeAttach    MessageType = "attach"
	MessageTypeNewHand   MessageType = "new_hand"
	MessageTypeBet       MessageType = "bet"
	MessageTypeHit       MessageType = "hit"
	MessageTypeStay      MessageType = "stay"
	MessageTypeDealerHit MessageType = "dealer_hit"
	MessageTypeLeave     MessageType = "leave"
)

// Server → client
const (
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

type NewGameData struct {
	Name string `json:"name"`
}

type AttachData struct {
	SessionID string `json:"sessionId"`
}

type BetData struct {
	Amount string `json:"amount"`
}

// StateData is the reply to every successful command.
type StateData struct {
	SessionID string    `json:"sessionId"`
	View      game.View `json:"view"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// commandFor maps the per-session message types onto engine commands.
var commandFor = map[MessageType]game.CommandKind{
	MessageTypeNewHand:   game.CommandNewHand,
	MessageTypeBet:       game.CommandBet,
	MessageTypeHit:       game.CommandHit,
	MessageTypeStay:      game.CommandStay,
	MessageTypeDealerHit: game.CommandDealerHit,
}
