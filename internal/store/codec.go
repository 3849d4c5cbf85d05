package store

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

// Encode validates s and returns its stored form.
func Encode(s *game.Session) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrCorruptSession, err)
	}
	return data, nil
}

// Decode parses a stored session and validates it. Unknown statuses, illegal
// cards and broken card conservation are all reported as ErrCorruptSession.
func Decode(data []byte) (*game.Session, error) {
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrCorruptSession, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
