package game

import "fmt"

func recordPlayerWin(s *Session) {
	s.Balance += s.Bet
	s.Status = StatusPlayerWon
	s.MessageClass = ClassSuccess
	s.Stats.PlayerWins++
}

// recordDealerWin takes the bet from the player. Bets are capped at the
// balance when placed, so a negative result means the session is corrupt.
func recordDealerWin(s *Session) error {
	if s.Balance-s.Bet < 0 {
		return fault("record dealer win", fmt.Errorf("%w: balance %d, bet %d", ErrNegativeBalance, s.Balance, s.Bet))
	}
	s.Balance -= s.Bet
	s.Status = StatusDealerWon
	s.MessageClass = ClassError
	s.Stats.DealerWins++
	return nil
}

func recordPush(s *Session) {
	s.Status = StatusPush
	s.MessageClass = ClassAlert
	s.Stats.Pushes++
}
