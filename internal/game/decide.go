package game

import "fmt"

// DecideStatus re-evaluates the session after a card-affecting action and
// settles the bet when the hand is decided. Calling it again without an
// intervening action changes nothing: terminal statuses are left alone.
func DecideStatus(s *Session) error {
	switch s.Status {
	case StatusDealingToPlayer:
		return decidePlayerTurn(s)
	case StatusDealingToDealer:
		return decideDealerTurn(s)
	case StatusPlayerWon, StatusDealerWon, StatusPush:
		return nil
	default:
		return fault("decide status", fmt.Errorf("%w: %s", ErrUnknownStatus, s.Status))
	}
}

func decidePlayerTurn(s *Session) error {
	if err := s.requireHands("decide status"); err != nil {
		return err
	}
	player, dealer := s.Player, s.Dealer

	switch {
	case player.IsBlackjack() && dealer.IsBlackjack():
		s.appendMessage("Both %s and dealer hit blackjack. Push. ", s.PlayerName)
		recordPush(s)
	case player.IsBlackjack():
		s.appendMessage("%s hit blackjack. ", s.PlayerName)
		recordPlayerWin(s)
	case dealer.IsBlackjack():
		s.appendMessage("Dealer hit blackjack. ")
		return recordDealerWin(s)
	case player.IsBust():
		s.appendMessage("%s busts with %d. ", s.PlayerName, player.Total())
		return recordDealerWin(s)
	case player.Total() == WinValue && len(player) > 2:
		s.appendMessage("%s stays at %d. ", s.PlayerName, WinValue)
		s.Status = StatusDealingToDealer
		return decideDealerTurn(s)
	}
	return nil
}

func decideDealerTurn(s *Session) error {
	if err := s.requireHands("decide status"); err != nil {
		return err
	}
	player, dealer := s.Player.Total(), s.Dealer.Total()

	switch {
	case s.Dealer.IsBust():
		s.appendMessage("Dealer busts with %d. ", dealer)
		recordPlayerWin(s)
	case dealer >= DealerStandsAt:
		s.appendMessage("Dealer stays at %d. ", dealer)
		switch {
		case player > dealer:
			s.appendMessage("%s wins %d to %d. ", s.PlayerName, player, dealer)
			recordPlayerWin(s)
		case player < dealer:
			s.appendMessage("Dealer wins %d to %d. ", dealer, player)
			return recordDealerWin(s)
		default:
			s.appendMessage("Push at %d. ", player)
			recordPush(s)
		}
	}
	return nil
}
