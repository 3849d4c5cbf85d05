package game

import (
	"fmt"
	rand "math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// Config holds the table rules an engine deals with.
type Config struct {
	Decks           int
	StartingBalance int
}

// DefaultConfig returns a single-deck table with a $500 starting balance.
func DefaultConfig() Config {
	return Config{Decks: 1, StartingBalance: 500}
}

// Engine applies player commands to sessions. It holds no session state of
// its own; callers must serialize commands against any one session.
type Engine struct {
	config Config
	rng    *rand.Rand
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithEventBus publishes engine events on bus.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine creates an engine. rng must be safe for concurrent use if the
// engine is shared between goroutines (see randutil.NewLocked).
func NewEngine(config Config, rng *rand.Rand, logger *log.Logger, opts ...Option) *Engine {
	if config.Decks < 1 {
		config.Decks = 1
	}
	e := &Engine{
		config: config,
		rng:    rng,
		logger: logger.WithPrefix("engine"),
		bus:    NewEventBus(),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's table rules.
func (e *Engine) Config() Config {
	return e.config
}

// Events returns the bus engine events are published on.
func (e *Engine) Events() EventBus {
	return e.bus
}

// NewGame creates a session with a fresh shoe and the starting balance. No
// cards are dealt until NewHand.
func (e *Engine) NewGame(name string) *Session {
	s := &Session{
		PlayerName: name,
		Status:     StatusNone,
		Player:     Hand{},
		Dealer:     Hand{},
		Shoe:       deck.BuildShoe(e.config.Decks, e.rng),
		Balance:    e.config.StartingBalance,
	}
	s.clearMessage()
	e.logger.Debug("New game", "player", name, "decks", e.config.Decks, "balance", s.Balance)
	return s
}

// NewHand discards the previous hand, deals a new one and clears the bet.
// A hand that is still being played cannot be abandoned.
func (e *Engine) NewHand(s *Session) error {
	switch {
	case s.Balance < 0:
		return fault("new hand", fmt.Errorf("%w: %d", ErrNegativeBalance, s.Balance))
	case s.Balance == 0:
		return ErrOutOfFunds
	case s.Status == StatusDealingToPlayer || s.Status == StatusDealingToDealer:
		return fmt.Errorf("%w: new hand while %s", ErrIllegalAction, s.Status)
	}

	s.clearMessage()
	if err := e.DealHand(s); err != nil {
		return err
	}
	s.Status = StatusNone
	s.Bet = 0
	return nil
}

// DealHand moves both hands to the discard pile and deals two cards each,
// alternating player and dealer.
func (e *Engine) DealHand(s *Session) error {
	s.PlayerStayed = false
	s.Shoe.DiscardCards(s.Dealer...)
	s.Shoe.DiscardCards(s.Player...)
	s.Dealer = Hand{}
	s.Player = Hand{}

	for range 2 {
		if err := e.dealTo(s, &s.Player, "deal hand"); err != nil {
			return err
		}
		if err := e.dealTo(s, &s.Dealer, "deal hand"); err != nil {
			return err
		}
	}
	s.Stats.HandsDealt++

	e.logger.Debug("Dealt hand", "player", s.PlayerName, "cards", s.Player, "upcard", s.Dealer[1])
	e.bus.Publish(HandDealtEvent{
		PlayerName: s.PlayerName,
		Player:     append(Hand{}, s.Player...),
		Upcard:     s.Dealer[1].String(),
		timestamp:  e.clock.Now(),
	})
	return nil
}

// MaxNameLength bounds player names accepted by ParseName.
const MaxNameLength = 32

// ParseName trims raw and checks it is usable as a player name.
func ParseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", invalid(ErrInvalidName, "Must enter a name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", invalid(ErrInvalidName, "Name cannot be longer than %d characters.", MaxNameLength)
	}
	return name, nil
}

var betPattern = regexp.MustCompile(`^0*[1-9]\d*$`)

// ParseBet validates raw bet input against the balance.
func ParseBet(raw string, balance int) (int, error) {
	raw = strings.TrimSpace(raw)
	if !betPattern.MatchString(raw) {
		return 0, invalid(ErrInvalidBet, "Must enter a bet")
	}
	amount, err := strconv.Atoi(raw)
	if err != nil || amount > balance {
		return 0, invalid(ErrBetExceedsBalance, "Bet cannot be greater than what you have ($%d).", balance)
	}
	return amount, nil
}

// PlaceBet stakes the bet on the dealt hand and starts play. A natural on
// either side settles immediately.
func (e *Engine) PlaceBet(s *Session, raw string) error {
	if s.Status != StatusNone {
		return fmt.Errorf("%w: bet while %s", ErrIllegalAction, s.Status)
	}
	if err := s.requireHands("place bet"); err != nil {
		return err
	}
	amount, err := ParseBet(raw, s.Balance)
	if err != nil {
		return err
	}

	s.Bet = amount
	s.Status = StatusDealingToPlayer
	e.logger.Debug("Bet placed", "player", s.PlayerName, "bet", amount, "balance", s.Balance)
	return e.decide(s, "place bet")
}

// PlayerHit deals one card to the player.
func (e *Engine) PlayerHit(s *Session) error {
	if err := requireStatus(s, StatusDealingToPlayer, "player hit"); err != nil {
		return err
	}
	if err := s.requireHands("player hit"); err != nil {
		return err
	}
	if err := e.dealTo(s, &s.Player, "player hit"); err != nil {
		return err
	}
	return e.decide(s, "player hit")
}

// PlayerStay ends the player's turn and hands play to the dealer.
func (e *Engine) PlayerStay(s *Session) error {
	if err := requireStatus(s, StatusDealingToPlayer, "player stay"); err != nil {
		return err
	}
	if err := s.requireHands("player stay"); err != nil {
		return err
	}
	s.PlayerStayed = true
	s.Status = StatusDealingToDealer
	s.appendMessage("%s stays at %d. ", s.PlayerName, s.Player.Total())
	return e.decide(s, "player stay")
}

// DealerHit deals one card to the dealer.
func (e *Engine) DealerHit(s *Session) error {
	if err := requireStatus(s, StatusDealingToDealer, "dealer hit"); err != nil {
		return err
	}
	if err := s.requireHands("dealer hit"); err != nil {
		return err
	}
	if err := e.dealTo(s, &s.Dealer, "dealer hit"); err != nil {
		return err
	}
	return e.decide(s, "dealer hit")
}

// PlayDealer draws for the dealer until the hand is decided.
func (e *Engine) PlayDealer(s *Session) error {
	for s.Status == StatusDealingToDealer {
		if err := e.DealerHit(s); err != nil {
			return err
		}
	}
	return nil
}

func requireStatus(s *Session, want Status, op string) error {
	if s.Status != want {
		return fmt.Errorf("%w: %s while %s", ErrIllegalAction, op, s.Status)
	}
	return nil
}

func (e *Engine) dealTo(s *Session, target *Hand, op string) error {
	card, reshuffled, err := s.Shoe.Deal(e.rng)
	if err != nil {
		return fault(op, err)
	}
	if reshuffled {
		s.appendMessage("Dealer shuffled the cards. ")
		if s.MessageClass == ClassAlert {
			s.MessageClass = ClassInfo
		}
		s.Stats.Reshuffles++
		e.logger.Info("Reshuffled discard pile", "player", s.PlayerName, "cards", s.Shoe.CardsRemaining()+1)
		e.bus.Publish(ReshuffleEvent{
			PlayerName: s.PlayerName,
			Cards:      s.Shoe.CardsRemaining() + 1,
			timestamp:  e.clock.Now(),
		})
	}
	*target = append(*target, card)
	return nil
}

func (e *Engine) decide(s *Session, op string) error {
	before := s.Status
	if err := DecideStatus(s); err != nil {
		return fault(op, err)
	}
	if before.IsTerminal() || !s.Status.IsTerminal() {
		return nil
	}

	e.logger.Debug("Hand settled",
		"player", s.PlayerName,
		"outcome", s.Status,
		"bet", s.Bet,
		"balance", s.Balance,
		"playerTotal", s.Player.Total(),
		"dealerTotal", s.Dealer.Total())
	e.bus.Publish(HandSettledEvent{
		PlayerName:  s.PlayerName,
		Outcome:     s.Status,
		Bet:         s.Bet,
		Balance:     s.Balance,
		PlayerTotal: s.Player.Total(),
		DealerTotal: s.Dealer.Total(),
		timestamp:   e.clock.Now(),
	})
	return nil
}
