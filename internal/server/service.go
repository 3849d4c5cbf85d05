package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/sessionid"
	"github.com/lox/blackjack/internal/store"
)

// Service applies engine commands to stored sessions. Each command runs under
// the session's lock as one load, mutate, save cycle, so two commands against
// the same session never interleave.
type Service struct {
	engine *game.Engine
	store  store.Store
	locks  *store.Locker
	ids    *sessionid.Generator
	logger *log.Logger
}

// NewService creates a service. ids may be nil to use the default generator.
func NewService(engine *game.Engine, st store.Store, ids *sessionid.Generator, logger *log.Logger) *Service {
	if ids == nil {
		ids = sessionid.NewGenerator(nil, nil)
	}
	svc := &Service{
		engine: engine,
		store:  st,
		locks:  store.NewLocker(),
		ids:    ids,
		logger: logger.WithPrefix("service"),
	}
	engine.Events().Subscribe(game.EventSubscriberFunc(svc.logEvent))
	return svc
}

func (svc *Service) logEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandSettledEvent:
		svc.logger.Info("Hand settled",
			"player", e.PlayerName,
			"outcome", e.Outcome,
			"bet", e.Bet,
			"balance", e.Balance,
			"playerTotal", e.PlayerTotal,
			"dealerTotal", e.DealerTotal)
	case game.ReshuffleEvent:
		svc.logger.Debug("Shoe reshuffled", "player", e.PlayerName, "cards", e.Cards)
	}
}

// Engine returns the engine commands are applied with.
func (svc *Service) Engine() *game.Engine {
	return svc.engine
}

// Create starts a new game for name, deals the first hand and stores it.
func (svc *Service) Create(ctx context.Context, name string) (string, game.View, error) {
	name, err := game.ParseName(name)
	if err != nil {
		return "", game.View{}, err
	}
	id, err := svc.ids.Generate()
	if err != nil {
		return "", game.View{}, err
	}

	s := svc.engine.NewGame(name)
	if err := svc.engine.NewHand(s); err != nil {
		return "", game.View{}, svc.failed(id, "create", err)
	}
	if err := svc.store.Put(ctx, id, s); err != nil {
		return "", game.View{}, svc.failed(id, "create", err)
	}

	svc.logger.Info("Session created", "session", id, "player", name)
	return id, game.NewView(s), nil
}

// Get returns the current view of a session.
func (svc *Service) Get(ctx context.Context, id string) (game.View, error) {
	s, err := svc.store.Get(ctx, id)
	if err != nil {
		return game.View{}, svc.failed(id, "get", err)
	}
	return game.NewView(s), nil
}

// Do runs fn against the session under its lock and persists the result.
// When fn fails nothing is written: recoverable errors leave the stored
// session as it was and faults discard the half-applied mutation.
func (svc *Service) Do(ctx context.Context, id string, fn func(*game.Session) error) (game.View, error) {
	unlock, err := svc.locks.Lock(ctx, id)
	if err != nil {
		return game.View{}, err
	}
	defer unlock()

	s, err := svc.store.Get(ctx, id)
	if err != nil {
		return game.View{}, svc.failed(id, "load", err)
	}
	if err := fn(s); err != nil {
		return game.View{}, svc.failed(id, "apply", err)
	}
	if err := svc.store.Put(ctx, id, s); err != nil {
		return game.View{}, svc.failed(id, "save", err)
	}
	return game.NewView(s), nil
}

// Apply runs one engine command against a stored session.
func (svc *Service) Apply(ctx context.Context, id string, cmd game.Command) (game.View, error) {
	view, err := svc.Do(ctx, id, func(s *game.Session) error {
		return svc.engine.Apply(s, cmd)
	})
	if err == nil {
		svc.logger.Debug("Applied command", "session", id, "command", cmd.Kind, "status", view.Status)
	}
	return view, err
}

// StartOver deletes the session and returns its final view, flagged as a
// goodbye.
func (svc *Service) StartOver(ctx context.Context, id string) (game.View, error) {
	unlock, err := svc.locks.Lock(ctx, id)
	if err != nil {
		return game.View{}, err
	}
	defer unlock()

	s, err := svc.store.Get(ctx, id)
	if err != nil {
		return game.View{}, svc.failed(id, "start over", err)
	}
	if err := svc.store.Delete(ctx, id); err != nil {
		return game.View{}, svc.failed(id, "start over", err)
	}

	svc.logger.Info("Session ended", "session", id, "player", s.PlayerName, "balance", s.Balance)
	view := game.NewView(s)
	view.Goodbye = true
	return view, nil
}

// failed logs err at a level matching its severity and returns it. Stored
// sessions that fail validation are reported as faults.
func (svc *Service) failed(id, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		svc.logger.Debug("Session not found", "session", id, "op", op)
	case errors.Is(err, game.ErrCorruptSession) && !game.IsFault(err):
		err = &game.Fault{Op: op, Err: err}
		svc.logger.Error("Corrupt session", "session", id, "error", err)
	case game.IsFault(err):
		svc.logger.Error("Invariant violated, session not saved", "session", id, "error", err)
	case game.IsValidation(err), errors.Is(err, game.ErrIllegalAction), errors.Is(err, game.ErrOutOfFunds):
		svc.logger.Debug("Command rejected", "session", id, "op", op, "error", err)
	default:
		err = fmt.Errorf("%s session %s: %w", op, id, err)
		svc.logger.Error("Store error", "session", id, "error", err)
	}
	return err
}
