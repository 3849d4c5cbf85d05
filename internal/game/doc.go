// Package game implements the blackjack engine: hand scoring, the hand status
// state machine and settlement of the player's bet against the house.
//
// The main type is Session, the complete state of one player's game, and
// Engine, which applies commands to it:
//
//	e := game.NewEngine(game.DefaultConfig(), randutil.New(42), logger)
//	s := e.NewGame("Alice")
//	_ = e.NewHand(s)
//	_ = e.PlaceBet(s, "25")
//	_ = e.PlayerStay(s)
//	_ = e.PlayDealer(s)
//
// # State machine
//
// After every card-affecting command DecideStatus re-evaluates the session.
// While the player is acting it checks, in order: both naturals (push),
// player natural, dealer natural, player bust, and player reaching 21 by
// hitting. While the dealer is acting it checks dealer bust and then whether
// the dealer stands (17 or more), comparing totals if so. Settled statuses
// are terminal and re-evaluating them is a no-op, so the bet is never settled
// twice.
//
// # Errors
//
// Player mistakes (a malformed bet, acting out of turn) return recoverable
// errors and leave the session untouched. Invariant violations return a
// *Fault; the session must then be discarded rather than persisted.
//
// # Concurrency
//
// Engine methods are synchronous and hold no per-session state. One engine
// may serve many sessions concurrently, but commands against a single
// session must be serialized by the caller.
package game
