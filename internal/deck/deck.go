package deck

import (
	"errors"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in one standard deck.
const DeckSize = 52

// ErrShoeExhausted is returned when both the draw and discard piles are empty.
// With the conservation invariant intact this means cards were lost.
var ErrShoeExhausted = errors.New("shoe exhausted: draw and discard piles are empty")

// NewDeck returns the 52 cards of one deck in rank-major order.
func NewDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for rank := Two; rank <= Ace; rank++ {
		for _, suit := range Suits {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle permutes cards uniformly in place (Fisher-Yates).
func Shuffle(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Shoe holds the cards that are not in anyone's hand: the draw pile, taken
// from the end, and the discard pile. A Shoe is plain data so it can be
// persisted; randomness is supplied by the caller.
type Shoe struct {
	Decks   int    `json:"decks"`
	Draw    []Card `json:"draw"`
	Discard []Card `json:"discard"`
}

// BuildShoe returns a shoe whose draw pile holds decks full decks in random order.
func BuildShoe(decks int, rng *rand.Rand) Shoe {
	if decks < 1 {
		decks = 1
	}
	draw := make([]Card, 0, decks*DeckSize)
	for range decks {
		draw = append(draw, NewDeck()...)
	}
	Shuffle(draw, rng)
	return Shoe{Decks: decks, Draw: draw, Discard: []Card{}}
}

// Deal removes the top card of the draw pile. When the draw pile is empty the
// discard pile is shuffled into it first and reshuffled is true.
func (s *Shoe) Deal(rng *rand.Rand) (card Card, reshuffled bool, err error) {
	if len(s.Draw) == 0 {
		if len(s.Discard) == 0 {
			return Card{}, false, ErrShoeExhausted
		}
		s.Draw, s.Discard = s.Discard, []Card{}
		Shuffle(s.Draw, rng)
		reshuffled = true
	}

	last := len(s.Draw) - 1
	card = s.Draw[last]
	s.Draw = s.Draw[:last]
	return card, reshuffled, nil
}

// DiscardCards adds cards to the discard pile.
func (s *Shoe) DiscardCards(cards ...Card) {
	s.Discard = append(s.Discard, cards...)
}

// Count returns the number of cards in the draw and discard piles.
func (s *Shoe) Count() int {
	return len(s.Draw) + len(s.Discard)
}

// Capacity is the number of cards the shoe was built with.
func (s *Shoe) Capacity() int {
	return s.Decks * DeckSize
}

// CardsRemaining returns the number of cards left in the draw pile
func (s *Shoe) CardsRemaining() int {
	return len(s.Draw)
}
