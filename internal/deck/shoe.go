package deck

import (
	rand "math/rand/v2"
)

// MaxDecks bounds the number of decks a shoe can hold
const MaxDecks = 8

// Shoe holds several decks. Every deal picks one of them uniformly at random
// rather than exhausting them in order.
type Shoe struct {
	decks []*Deck
	rng   *rand.Rand
}

// NewShoe creates a shoe of n independently shuffled decks. n is clamped to
// [1, MaxDecks].
func NewShoe(rng *rand.Rand, n int) *Shoe {
	n = max(1, min(n, MaxDecks))
	s := &Shoe{
		decks: make([]*Deck, n),
		rng:   rng,
	}
	for i := range s.decks {
		s.decks[i] = NewDeck(rng)
	}
	return s
}

// Deal deals one card from a randomly chosen deck
func (s *Shoe) Deal() Card {
	var i int
	if s.rng != nil {
		i = s.rng.IntN(len(s.decks))
	} else {
		i = rand.IntN(len(s.decks))
	}
	return s.decks[i].Deal()
}

// Shuffle reshuffles every deck in the shoe
func (s *Shoe) Shuffle() {
	for _, d := range s.decks {
		d.Shuffle()
	}
}

// Decks returns the number of decks in the shoe
func (s *Shoe) Decks() int {
	return len(s.decks)
}

// CardsRemaining sums the cards left before each deck's next reshuffle
func (s *Shoe) CardsRemaining() int {
	total := 0
	for _, d := range s.decks {
		total += d.CardsRemaining()
	}
	return total
}

// New returns a single deck for n <= 1 and a shoe otherwise.
func New(rng *rand.Rand, n int) Source {
	if n <= 1 {
		return NewDeck(rng)
	}
	return NewShoe(rng, n)
}
