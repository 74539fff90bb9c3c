package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// Source is anything cards can be drawn from. Deck, Shoe and Stacked all
// satisfy it; the game only ever depends on this interface.
type Source interface {
	Deal() Card
}

// Counter is a source that knows how many cards it can deal before it
// reshuffles or starts over.
type Counter interface {
	CardsRemaining() int
}

// Deck represents a standard 52-card deck dealt from a cursor.
//
// The deck never runs dry: when the cursor reaches the last index it is
// reshuffled in place and dealing restarts from the top. The final position
// of each pass is therefore never dealt.
type Deck struct {
	cards      [Size]Card
	next       int
	rng        *rand.Rand
	reshuffles int
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			d.cards[i] = NewCard(suit, rank)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle permutes the deck in place using Fisher-Yates and resets the cursor.
func (d *Deck) Shuffle() {
	d.next = 0
	swap := func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] }
	if d.rng != nil {
		d.rng.Shuffle(len(d.cards), swap)
	} else {
		rand.Shuffle(len(d.cards), swap)
	}
}

// Deal returns the card under the cursor and advances it. When the cursor
// sits on the last index the deck is reshuffled first.
func (d *Deck) Deal() Card {
	if d.next >= len(d.cards)-1 {
		d.Shuffle()
		d.reshuffles++
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// CardsRemaining returns the number of cards that can be dealt before the
// next reshuffle.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - 1 - d.next
}

// Dealt returns a copy of the cards dealt since the last shuffle
func (d *Deck) Dealt() []Card {
	return append([]Card(nil), d.cards[:d.next]...)
}

// Undealt returns a copy of the cards not yet dealt since the last shuffle
func (d *Deck) Undealt() []Card {
	return append([]Card(nil), d.cards[d.next:]...)
}

// Reshuffles returns how many times dealing has forced a reshuffle
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}
