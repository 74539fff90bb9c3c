package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is one of the player's hands and the bet riding on it
type Hand struct {
	Cards []deck.Card
	Bet   int
}

// Add appends a card to the hand
func (h *Hand) Add(c deck.Card) {
	h.Cards = append(h.Cards, c)
}

// Totals returns the hand's (low, high) totals
func (h *Hand) Totals() (low, high int) { return Totals(h.Cards) }

// IsBust reports whether the hand is bust
func (h *Hand) IsBust() bool { return IsBust(h.Cards) }

// Best returns the total shown to the player
func (h *Hand) Best() int { return BestTotal(h.Cards) }

func (h Hand) clone() Hand {
	return Hand{Cards: append([]deck.Card(nil), h.Cards...), Bet: h.Bet}
}

func (h *Hand) String() string {
	return formatCards(h.Cards)
}

// DealerHand holds the dealer's cards. The first card is the hole card and
// stays face down until Reveal is called.
type DealerHand struct {
	Cards    []deck.Card
	revealed bool
}

// Add appends a card to the dealer's hand
func (d *DealerHand) Add(c deck.Card) {
	d.Cards = append(d.Cards, c)
}

// Reveal turns the hole card face up. It reports false if it was already up
// or there is no hole card yet.
func (d *DealerHand) Reveal() bool {
	if d.revealed || len(d.Cards) == 0 {
		return false
	}
	d.revealed = true
	return true
}

// HoleHidden reports whether the hole card is still face down
func (d *DealerHand) HoleHidden() bool {
	return !d.revealed && len(d.Cards) > 0
}

// Visible returns the cards the player can see
func (d *DealerHand) Visible() []deck.Card {
	if d.HoleHidden() {
		return append([]deck.Card(nil), d.Cards[1:]...)
	}
	return append([]deck.Card(nil), d.Cards...)
}

// IsBust reports whether the dealer is bust
func (d *DealerHand) IsBust() bool { return IsBust(d.Cards) }

// Best returns the dealer's total over all cards, hidden or not
func (d *DealerHand) Best() int { return BestTotal(d.Cards) }

func (d DealerHand) clone() DealerHand {
	return DealerHand{Cards: append([]deck.Card(nil), d.Cards...), revealed: d.revealed}
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
