package game

import "github.com/lox/blackjack/internal/deck"

// BustThreshold is the highest total that is not a bust
const BustThreshold = 21

// Totals sums the low and high value of every card. Every ace counts 1 in the
// low total and 11 in the high total; there is no per-ace choice.
func Totals(cards []deck.Card) (low, high int) {
	for _, c := range cards {
		l, h := c.Value()
		low += l
		high += h
	}
	return low, high
}

// IsBust reports whether both totals are over 21
func IsBust(cards []deck.Card) bool {
	low, high := Totals(cards)
	return low > BustThreshold && high > BustThreshold
}

// BestTotal returns the higher total that does not bust, or the low total
// when both bust.
func BestTotal(cards []deck.Card) int {
	low, high := Totals(cards)
	if high <= BustThreshold {
		return high
	}
	return low
}

// IsSoft reports whether the high total is live and differs from the low
// one, i.e. an ace is being counted as 11.
func IsSoft(cards []deck.Card) bool {
	low, high := Totals(cards)
	return high <= BustThreshold && high != low
}
