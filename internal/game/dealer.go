package game

import "github.com/lox/blackjack/internal/deck"

// DealerPolicy is the dealer's fixed drawing strategy. The dealer draws
// while the low total is below HardStand, or while the high total is below
// SoftStand and the hand holds an ace. A hand with no ace therefore stands
// on HardStand.
type DealerPolicy struct {
	HardStand int
	SoftStand int
}

// DefaultDealerPolicy stands on hard 17 and draws to any hand whose low
// total is under 17, soft 18 to 21 included
var DefaultDealerPolicy = DealerPolicy{HardStand: 17, SoftStand: 18}

// ShouldHit reports whether the dealer draws on these cards
func (p DealerPolicy) ShouldHit(cards []deck.Card) bool {
	low, high := Totals(cards)
	return low < p.HardStand || (high < p.SoftStand && high != low)
}

// Play draws cards into the dealer's hand until the policy stands and
// returns the number of cards drawn. Every draw raises both totals, so the
// loop ends.
func (p DealerPolicy) Play(src deck.Source, hand *DealerHand) int {
	drawn := 0
	for p.ShouldHit(hand.Cards) {
		c := src.Deal()
		if low, _ := c.Value(); low == 0 {
			break // exhausted stacked source
		}
		hand.Add(c)
		drawn++
	}
	return drawn
}
