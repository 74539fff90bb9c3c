package game

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultStartingBalance is the balance a new session starts with
const DefaultStartingBalance = 1000

// DefaultChips are the chip denominations on the table
var DefaultChips = []int{1, 5, 10, 50}

// Account tracks the player's money and hands. It knows nothing about
// phases; the session decides when each operation is allowed.
type Account struct {
	balance int
	bet     int
	hands   []*Hand
	chips   []int
}

// NewAccount creates an account with a starting balance and the chip
// denominations it may bet with.
func NewAccount(balance int, chips []int) *Account {
	if len(chips) == 0 {
		chips = DefaultChips
	}
	return &Account{
		balance: balance,
		chips:   slices.Clone(chips),
	}
}

// Balance returns the money not currently wagered
func (a *Account) Balance() int { return a.balance }

// Bet returns the amount wagered on the current round
func (a *Account) Bet() int { return a.bet }

// Chips returns the accepted chip denominations
func (a *Account) Chips() []int { return slices.Clone(a.chips) }

// Hands returns copies of the player's hands
func (a *Account) Hands() []Hand {
	hands := make([]Hand, len(a.hands))
	for i, h := range a.hands {
		hands[i] = h.clone()
	}
	return hands
}

// ActiveHand returns the hand currently being played
func (a *Account) ActiveHand() (*Hand, error) {
	if len(a.hands) == 0 {
		return nil, ErrEmptyHand
	}
	return a.hands[0], nil
}

// CanAfford reports whether any chip can still be bet
func (a *Account) CanAfford() bool {
	for _, c := range a.chips {
		if a.balance >= c {
			return true
		}
	}
	return false
}

// PlaceBet moves one chip from the balance onto the bet
func (a *Account) PlaceBet(chip int) error {
	if !slices.Contains(a.chips, chip) {
		return fmt.Errorf("%w: %d", ErrInvalidChip, chip)
	}
	if a.balance < chip {
		return fmt.Errorf("%w: bet of %d with balance %d", ErrInsufficientFunds, chip, a.balance)
	}
	a.balance -= chip
	a.bet += chip
	return nil
}

// DealInitial deals a fresh two-card hand carrying the accumulated bet
func (a *Account) DealInitial(src deck.Source) *Hand {
	h := &Hand{Bet: a.bet}
	h.Add(src.Deal())
	h.Add(src.Deal())
	a.hands = []*Hand{h}
	return h
}

// Hit deals one card to the active hand
func (a *Account) Hit(src deck.Source) (deck.Card, error) {
	h, err := a.ActiveHand()
	if err != nil {
		return deck.Card{}, err
	}
	c := src.Deal()
	h.Add(c)
	return c, nil
}

// DoubleDown matches the bet from the balance and deals exactly one card
func (a *Account) DoubleDown(src deck.Source) (deck.Card, error) {
	h, err := a.ActiveHand()
	if err != nil {
		return deck.Card{}, err
	}
	if a.balance < a.bet {
		return deck.Card{}, fmt.Errorf("%w: double down of %d with balance %d", ErrInsufficientFunds, a.bet, a.balance)
	}
	a.balance -= a.bet
	a.bet *= 2
	h.Bet = a.bet
	c := src.Deal()
	h.Add(c)
	return c, nil
}

func (a *Account) credit(amount int) {
	a.balance += amount
}

func (a *Account) clearBet() {
	a.bet = 0
}

// clearRound drops hands and the bet once a round has been settled
func (a *Account) clearRound() {
	a.hands = nil
	a.bet = 0
}

func (a *Account) reset(balance int) {
	a.balance = balance
	a.clearRound()
}
