package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Outcome is the result of a round from the player's side
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
	OutcomePush
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	default:
		return "unknown"
	}
}

// Reason explains how an outcome was reached
type Reason int

const (
	ReasonCompare Reason = iota
	ReasonPlayerBust
	ReasonDealerBust
)

// Settlement is the pure result of comparing two hands for a bet. Payout is
// what goes back to the balance; the bet itself was debited when placed.
type Settlement struct {
	Outcome     Outcome
	Reason      Reason
	Bet         int
	Payout      int
	PlayerTotal int
	DealerTotal int
}

// Settle decides a round. A player bust loses before the dealer's hand is
// considered; a dealer bust pays double; otherwise best totals are compared.
func Settle(player, dealer []deck.Card, bet int) Settlement {
	s := Settlement{
		Bet:         bet,
		PlayerTotal: BestTotal(player),
		DealerTotal: BestTotal(dealer),
	}

	switch {
	case IsBust(player):
		s.Outcome, s.Reason = OutcomeLoss, ReasonPlayerBust
	case IsBust(dealer):
		s.Outcome, s.Reason = OutcomeWin, ReasonDealerBust
	case s.PlayerTotal > s.DealerTotal:
		s.Outcome = OutcomeWin
	case s.PlayerTotal < s.DealerTotal:
		s.Outcome = OutcomeLoss
	default:
		s.Outcome = OutcomePush
	}

	switch s.Outcome {
	case OutcomeWin:
		s.Payout = 2 * bet
	case OutcomePush:
		s.Payout = bet
	}
	return s
}

// Net is the change in the player's wealth over the round
func (s Settlement) Net() int {
	return s.Payout - s.Bet
}

// Message is the result text shown at the end of a round
func (s Settlement) Message() string {
	switch {
	case s.Reason == ReasonPlayerBust:
		return fmt.Sprintf("You Lose $%d! (Bust)", s.Bet)
	case s.Reason == ReasonDealerBust:
		return fmt.Sprintf("You Win $%d! (Dealer Bust)", s.Bet)
	case s.Outcome == OutcomeWin:
		return fmt.Sprintf("You Win $%d! (%d to %d)", s.Bet, s.PlayerTotal, s.DealerTotal)
	case s.Outcome == OutcomeLoss:
		return fmt.Sprintf("You Lose $%d! (%d to %d)", s.Bet, s.PlayerTotal, s.DealerTotal)
	default:
		return fmt.Sprintf("Push! $%d returned (%d each)", s.Bet, s.PlayerTotal)
	}
}
