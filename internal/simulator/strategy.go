package simulator

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// Strategy decides how an automated player bets and plays. Strategies are
// stateless and shared by every session in a run.
type Strategy interface {
	Name() string
	// Bet returns the amount to wager on the next round
	Bet(v game.View) int
	// Decide picks Hit, Stand or DoubleDown during the player's turn
	Decide(v game.View) game.Action
}

var strategies = map[string]func(bet int) Strategy{
	"mimic":      func(bet int) Strategy { return MimicDealer{Stake: bet} },
	"never-bust": func(bet int) Strategy { return NeverBust{Stake: bet} },
	"double":     func(bet int) Strategy { return DoubleOnTen{Stake: bet} },
}

// NewStrategy creates a strategy by name with a flat bet
func NewStrategy(name string, bet int) (Strategy, error) {
	create, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, StrategyNames())
	}
	return create(bet), nil
}

// StrategyNames lists the registered strategies
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MimicDealer plays the dealer's own policy
type MimicDealer struct{ Stake int }

func (s MimicDealer) Name() string { return "mimic" }
func (s MimicDealer) Bet(game.View) int { return s.Stake }
func (s MimicDealer) Decide(v game.View) game.Action {
	if game.DefaultDealerPolicy.ShouldHit(v.Hands[0].Cards) {
		return game.ActionHit
	}
	return game.ActionStand
}

// NeverBust never draws to a hard 12 or more
type NeverBust struct{ Stake int }

func (s NeverBust) Name() string { return "never-bust" }
func (s NeverBust) Bet(game.View) int { return s.Stake }
func (s NeverBust) Decide(v game.View) game.Action {
	h := v.Hands[0]
	if h.Soft && h.Best < 18 {
		return game.ActionHit
	}
	if !h.Soft && h.Low < 12 {
		return game.ActionHit
	}
	return game.ActionStand
}

// DoubleOnTen doubles down on a first-two-card 10 or 11 and otherwise
// plays like the dealer
type DoubleOnTen struct{ Stake int }

func (s DoubleOnTen) Name() string { return "double" }
func (s DoubleOnTen) Bet(game.View) int { return s.Stake }
func (s DoubleOnTen) Decide(v game.View) game.Action {
	h := v.Hands[0]
	if len(h.Cards) == 2 && (h.Best == 10 || h.Best == 11) && v.Can(game.ActionDoubleDown) {
		return game.ActionDoubleDown
	}
	return MimicDealer{}.Decide(v)
}
