// Package game implements the blackjack round state machine and the deck
// and hand accounting behind it.
//
// The main type is Session, which owns the card source, the player's account
// and the dealer's hand, and moves through the phases of a round:
//
//	RoundStart -> Betting -> PlayerTurn -> DealerTurn -> RoundEnd -> Betting
//
// # Basic Usage
//
//	s := game.NewSession(randutil.New(42))
//	_ = s.Start()
//	_ = s.Dispatch(game.ChipSelected(50))
//	_ = s.Dispatch(game.Pressed(game.ActionDeal))
//	_ = s.Dispatch(game.Pressed(game.ActionStand))
//	fmt.Println(s.View().Result)
//
// Every operation is synchronous. Actions not accepted by the current phase
// are rejected with an error wrapping ErrInvalidAction and change nothing.
//
// # Scoring
//
// Hand totals use a (low, high) pair: every ace counts 1 in the low total and
// 11 in the high total. This is simpler than choosing per ace, so a hand with
// two aces has high total 22 and is scored on its low total.
//
// # Deterministic Testing
//
// Supply a stacked source to replay exact rounds:
//
//	src := deck.NewStacked(deck.MustParseCards("7h8d Kc6s Ts"), nil)
//	s := game.NewSession(nil, game.WithSource(src))
package game
