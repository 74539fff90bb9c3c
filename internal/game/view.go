package game

import "github.com/lox/blackjack/internal/deck"

// HandView is the read-only state of one player hand
type HandView struct {
	Cards []deck.Card
	Bet   int
	Low   int
	High  int
	Best  int
	Bust  bool
	Soft  bool
}

// DealerView is what the player may know about the dealer's hand. While the
// hole card is hidden Cards[0] is the zero Card and totals cover only the
// up cards.
type DealerView struct {
	Cards      []deck.Card
	HoleHidden bool
	Best       int
	Bust       bool
}

// View is a snapshot of everything the UI renders
type View struct {
	Phase   Phase
	Round   int
	Balance int
	Bet     int
	Chips   []int
	Hands   []HandView
	Dealer  DealerView
	Result  string
	Actions []Action
	Broke   bool

	// CardsLeft is how many cards can be dealt before the source reshuffles,
	// or -1 when the source cannot tell
	CardsLeft int
}

// Dealt reports whether any cards are on the table
func (v View) Dealt() bool {
	return len(v.Hands) > 0
}

// Can reports whether the action is currently offered
func (v View) Can(a Action) bool {
	for _, x := range v.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// View returns a snapshot of the session for rendering
func (s *Session) View() View {
	v := View{
		Phase:   s.phase,
		Round:   s.round,
		Balance: s.account.Balance(),
		Bet:     s.account.Bet(),
		Chips:   s.account.Chips(),
		Actions: s.AvailableActions(),
		Broke:   s.phase == PhaseBetting && s.account.Bet() == 0 && !s.account.CanAfford(),

		CardsLeft: -1,
	}
	if c, ok := s.source.(deck.Counter); ok {
		v.CardsLeft = c.CardsRemaining()
	}

	for _, h := range s.account.Hands() {
		low, high := h.Totals()
		v.Hands = append(v.Hands, HandView{
			Cards: h.Cards,
			Bet:   h.Bet,
			Low:   low,
			High:  high,
			Best:  h.Best(),
			Bust:  h.IsBust(),
			Soft:  IsSoft(h.Cards),
		})
	}

	if s.dealer != nil {
		d := s.dealer.clone()
		v.Dealer = DealerView{
			Cards:      d.Cards,
			HoleHidden: d.HoleHidden(),
			Best:       BestTotal(d.Visible()),
			Bust:       !d.HoleHidden() && d.IsBust(),
		}
		if v.Dealer.HoleHidden {
			v.Dealer.Cards[0] = deck.Card{}
		}
	}

	if s.result != nil {
		v.Result = s.result.Message()
	}
	return v
}

// AvailableActions lists the actions the UI should offer right now. Deal is
// only offered once something has been bet.
func (s *Session) AvailableActions() []Action {
	var actions []Action
	for _, a := range phaseActions[s.phase] {
		if a == ActionDeal && s.account.Bet() == 0 {
			continue
		}
		if a == ActionDoubleDown && s.account.Balance() < s.account.Bet() {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}
