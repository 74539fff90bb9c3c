package game

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
)

// eventRecorder captures every event published by a session
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) phases() []Phase {
	var phases []Phase
	for _, e := range r.events {
		if pc, ok := e.(PhaseChangeEvent); ok {
			phases = append(phases, pc.To)
		}
	}
	return phases
}

func (r *eventRecorder) count(et EventType) int {
	n := 0
	for _, e := range r.events {
		if e.EventType() == et {
			n++
		}
	}
	return n
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackedSession starts a session dealing the given cards in order: two to
// the player, then the dealer's hole card and up card, then any draws.
func stackedSession(t *testing.T, cards string, opts ...SessionOption) (*Session, *eventRecorder) {
	t.Helper()
	src := deck.NewStacked(deck.MustParseCards(cards), nil)
	opts = append([]SessionOption{
		WithSource(src),
		WithLogger(quietLogger()),
		WithClock(quartz.NewMock(t)),
	}, opts...)

	s := NewSession(nil, opts...)
	rec := &eventRecorder{}
	s.EventBus().Subscribe(rec)
	require.NoError(t, s.Start())
	return s, rec
}

func betAndDeal(t *testing.T, s *Session, chips ...int) {
	t.Helper()
	for _, c := range chips {
		require.NoError(t, s.Dispatch(ChipSelected(c)))
	}
	require.NoError(t, s.Dispatch(Pressed(ActionDeal)))
	require.Equal(t, PhasePlayerTurn, s.Phase())
}

func TestSessionStart(t *testing.T) {
	s := NewSession(randutil.New(1), WithLogger(quietLogger()))
	assert.Equal(t, PhaseRoundStart, s.Phase())
	assert.Equal(t, DefaultStartingBalance, s.Balance())

	require.NoError(t, s.Start())
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, 1, s.Round())

	err := s.Start()
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, PhaseBetting, s.Phase())
}

func TestSessionPlayerBust(t *testing.T) {
	s, rec := stackedSession(t, "7h8d Kc9s Ts 5c")

	betAndDeal(t, s, 50)
	assert.Equal(t, 950, s.Balance())

	require.NoError(t, s.Dispatch(Pressed(ActionHit)))

	assert.Equal(t, PhaseRoundEnd, s.Phase())
	assert.Equal(t, 950, s.Balance(), "bet was forfeited when placed")
	assert.Equal(t, 0, s.Bet())

	hand, err := s.PlayerHand()
	require.NoError(t, err)
	assert.Equal(t, 25, hand.Best())
	assert.True(t, hand.IsBust())

	dealer, err := s.DealerHand()
	require.NoError(t, err)
	assert.Len(t, dealer.Cards, 2, "dealer does not play after a player bust")
	assert.False(t, dealer.HoleHidden())

	result, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "You Lose $50! (Bust)", result.Message())
	assert.Equal(t, []Phase{PhaseBetting, PhasePlayerTurn, PhaseRoundEnd}, rec.phases())
	assert.Equal(t, 1, rec.count(EventTypeHoleRevealed))
}

func TestSessionDealerBust(t *testing.T) {
	s, rec := stackedSession(t, "KhQd 6cTs 9h")

	betAndDeal(t, s, 50)
	require.NoError(t, s.Dispatch(Pressed(ActionStand)))

	assert.Equal(t, PhaseRoundEnd, s.Phase())
	assert.Equal(t, 1050, s.Balance(), "950 after the bet plus twice the bet")
	assert.Equal(t, 0, s.Bet())

	result, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeWin, result.Settlement.Outcome)
	assert.Equal(t, ReasonDealerBust, result.Settlement.Reason)
	assert.Equal(t, "You Win $50! (Dealer Bust)", result.Message())
	assert.Equal(t, deck.MustParseCards("6cTs9h"), result.DealerCards)
	assert.Equal(t, []Phase{PhaseBetting, PhasePlayerTurn, PhaseDealerTurn, PhaseRoundEnd}, rec.phases())
}

func TestSessionDoubleDown(t *testing.T) {
	s, rec := stackedSession(t, "5h6d Kc7s 9h")

	var atDealerTurn struct{ balance, bet, cards int }
	s.EventBus().Subscribe(EventSubscriberFunc(func(e GameEvent) {
		if pc, ok := e.(PhaseChangeEvent); ok && pc.To == PhaseDealerTurn {
			h, _ := s.PlayerHand()
			atDealerTurn.balance, atDealerTurn.bet, atDealerTurn.cards = s.Balance(), s.Bet(), len(h.Cards)
		}
	}))

	betAndDeal(t, s, 50)
	require.NoError(t, s.Dispatch(Pressed(ActionDoubleDown)))

	assert.Equal(t, 900, atDealerTurn.balance)
	assert.Equal(t, 100, atDealerTurn.bet)
	assert.Equal(t, 3, atDealerTurn.cards, "exactly one card added")

	// 20 beats the dealer's hard 17
	assert.Equal(t, PhaseRoundEnd, s.Phase())
	assert.Equal(t, 1100, s.Balance())
	result, _ := s.Result()
	assert.True(t, result.DoubledDown)
	assert.Equal(t, 100, result.Settlement.Bet)
	assert.Equal(t, []Phase{PhaseBetting, PhasePlayerTurn, PhaseDealerTurn, PhaseRoundEnd}, rec.phases())
}

func TestSessionDoubleDownBust(t *testing.T) {
	s, rec := stackedSession(t, "Th6d Kc7s Qh")

	betAndDeal(t, s, 50)
	require.NoError(t, s.Dispatch(Pressed(ActionDoubleDown)))

	assert.Equal(t, PhaseRoundEnd, s.Phase())
	assert.Equal(t, 900, s.Balance())
	assert.Equal(t, []Phase{PhaseBetting, PhasePlayerTurn, PhaseRoundEnd}, rec.phases())
}

func TestSessionDoubleDownInsufficientFunds(t *testing.T) {
	s, _ := stackedSession(t, "5h6d Kc7s 9h", WithStartingBalance(60))

	betAndDeal(t, s, 50)
	assert.NotContains(t, s.AvailableActions(), ActionDoubleDown)

	err := s.Dispatch(Pressed(ActionDoubleDown))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, PhasePlayerTurn, s.Phase())
	assert.Equal(t, 10, s.Balance())
	assert.Equal(t, 50, s.Bet())

	hand, _ := s.PlayerHand()
	assert.Len(t, hand.Cards, 2)
}

func TestSessionInsufficientFunds(t *testing.T) {
	s, rec := stackedSession(t, "", WithStartingBalance(10))

	err := s.Dispatch(ChipSelected(50))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 10, s.Balance())
	assert.Equal(t, 0, s.Bet())
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, 1, rec.count(EventTypeActionRejected))
}

func TestSessionPushAndLoss(t *testing.T) {
	t.Run("push returns the bet", func(t *testing.T) {
		s, _ := stackedSession(t, "KhQd KcQs")
		betAndDeal(t, s, 10, 10)
		require.NoError(t, s.Dispatch(Pressed(ActionStand)))
		assert.Equal(t, 1000, s.Balance())
		result, _ := s.Result()
		assert.Equal(t, OutcomePush, result.Settlement.Outcome)
	})

	t.Run("lower total loses", func(t *testing.T) {
		s, _ := stackedSession(t, "Th7d KcQs")
		betAndDeal(t, s, 50)
		require.NoError(t, s.Dispatch(Pressed(ActionStand)))
		assert.Equal(t, 950, s.Balance())
		assert.Equal(t, "You Lose $50! (17 to 20)", s.View().Result)
	})
}

func TestSessionRejectsActionsOutsidePhase(t *testing.T) {
	s, _ := stackedSession(t, "KhQd KcQs")

	tests := []struct {
		name  string
		input Input
		phase Phase
	}{
		{"hit while betting", Pressed(ActionHit), PhaseBetting},
		{"stand while betting", Pressed(ActionStand), PhaseBetting},
		{"double while betting", Pressed(ActionDoubleDown), PhaseBetting},
		{"keep playing while betting", Pressed(ActionKeepPlaying), PhaseBetting},
		{"unknown action", Input{Action: Action(99)}, PhaseBetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Dispatch(tt.input)
			require.ErrorIs(t, err, ErrInvalidAction)
			var ae *ActionError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.phase, ae.Phase)
			assert.Equal(t, tt.phase, s.Phase())
		})
	}

	betAndDeal(t, s, 5)
	require.ErrorIs(t, s.Dispatch(ChipSelected(5)), ErrInvalidAction)
	require.ErrorIs(t, s.Dispatch(Pressed(ActionDeal)), ErrInvalidAction)
	assert.Equal(t, 5, s.Bet())
	assert.Equal(t, PhasePlayerTurn, s.Phase())
}

func TestSessionDealRequiresBet(t *testing.T) {
	s, _ := stackedSession(t, "KhQd KcQs")

	assert.Equal(t, []Action{ActionChip, ActionHome}, s.AvailableActions())
	require.ErrorIs(t, s.Dispatch(Pressed(ActionDeal)), ErrNoBet)
	assert.Equal(t, PhaseBetting, s.Phase())

	require.NoError(t, s.Dispatch(ChipSelected(1)))
	assert.Equal(t, []Action{ActionChip, ActionDeal, ActionHome}, s.AvailableActions())
}

func TestSessionEmptyHandQueries(t *testing.T) {
	s, _ := stackedSession(t, "KhQd KcQs")

	_, err := s.PlayerHand()
	require.ErrorIs(t, err, ErrEmptyHand)
	_, err = s.DealerHand()
	require.ErrorIs(t, err, ErrEmptyHand)
	_, ok := s.Result()
	assert.False(t, ok)

	v := s.View()
	assert.False(t, v.Dealt())
	assert.Empty(t, v.Dealer.Cards)
}

func TestSessionSettlesOnce(t *testing.T) {
	s, rec := stackedSession(t, "KhQd 6cTs 9h")

	betAndDeal(t, s, 50)
	require.NoError(t, s.Stand())
	require.Equal(t, 1050, s.Balance())

	s.settle()
	s.settle()

	assert.Equal(t, 1050, s.Balance())
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 1, rec.count(EventTypeRoundSettled))
}

func TestSessionHoleCardHiddenUntilPlayerTurnEnds(t *testing.T) {
	s, rec := stackedSession(t, "KhQd 6cTs 9h")
	betAndDeal(t, s, 50)

	v := s.View()
	require.True(t, v.Dealer.HoleHidden)
	assert.Equal(t, deck.Card{}, v.Dealer.Cards[0])
	assert.Equal(t, deck.NewCard(deck.Spades, deck.Ten), v.Dealer.Cards[1])
	assert.Equal(t, 10, v.Dealer.Best)

	for _, e := range rec.events {
		if cd, ok := e.(CardDealtEvent); ok && cd.Hidden {
			assert.Equal(t, deck.Card{}, cd.Card, "hidden card must not leak through events")
		}
	}

	require.NoError(t, s.Dispatch(Pressed(ActionStand)))
	v = s.View()
	assert.False(t, v.Dealer.HoleHidden)
	assert.Equal(t, deck.NewCard(deck.Clubs, deck.Six), v.Dealer.Cards[0])
	assert.True(t, v.Dealer.Bust)
}

func TestSessionKeepPlaying(t *testing.T) {
	s, _ := stackedSession(t, "KhQd 6cTs 9h")
	betAndDeal(t, s, 50)
	require.NoError(t, s.Dispatch(Pressed(ActionStand)))

	require.NoError(t, s.Dispatch(Pressed(ActionKeepPlaying)))
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, 2, s.Round())
	assert.Equal(t, 1050, s.Balance())

	_, err := s.PlayerHand()
	require.ErrorIs(t, err, ErrEmptyHand)
	_, ok := s.Result()
	assert.False(t, ok)
	assert.Len(t, s.History(), 1)
}

func TestSessionRoundIDs(t *testing.T) {
	clock := quartz.NewMock(t)
	s, _ := stackedSession(t, "KhQd 6cTs 9h KhQd 6cTs 9h", WithClock(clock))

	betAndDeal(t, s, 50)
	require.NoError(t, s.Stand())
	first, _ := s.Result()
	require.NoError(t, roundid.Validate(first.ID))

	clock.Advance(time.Second)
	require.NoError(t, s.KeepPlaying())
	betAndDeal(t, s, 50)
	require.NoError(t, s.Stand())
	second, _ := s.Result()
	require.NoError(t, roundid.Validate(second.ID))

	assert.Less(t, first.ID, second.ID, "IDs sort by the time the round was dealt")
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
}

func TestSessionHome(t *testing.T) {
	s, rec := stackedSession(t, "KhQd 6cTs 9h")
	betAndDeal(t, s, 50)

	require.NoError(t, s.Dispatch(Pressed(ActionHome)))
	assert.Equal(t, PhaseRoundStart, s.Phase())
	assert.Equal(t, DefaultStartingBalance, s.Balance())
	assert.Equal(t, 0, s.Bet())
	assert.Empty(t, s.History())
	_, err := s.PlayerHand()
	require.ErrorIs(t, err, ErrEmptyHand)
	assert.Equal(t, 1, rec.count(EventTypeSessionReset))

	require.NoError(t, s.Start())
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, 1, s.Round())
}

func TestSessionEventTimestampsUseClock(t *testing.T) {
	clock := quartz.NewMock(t)
	s, rec := stackedSession(t, "KhQd 6cTs 9h", WithClock(clock))
	betAndDeal(t, s, 50)
	require.NoError(t, s.Stand())

	require.NotEmpty(t, rec.events)
	for _, e := range rec.events {
		assert.Equal(t, clock.Now(), e.Timestamp(), "event %s", e.EventType())
	}
	result, _ := s.Result()
	assert.Equal(t, clock.Now(), result.At)
}

func TestSessionShoeMode(t *testing.T) {
	s := NewSession(randutil.New(3), WithDecks(2), WithLogger(quietLogger()))
	_, ok := s.source.(*deck.Shoe)
	assert.True(t, ok, "two decks deal from a shoe")
	assert.Equal(t, 2*(deck.Size-1), s.View().CardsLeft)
}

func TestSessionWithoutRNG(t *testing.T) {
	s := NewSession(nil, WithLogger(quietLogger()))
	require.NoError(t, s.Start())
	betAndDeal(t, s, 10)

	hand, err := s.PlayerHand()
	require.NoError(t, err)
	assert.Len(t, hand.Cards, 2)
	assert.Equal(t, deck.Size-5, s.View().CardsLeft, "a time-seeded deck is dealt")
}

// sameCard deals one card forever and cannot report what is left
type sameCard struct{ card deck.Card }

func (s sameCard) Deal() deck.Card { return s.card }

func TestSessionViewCardsLeft(t *testing.T) {
	s := NewSession(randutil.New(4), WithLogger(quietLogger()))
	require.NoError(t, s.Start())
	assert.Equal(t, deck.Size-1, s.View().CardsLeft)

	betAndDeal(t, s, 10)
	assert.Equal(t, deck.Size-5, s.View().CardsLeft, "four cards dealt")

	s = NewSession(nil, WithSource(sameCard{deck.NewCard(deck.Spades, deck.Two)}), WithLogger(quietLogger()))
	assert.Equal(t, -1, s.View().CardsLeft)
}

// Plays many rounds against a real deck and checks that money is only ever
// moved by bets and settlements.
func TestSessionMoneyIsConserved(t *testing.T) {
	s := NewSession(randutil.New(42), WithLogger(quietLogger()), WithClock(quartz.NewMock(t)))
	require.NoError(t, s.Start())

	for round := 0; round < 500 && s.Balance() >= 10; round++ {
		before := s.Balance()
		require.NoError(t, s.PlaceBet(10))

		require.NoError(t, s.Deal())
		for s.Phase() == PhasePlayerTurn {
			hand, err := s.PlayerHand()
			require.NoError(t, err)
			switch {
			case hand.Best() == 11 && s.Balance() >= s.Bet():
				require.NoError(t, s.DoubleDown())
			case hand.Best() < 17:
				require.NoError(t, s.Hit())
			default:
				require.NoError(t, s.Stand())
			}
		}

		require.Equal(t, PhaseRoundEnd, s.Phase())
		result, ok := s.Result()
		require.True(t, ok)
		assert.Equal(t, before+result.Settlement.Net(), s.Balance(), "round %d", result.Round)
		assert.GreaterOrEqual(t, s.Balance(), 0)
		assert.Equal(t, 0, s.Bet())

		require.NoError(t, s.KeepPlaying())
	}
}
