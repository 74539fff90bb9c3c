package statistics

import (
	"math"
	"testing"

	"github.com/lox/blackjack/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.Return() != 0 {
		t.Errorf("Expected return of 0 for empty stats, got %f", stats.Return())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 10, Bet: 10, Outcome: game.OutcomeWin, Reason: game.ReasonDealerBust})
	stats.Add(RoundResult{Net: -20, Bet: 20, Outcome: game.OutcomeLoss, Reason: game.ReasonPlayerBust, DoubledDown: true})
	stats.Add(RoundResult{Net: 0, Bet: 10, Outcome: game.OutcomePush})
	stats.Add(RoundResult{Net: -10, Bet: 10, Outcome: game.OutcomeLoss})

	if stats.Rounds != 4 {
		t.Errorf("Expected 4 rounds, got %d", stats.Rounds)
	}
	if stats.Wins != 1 || stats.Losses != 2 || stats.Pushes != 1 {
		t.Errorf("Unexpected outcome counts: %d/%d/%d", stats.Wins, stats.Losses, stats.Pushes)
	}
	if stats.PlayerBusts != 1 || stats.DealerBusts != 1 {
		t.Errorf("Unexpected bust counts: player %d dealer %d", stats.PlayerBusts, stats.DealerBusts)
	}
	if stats.Doubles != 1 || stats.DoublesNet != -20 {
		t.Errorf("Unexpected doubles: %d (%f)", stats.Doubles, stats.DoublesNet)
	}
	if stats.Mean() != -5 {
		t.Errorf("Expected mean of -5, got %f", stats.Mean())
	}
	if stats.Wagered != 50 {
		t.Errorf("Expected 50 wagered, got %d", stats.Wagered)
	}
	if math.Abs(stats.Return()-(-0.4)) > 1e-9 {
		t.Errorf("Expected return of -0.4, got %f", stats.Return())
	}
	if stats.WinRate() != 0.25 {
		t.Errorf("Expected win rate of 0.25, got %f", stats.WinRate())
	}
	if stats.Median() != -5 {
		t.Errorf("Expected median of -5, got %f", stats.Median())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	for _, net := range []int{10, -10, 10, -10} {
		outcome := game.OutcomeWin
		if net < 0 {
			outcome = game.OutcomeLoss
		}
		stats.Add(RoundResult{Net: net, Bet: 10, Outcome: outcome})
	}

	// mean 0, sum of squares 400, n-1 = 3
	expected := 400.0 / 3.0
	if math.Abs(stats.Variance()-expected) > 1e-9 {
		t.Errorf("Expected variance %f, got %f", expected, stats.Variance())
	}

	low, high := stats.ConfidenceInterval95()
	if low >= 0 || high <= 0 || math.Abs(low+high) > 1e-9 {
		t.Errorf("Expected symmetric interval around 0, got [%f, %f]", low, high)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	a.Add(RoundResult{Net: 10, Bet: 10, Outcome: game.OutcomeWin})
	b := &Statistics{}
	b.Add(RoundResult{Net: -10, Bet: 10, Outcome: game.OutcomeLoss, Reason: game.ReasonPlayerBust})
	b.Add(RoundResult{Net: 0, Bet: 10, Outcome: game.OutcomePush})

	a.Merge(b)
	if a.Rounds != 3 || len(a.Values) != 3 {
		t.Errorf("Expected 3 merged rounds, got %d (%d values)", a.Rounds, len(a.Values))
	}
	if a.Wagered != 30 || a.PlayerBusts != 1 {
		t.Errorf("Unexpected merged totals: wagered %d busts %d", a.Wagered, a.PlayerBusts)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_ValidateCatchesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 10, Bet: 10, Outcome: game.OutcomeWin})
	stats.Wins++

	if err := stats.Validate(); err == nil {
		t.Error("Expected outcome mismatch to fail validation")
	}
}

func TestFromSettlement(t *testing.T) {
	settlement := game.Settlement{
		Outcome:     game.OutcomeWin,
		Reason:      game.ReasonDealerBust,
		Bet:         100,
		Payout:      200,
		PlayerTotal: 20,
		DealerTotal: 25,
	}
	r := FromSettlement(game.RoundResult{Settlement: settlement, DoubledDown: true})

	if r.Net != 100 || r.Bet != 100 || !r.DoubledDown {
		t.Errorf("Unexpected conversion: %+v", r)
	}
	if r.PlayerTotal != 20 || r.DealerTotal != 25 {
		t.Errorf("Unexpected totals: %+v", r)
	}
}
