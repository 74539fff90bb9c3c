package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult is the outcome of a single round from the player's side
type RoundResult struct {
	Net         int // Chips won (positive) or lost (negative)
	Bet         int // Final bet, after any double down
	Outcome     game.Outcome
	Reason      game.Reason
	DoubledDown bool
	PlayerTotal int
	DealerTotal int
}

// FromSettlement converts a session round result
func FromSettlement(r game.RoundResult) RoundResult {
	return RoundResult{
		Net:         r.Settlement.Net(),
		Bet:         r.Settlement.Bet,
		Outcome:     r.Settlement.Outcome,
		Reason:      r.Settlement.Reason,
		DoubledDown: r.DoubledDown,
		PlayerTotal: r.Settlement.PlayerTotal,
		DealerTotal: r.Settlement.DealerTotal,
	}
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wagered int       // Total chips bet, doubles included

	Wins   int
	Losses int
	Pushes int

	PlayerBusts int // Losses by going over 21
	DealerBusts int // Wins because the dealer went over 21

	Doubles    int     // Rounds where the player doubled down
	DoublesNet float64 // Net chips from doubled rounds
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Bet

	switch result.Outcome {
	case game.OutcomeWin:
		s.Wins++
		if result.Reason == game.ReasonDealerBust {
			s.DealerBusts++
		}
	case game.OutcomeLoss:
		s.Losses++
		if result.Reason == game.ReasonPlayerBust {
			s.PlayerBusts++
		}
	case game.OutcomePush:
		s.Pushes++
	}

	if result.DoubledDown {
		s.Doubles++
		s.DoublesNet += net
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.Doubles += other.Doubles
	s.DoublesNet += other.DoublesNet
}

// Mean returns the mean net chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	// Rounding can push a zero variance just below zero
	return max(0, (s.SumNet2-float64(s.Rounds)*mean*mean)/float64(s.Rounds-1))
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Return is the net result per chip wagered, the house edge when negative
func (s *Statistics) Return() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / float64(s.Wagered)
}

// WinRate returns the share of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if outcomes := s.Wins + s.Losses + s.Pushes; outcomes != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds (%d)", outcomes, s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.PlayerBusts > s.Losses {
		return fmt.Errorf("player busts (%d) exceed losses (%d)", s.PlayerBusts, s.Losses)
	}
	if s.DealerBusts > s.Wins {
		return fmt.Errorf("dealer busts (%d) exceed wins (%d)", s.DealerBusts, s.Wins)
	}
	return nil
}
