package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds          int // Rounds per session
	Sessions        int
	Strategy        string
	Bet             int
	Workers         int // Concurrent sessions, 0 means one per CPU
	Seed            int64
	Decks           int
	StartingBalance int
	Chips           []int
	Logger          *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Decks == 0 {
		c.Decks = 1
	}
	if c.StartingBalance == 0 {
		c.StartingBalance = game.DefaultStartingBalance
	}
	if len(c.Chips) == 0 {
		c.Chips = game.DefaultChips
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Result is the outcome of a simulation run
type Result struct {
	Strategy      string
	Seed          int64
	Stats         *statistics.Statistics
	Sessions      int
	Broke         int   // Sessions that ran out of money before the last round
	FinalBalances []int // Indexed by session
}

type sessionResult struct {
	stats   *statistics.Statistics
	balance int
	broke   bool
}

// Run plays cfg.Sessions independent sessions of up to cfg.Rounds rounds
// each, at most cfg.Workers at a time. A session stops early once it can no
// longer afford its bet.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	if cfg.Rounds <= 0 || cfg.Sessions <= 0 {
		return nil, fmt.Errorf("rounds and sessions must be positive: %d x %d", cfg.Rounds, cfg.Sessions)
	}
	if cfg.Bet <= 0 {
		return nil, fmt.Errorf("bet must be positive: %d", cfg.Bet)
	}
	if _, err := chipsFor(cfg.Bet, cfg.Chips); err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(cfg.Strategy, cfg.Bet)
	if err != nil {
		return nil, err
	}

	seed := randutil.Resolve(cfg.Seed)
	seeds := randutil.Split(seed, cfg.Sessions)
	cfg.Logger.Info("Starting simulation",
		"strategy", strategy.Name(),
		"sessions", cfg.Sessions,
		"rounds", cfg.Rounds,
		"workers", cfg.Workers,
		"seed", seed)

	results := make([]sessionResult, cfg.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Sessions {
		g.Go(func() error {
			r, err := playSession(ctx, cfg, strategy, i, seeds[i])
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seeds[i], err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Strategy:      strategy.Name(),
		Seed:          seed,
		Stats:         &statistics.Statistics{},
		Sessions:      cfg.Sessions,
		FinalBalances: make([]int, cfg.Sessions),
	}
	for i, r := range results {
		out.Stats.Merge(r.stats)
		out.FinalBalances[i] = r.balance
		if r.broke {
			out.Broke++
		}
	}
	return out, nil
}

// playSession drives one session with the strategy until it runs out of
// rounds or money
func playSession(ctx context.Context, cfg Config, strategy Strategy, id int, seed int64) (sessionResult, error) {
	logger := cfg.Logger.With("session", id)
	session := game.NewSession(randutil.New(seed),
		game.WithLogger(logger),
		game.WithDecks(cfg.Decks),
		game.WithStartingBalance(cfg.StartingBalance),
		game.WithChips(cfg.Chips),
	)
	if err := session.Start(); err != nil {
		return sessionResult{}, err
	}

	result := sessionResult{stats: &statistics.Statistics{}}
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return sessionResult{}, err
		}
		if round > 0 {
			if err := session.KeepPlaying(); err != nil {
				return sessionResult{}, err
			}
		}

		bet := strategy.Bet(session.View())
		if bet > session.Balance() {
			logger.Debug("Out of money", "round", round+1, "balance", session.Balance())
			result.broke = true
			break
		}
		if err := placeBet(session, bet, cfg.Chips); err != nil {
			return sessionResult{}, err
		}
		if err := session.Deal(); err != nil {
			return sessionResult{}, err
		}

		for session.Phase() == game.PhasePlayerTurn {
			action := strategy.Decide(session.View())
			if err := session.Dispatch(game.Pressed(action)); err != nil {
				return sessionResult{}, fmt.Errorf("round %d: %w", round+1, err)
			}
		}

		settled, ok := session.Result()
		if !ok {
			return sessionResult{}, fmt.Errorf("round %d ended in %s without a result", round+1, session.Phase())
		}
		result.stats.Add(statistics.FromSettlement(settled))
	}

	result.balance = session.Balance()
	return result, nil
}

func placeBet(session *game.Session, amount int, chips []int) error {
	stack, err := chipsFor(amount, chips)
	if err != nil {
		return err
	}
	for _, chip := range stack {
		if err := session.PlaceBet(chip); err != nil {
			return err
		}
	}
	return nil
}

// chipsFor breaks an amount into chips, largest first
func chipsFor(amount int, chips []int) ([]int, error) {
	var stack []int
	remaining := amount
	for i := len(chips) - 1; i >= 0 && remaining > 0; i-- {
		for remaining >= chips[i] {
			stack = append(stack, chips[i])
			remaining -= chips[i]
		}
	}
	if remaining != 0 {
		return nil, fmt.Errorf("bet of %d cannot be made from chips %v", amount, chips)
	}
	return stack, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, r *Result) {
	stats := r.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s ===\n", r.Strategy)
	fmt.Fprintf(w, "Seed: %d\n", r.Seed)
	fmt.Fprintf(w, "Sessions: %d (%d went broke)\n", r.Sessions, r.Broke)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	if stats.Rounds == 0 {
		return
	}

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f chips/round\n", stats.Mean())
	fmt.Fprintf(w, "Std Dev: %.4f chips\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/round\n", low, high)
	fmt.Fprintf(w, "Return: %.2f%% of %d wagered\n", stats.Return()*100, stats.Wagered)

	pct := func(n int) float64 { return float64(n) / float64(stats.Rounds) * 100 }
	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Wins: %d (%.1f%%), %d on dealer bust\n", stats.Wins, pct(stats.Wins), stats.DealerBusts)
	fmt.Fprintf(w, "Losses: %d (%.1f%%), %d on player bust\n", stats.Losses, pct(stats.Losses), stats.PlayerBusts)
	fmt.Fprintf(w, "Pushes: %d (%.1f%%)\n", stats.Pushes, pct(stats.Pushes))
	if stats.Doubles > 0 {
		fmt.Fprintf(w, "Double downs: %d, %.2f chips/double\n", stats.Doubles, stats.DoublesNet/float64(stats.Doubles))
	}
}
