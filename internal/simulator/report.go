package simulator

import (
	"encoding/json"
	"io"

	"github.com/lox/blackjack/internal/fileutil"
)

// Report is the JSON form of a simulation result
type Report struct {
	Strategy      string     `json:"strategy"`
	Seed          int64      `json:"seed"`
	Sessions      int        `json:"sessions"`
	Broke         int        `json:"broke"`
	Rounds        int        `json:"rounds"`
	Wagered       int        `json:"wagered"`
	Mean          float64    `json:"mean"`
	StdDev        float64    `json:"std_dev"`
	CI95          [2]float64 `json:"ci95"`
	Return        float64    `json:"return"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	Pushes        int        `json:"pushes"`
	PlayerBusts   int        `json:"player_busts"`
	DealerBusts   int        `json:"dealer_busts"`
	Doubles       int        `json:"doubles"`
	FinalBalances []int      `json:"final_balances"`
}

// NewReport summarises a result for export
func NewReport(r *Result) Report {
	stats := r.Stats
	low, high := stats.ConfidenceInterval95()
	return Report{
		Strategy:      r.Strategy,
		Seed:          r.Seed,
		Sessions:      r.Sessions,
		Broke:         r.Broke,
		Rounds:        stats.Rounds,
		Wagered:       stats.Wagered,
		Mean:          stats.Mean(),
		StdDev:        stats.StdDev(),
		CI95:          [2]float64{low, high},
		Return:        stats.Return(),
		Wins:          stats.Wins,
		Losses:        stats.Losses,
		Pushes:        stats.Pushes,
		PlayerBusts:   stats.PlayerBusts,
		DealerBusts:   stats.DealerBusts,
		Doubles:       stats.Doubles,
		FinalBalances: r.FinalBalances,
	}
}

// WriteReport writes the result as indented JSON to path, replacing any
// existing file atomically
func WriteReport(path string, r *Result) error {
	report := NewReport(r)
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}
