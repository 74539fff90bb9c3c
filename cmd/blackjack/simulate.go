package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Config    string `short:"c" default:"${config_file}" help:"Path to HCL configuration file"`
	Rounds    int    `default:"1000" help:"Rounds per session"`
	Sessions  int    `default:"100" help:"Number of independent sessions"`
	Strategy  string `default:"mimic" enum:"mimic,never-bust,double" help:"Player strategy: mimic, never-bust, double"`
	Bet       int    `default:"10" help:"Flat bet per round"`
	Workers   int    `default:"0" help:"Concurrent sessions (0 for one per CPU)"`
	Seed      int64  `help:"RNG seed (0 for random, overrides config)"`
	Decks     int    `help:"Number of decks (overrides config)"`
	StatsFile string `help:"Write results as JSON to this file"`
	Verbose   bool   `short:"V" help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := loadConfig(c.Config, c.Seed, c.Decks)
	if err != nil {
		return err
	}

	level, _ := cfg.LogLevel()
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "simulate"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Starting simulation: %d sessions x %d rounds, %s strategy, $%d bets\n",
		c.Sessions, c.Rounds, c.Strategy, c.Bet)

	startTime := time.Now()
	result, err := simulator.Run(ctx, simulator.Config{
		Rounds:          c.Rounds,
		Sessions:        c.Sessions,
		Strategy:        c.Strategy,
		Bet:             c.Bet,
		Workers:         c.Workers,
		Seed:            cfg.Game.Seed,
		Decks:           cfg.Game.Decks,
		StartingBalance: cfg.Game.StartingBalance,
		Chips:           cfg.Game.Chips,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	duration := time.Since(startTime)

	simulator.PrintSummary(os.Stdout, result)
	if c.StatsFile != "" {
		if err := simulator.WriteReport(c.StatsFile, result); err != nil {
			return err
		}
		logger.Info("Stats written to file", "file", c.StatsFile)
	}
	if result.Stats.Rounds > 0 {
		fmt.Printf("\nCompleted in %s (%.1f rounds/sec)\n",
			duration.Round(time.Millisecond), float64(result.Stats.Rounds)/duration.Seconds())
	}
	return nil
}
