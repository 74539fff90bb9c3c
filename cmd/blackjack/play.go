package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Config  string `short:"c" default:"${config_file}" help:"Path to HCL configuration file"`
	Seed    int64  `help:"RNG seed (0 for random, overrides config)"`
	Decks   int    `help:"Number of decks, 2 or more deals from a shoe (overrides config)"`
	LogFile string `help:"Log file path (overrides config)"`
}

func (c *PlayCmd) Run() error {
	cfg, err := loadConfig(c.Config, c.Seed, c.Decks)
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}

	// The terminal belongs to bubbletea, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	level, _ := cfg.LogLevel()
	logger := log.NewWithOptions(logFile, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	seed := randutil.Resolve(cfg.Game.Seed)
	logger.Info("Starting blackjack",
		"seed", seed,
		"decks", cfg.Game.Decks,
		"balance", cfg.Game.StartingBalance,
		"config", c.Config)

	opts := append(cfg.SessionOptions(),
		game.WithLogger(logger),
		game.WithClock(quartz.NewReal()),
	)
	session := game.NewSession(randutil.New(seed), opts...)

	model := tui.NewTUIModel(session, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	for _, r := range session.History() {
		logger.Debug("Round", "round", r.Round, "result", r.Message(), "balance", r.Balance)
	}
	logger.Info("Session over", "rounds", len(session.History()), "balance", session.Balance())
	return nil
}
