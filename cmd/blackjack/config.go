package main

import (
	"fmt"

	"github.com/lox/blackjack/internal/config"
)

// loadConfig reads the HCL file, then .env and the environment, then the
// command line overrides, and validates the result
func loadConfig(path string, seed int64, decks int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	lookup, err := config.EnvLookup(".env")
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if seed != 0 {
		cfg.Game.Seed = seed
	}
	if decks != 0 {
		cfg.Game.Decks = decks
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
