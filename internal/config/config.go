package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// DefaultFile is the config file read when none is given
const DefaultFile = "blackjack.hcl"

// Environment variables that override the config file
const (
	EnvSeed            = "BLACKJACK_SEED"
	EnvDecks           = "BLACKJACK_DECKS"
	EnvLogLevel        = "BLACKJACK_LOG_LEVEL"
	EnvStartingBalance = "BLACKJACK_STARTING_BALANCE"
)

// Config represents the complete blackjack configuration
type Config struct {
	Game *GameSettings `hcl:"game,block"`
	Log  *LogSettings  `hcl:"log,block"`
}

// GameSettings configures the table
type GameSettings struct {
	StartingBalance int   `hcl:"starting_balance,optional"`
	Chips           []int `hcl:"chips,optional"`
	Decks           int   `hcl:"decks,optional"`
	Seed            int64 `hcl:"seed,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. The filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = game.DefaultStartingBalance
	}
	if len(c.Game.Chips) == 0 {
		c.Game.Chips = append([]int(nil), game.DefaultChips...)
	}
	if c.Game.Decks == 0 {
		c.Game.Decks = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "blackjack.log"
	}
}

// LookupFunc reads one environment variable
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment backed by the
// given dotenv files. Process variables win over file values and missing
// files are skipped.
func EnvLookup(files ...string) (LookupFunc, error) {
	fileEnv := map[string]string{}
	for _, f := range files {
		values, err := godotenv.Read(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range values {
			if _, seen := fileEnv[k]; !seen {
				fileEnv[k] = v
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Game.Seed = seed
	}
	if v, ok := lookup(EnvDecks); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDecks, err)
		}
		c.Game.Decks = n
	}
	if v, ok := lookup(EnvStartingBalance); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStartingBalance, err)
		}
		c.Game.StartingBalance = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive: %d", c.Game.StartingBalance)
	}
	if len(c.Game.Chips) == 0 {
		return fmt.Errorf("at least one chip must be configured")
	}
	for i, chip := range c.Game.Chips {
		if chip <= 0 {
			return fmt.Errorf("chip %d must be positive", chip)
		}
		if i > 0 && chip <= c.Game.Chips[i-1] {
			return fmt.Errorf("chips must be ascending: %d after %d", chip, c.Game.Chips[i-1])
		}
	}
	if c.Game.Decks < 1 || c.Game.Decks > deck.MaxDecks {
		return fmt.Errorf("decks must be between 1 and %d: %d", deck.MaxDecks, c.Game.Decks)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// SessionOptions returns the session options for the game settings
func (c *Config) SessionOptions() []game.SessionOption {
	return []game.SessionOption{
		game.WithStartingBalance(c.Game.StartingBalance),
		game.WithChips(c.Game.Chips),
		game.WithDecks(c.Game.Decks),
	}
}
