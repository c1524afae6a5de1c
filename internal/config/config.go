// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/peterkuimelis/skirmish/internal/ai"
	"github.com/peterkuimelis/skirmish/internal/game"
)

// Config holds the settings shared by the skirmish commands. Flags given on
// the command line override these values.
type Config struct {
	Addr       string  `env:"SKIRMISH_ADDR"        envDefault:":8080"`
	Port       string  `env:"SKIRMISH_PORT"        envDefault:"9000"`
	Catalog    string  `env:"SKIRMISH_CATALOG"     envDefault:"cards.yaml"`
	Decks      string  `env:"SKIRMISH_DECKS"       envDefault:"decks.yaml"`
	DB         string  `env:"SKIRMISH_DB"`
	Difficulty string  `env:"SKIRMISH_DIFFICULTY"  envDefault:"medium"`
	ThinkScale float64 `env:"SKIRMISH_THINK_SCALE" envDefault:"1"`
	Seed       int64   `env:"SKIRMISH_SEED"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the commands cannot use.
func (c Config) Validate() error {
	if _, err := ai.ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("SKIRMISH_DIFFICULTY: %w", err)
	}
	if c.ThinkScale < 0 {
		return fmt.Errorf("SKIRMISH_THINK_SCALE must not be negative, got %v", c.ThinkScale)
	}
	return nil
}

// Planner builds an AI planner from the configured difficulty and pacing.
func (c Config) Planner() (*ai.Planner, error) {
	d, err := ai.ParseDifficulty(c.Difficulty)
	if err != nil {
		return nil, err
	}
	opts := ai.Options{Difficulty: d, ThinkScale: c.ThinkScale}
	if c.Seed != 0 {
		opts.Rand = game.NewRNG(c.Seed + 1)
	}
	return ai.New(opts), nil
}
