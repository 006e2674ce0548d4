// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/wordrush/wordrush-backend/internal/game"
)

var ErrMissingAPIKey = errors.New("config: WORDRUSH_GEMINI_API_KEY (or GEMINI_API_KEY) is required")

type Config struct {
	Listen             string
	GeminiAPIKey       string
	GeminiModel        string
	OracleTimeout      time.Duration
	RoundSeconds       int
	CategoriesPerRound int
	ProbeRounds        bool
	PostgresDSN        string
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("WORDRUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("gemini-model", "gemini-1.5-flash")
	v.SetDefault("oracle-timeout", 10*time.Second)
	v.SetDefault("round-seconds", game.DefaultRoundSeconds)
	v.SetDefault("categories-per-round", game.DefaultCategoryCount)
	v.SetDefault("probe-rounds", false)

	// The original deployment used the bare GEMINI_API_KEY name; honor it.
	_ = v.BindEnv("gemini-api-key", "WORDRUSH_GEMINI_API_KEY", "GEMINI_API_KEY")

	cfg := &Config{
		Listen:             v.GetString("listen"),
		GeminiAPIKey:       v.GetString("gemini-api-key"),
		GeminiModel:        v.GetString("gemini-model"),
		OracleTimeout:      v.GetDuration("oracle-timeout"),
		RoundSeconds:       v.GetInt("round-seconds"),
		CategoriesPerRound: v.GetInt("categories-per-round"),
		ProbeRounds:        v.GetBool("probe-rounds"),
		PostgresDSN:        v.GetString("postgres-dsn"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.RoundSeconds < 1 {
		return fmt.Errorf("config: round seconds must be positive, got %d", c.RoundSeconds)
	}
	if c.CategoriesPerRound < 1 || c.CategoriesPerRound > len(game.Categories) {
		return fmt.Errorf("config: categories per round must be in [1,%d], got %d",
			len(game.Categories), c.CategoriesPerRound)
	}
	if c.OracleTimeout <= 0 {
		return fmt.Errorf("config: oracle timeout must be positive, got %s", c.OracleTimeout)
	}
	return nil
}
