package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithKeyPresent(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, "test-key", cfg.GeminiAPIKey)
	require.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.Equal(t, 10*time.Second, cfg.OracleTimeout)
	require.Equal(t, 120, cfg.RoundSeconds)
	require.Equal(t, 10, cfg.CategoriesPerRound)
	require.False(t, cfg.ProbeRounds)
}

func TestLoad_PrefixedKeyOverridesBare(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "bare")
	t.Setenv("WORDRUSH_GEMINI_API_KEY", "prefixed")
	t.Setenv("WORDRUSH_ROUND_SECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "prefixed", cfg.GeminiAPIKey)
	require.Equal(t, 60, cfg.RoundSeconds)
}

func TestLoad_MissingKeyIsFatal(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("WORDRUSH_GEMINI_API_KEY", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestValidate_RejectsBadRanges(t *testing.T) {
	base := Config{
		GeminiAPIKey:       "k",
		RoundSeconds:       120,
		CategoriesPerRound: 10,
		OracleTimeout:      time.Second,
	}

	c := base
	c.RoundSeconds = 0
	require.Error(t, c.validate())

	c = base
	c.CategoriesPerRound = 1000
	require.Error(t, c.validate())

	c = base
	c.OracleTimeout = 0
	require.Error(t, c.validate())
}
