package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsOnlyZeroFields(t *testing.T) {
	cfg := Config{
		ViewDistance: 12,
		Width:        1024,
	}
	ApplyDefaults(&cfg)

	d := Default()
	require.Equal(t, 12, cfg.ViewDistance)
	require.Equal(t, 1024, cfg.Width)
	require.Equal(t, d.Seed, cfg.Seed)
	require.Equal(t, d.AssetsDir, cfg.AssetsDir)
	require.Equal(t, d.Height, cfg.Height)
	require.Equal(t, d.LogLevel, cfg.LogLevel)
}

func TestApplyDefaultsOnZeroValueConfigMatchesDefault(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	require.Equal(t, Default(), cfg)
}

func TestApplyDefaultsLeavesNegativeViewDistanceOverridden(t *testing.T) {
	cfg := Config{ViewDistance: -1}
	ApplyDefaults(&cfg)
	require.Equal(t, Default().ViewDistance, cfg.ViewDistance)
}
