package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGAConfig(t *testing.T) {
	cfg := DefaultGAConfig()
	assert.Equal(t, 100, cfg.PopulationSize)
	assert.Equal(t, 500, cfg.Generations)
	assert.Equal(t, 0.15, cfg.MutationRate)
	assert.Equal(t, 0.8, cfg.CrossoverRate)
	assert.Equal(t, 0.1, cfg.EliteRatio)
	assert.Equal(t, 5, cfg.TournamentSize)
	assert.Equal(t, 95.0, cfg.EarlyStopFitness)
	assert.False(t, cfg.HasSeed)
	require.NoError(t, cfg.Validate())
}

func TestLoadGAOptionsOverlaysDefaults(t *testing.T) {
	cfg, err := LoadGAOptions(map[string]any{
		"population_size": 40,
		"mutation_rate":   0.25,
		"seed":            int64(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.PopulationSize)
	assert.Equal(t, 0.25, cfg.MutationRate)
	assert.Equal(t, 500, cfg.Generations, "untouched options keep their defaults")
	assert.True(t, cfg.HasSeed)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoadGAOptionsRejectsUnknownOption(t *testing.T) {
	_, err := LoadGAOptions(map[string]any{"popsize": 40})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popsize")
}

func TestLoadGAOptionsRejectsWrongType(t *testing.T) {
	_, err := LoadGAOptions(map[string]any{"population_size": "large"})
	require.Error(t, err)

	_, err = LoadGAOptions(map[string]any{"mutation_rate": "high"})
	require.Error(t, err)
}

func TestGAConfigValidateBounds(t *testing.T) {
	cfg := DefaultGAConfig()
	cfg.MutationRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultGAConfig()
	cfg.PopulationSize = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultGAConfig()
	cfg.EarlyStopFitness = 120
	assert.Error(t, cfg.Validate())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Minute, parseDuration("2m", time.Second))
	assert.Equal(t, time.Second, parseDuration("", time.Second))
	assert.Equal(t, time.Second, parseDuration("bogus", time.Second))
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 100, cfg.GA.PopulationSize)
	assert.Equal(t, 5*time.Minute, cfg.GA.MaxWallClock)
	assert.Equal(t, 30*time.Minute, cfg.GA.ResultTTL)
	assert.False(t, cfg.GA.HasSeed)
}
