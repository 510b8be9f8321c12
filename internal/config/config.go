// Package config loads process configuration: a .env-backed viper instance
// with typed, defaulted sub-configs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var gaValidate = validator.New()

// Validate checks the struct-tagged bounds on a GAConfig (population/
// generation minimums, rate ranges). Unknown-option rejection happens
// earlier in LoadGAOptions; this catches out-of-range values that are
// well-formed but infeasible.
func (c GAConfig) Validate() error {
	return gaValidate.Struct(c)
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full process configuration.
type Config struct {
	Env string

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Metrics  MetricsConfig
	GA       GAConfig
}

// DatabaseConfig configures the Postgres-backed Schedule Store / Catalog Read port.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the GA result cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures the prometheus exporter.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// GAConfig is the GA tuning surface. Every field corresponds to one
// recognized option; LoadGAOptions rejects any key not present in
// gaOptionKeys.
type GAConfig struct {
	PopulationSize   int           `validate:"required,min=2"`
	Generations      int           `validate:"required,min=1"`
	MutationRate     float64       `validate:"min=0,max=1"`
	CrossoverRate    float64       `validate:"min=0,max=1"`
	EliteRatio       float64       `validate:"min=0,max=1"`
	TournamentSize   int           `validate:"required,min=2"`
	EarlyStopFitness float64       `validate:"min=0,max=100"`
	Seed             int64         `validate:"-"`
	HasSeed          bool          `validate:"-"`
	MaxWallClock     time.Duration `validate:"-"`
	ResultTTL        time.Duration `validate:"-"`
}

// DefaultGAConfig returns the stock GA parameters.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize:   100,
		Generations:      500,
		MutationRate:     0.15,
		CrossoverRate:    0.8,
		EliteRatio:       0.1,
		TournamentSize:   5,
		EarlyStopFitness: 95.0,
		MaxWallClock:     5 * time.Minute,
		ResultTTL:        30 * time.Minute,
	}
}

// gaOptionKeys enumerates every recognized GA option. Unknown options are
// rejected, never silently ignored.
var gaOptionKeys = map[string]bool{
	"population_size":    true,
	"generations":        true,
	"mutation_rate":      true,
	"crossover_rate":     true,
	"elite_ratio":        true,
	"tournament_size":    true,
	"early_stop_fitness": true,
	"seed":               true,
}

// LoadGAOptions overlays raw option values (e.g. parsed from CLI flags or a
// request payload) onto the defaults, rejecting any key not in gaOptionKeys.
func LoadGAOptions(raw map[string]any) (GAConfig, error) {
	cfg := DefaultGAConfig()
	for key, value := range raw {
		if !gaOptionKeys[key] {
			return GAConfig{}, fmt.Errorf("unknown GA option %q", key)
		}
		switch key {
		case "population_size":
			n, err := toInt(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("population_size: %w", err)
			}
			cfg.PopulationSize = n
		case "generations":
			n, err := toInt(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("generations: %w", err)
			}
			cfg.Generations = n
		case "mutation_rate":
			f, err := toFloat(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("mutation_rate: %w", err)
			}
			cfg.MutationRate = f
		case "crossover_rate":
			f, err := toFloat(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("crossover_rate: %w", err)
			}
			cfg.CrossoverRate = f
		case "elite_ratio":
			f, err := toFloat(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("elite_ratio: %w", err)
			}
			cfg.EliteRatio = f
		case "tournament_size":
			n, err := toInt(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("tournament_size: %w", err)
			}
			cfg.TournamentSize = n
		case "early_stop_fitness":
			f, err := toFloat(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("early_stop_fitness: %w", err)
			}
			cfg.EarlyStopFitness = f
		case "seed":
			n, err := toInt(value)
			if err != nil {
				return GAConfig{}, fmt.Errorf("seed: %w", err)
			}
			cfg.Seed = int64(n)
			cfg.HasSeed = true
		}
	}
	return cfg, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// Load reads process configuration from .env and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("ENABLE_METRICS"),
			Addr:    v.GetString("METRICS_ADDR"),
		},
	}

	gaDefaults := DefaultGAConfig()
	cfg.GA = GAConfig{
		PopulationSize:   v.GetInt("GA_POPULATION_SIZE"),
		Generations:      v.GetInt("GA_GENERATIONS"),
		MutationRate:     v.GetFloat64("GA_MUTATION_RATE"),
		CrossoverRate:    v.GetFloat64("GA_CROSSOVER_RATE"),
		EliteRatio:       v.GetFloat64("GA_ELITE_RATIO"),
		TournamentSize:   v.GetInt("GA_TOURNAMENT_SIZE"),
		EarlyStopFitness: v.GetFloat64("GA_EARLY_STOP_FITNESS"),
		MaxWallClock:     parseDuration(v.GetString("GA_MAX_WALL_CLOCK"), gaDefaults.MaxWallClock),
		ResultTTL:        parseDuration(v.GetString("GA_RESULT_TTL"), gaDefaults.ResultTTL),
	}
	if seed := v.GetString("GA_SEED"); seed != "" {
		cfg.GA.Seed = v.GetInt64("GA_SEED")
		cfg.GA.HasSeed = true
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ga_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", false)
	v.SetDefault("METRICS_ADDR", ":9090")

	d := DefaultGAConfig()
	v.SetDefault("GA_POPULATION_SIZE", d.PopulationSize)
	v.SetDefault("GA_GENERATIONS", d.Generations)
	v.SetDefault("GA_MUTATION_RATE", d.MutationRate)
	v.SetDefault("GA_CROSSOVER_RATE", d.CrossoverRate)
	v.SetDefault("GA_ELITE_RATIO", d.EliteRatio)
	v.SetDefault("GA_TOURNAMENT_SIZE", d.TournamentSize)
	v.SetDefault("GA_EARLY_STOP_FITNESS", d.EarlyStopFitness)
	v.SetDefault("GA_MAX_WALL_CLOCK", d.MaxWallClock.String())
	v.SetDefault("GA_RESULT_TTL", d.ResultTTL.String())
	v.SetDefault("GA_SEED", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
