// Package gacache caches a GA run's best candidate and statistics in Redis,
// keyed by a fingerprint of the run request, so an identical re-request
// within the TTL returns the cached schedule instead of re-evolving it.
package gacache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/academic-sched/ga-scheduler/internal/config"
	"github.com/academic-sched/ga-scheduler/internal/ga"
	"github.com/academic-sched/ga-scheduler/internal/model"
)

// NewClient returns a configured Redis client.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// CachedRun is the serializable subset of a ga.Result worth replaying.
type CachedRun struct {
	Fitness     float64               `json:"fitness"`
	StopReason  string                `json:"stop_reason"`
	Generation  int                   `json:"generation"`
	Assignments []model.Assignment    `json:"assignments"`
	History     []ga.GenerationStat   `json:"history"`
	Missing     []ga.MissingPlacement `json:"missing,omitempty"`
}

// Cache stores GA results with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a Cache. ttl follows GAConfig.ResultTTL.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key fingerprints a run request: the scope plus every GA option that shapes
// the outcome.
func Key(academicYear string, weekNumber int, cfg config.GAConfig) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%d|%g|%g|%g|%d|%g|%v|%d",
		academicYear, weekNumber,
		cfg.PopulationSize, cfg.Generations,
		cfg.MutationRate, cfg.CrossoverRate, cfg.EliteRatio,
		cfg.TournamentSize, cfg.EarlyStopFitness,
		cfg.HasSeed, cfg.Seed,
	)
	return fmt.Sprintf("ga:result:%x", h.Sum64())
}

// Get returns the cached run for key, or (nil, false) on a miss.
func (c *Cache) Get(ctx context.Context, key string) (*CachedRun, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var run CachedRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &run, true, nil
}

// Set stores result under key with the cache's TTL.
func (c *Cache) Set(ctx context.Context, key string, result ga.Result) error {
	run := CachedRun{
		Fitness:    result.Fitness,
		StopReason: result.StopReason,
		Generation: result.Generation,
		History:    result.History,
		Missing:    result.Missing,
	}
	if result.Best != nil {
		run.Assignments = result.Best.Assignments
	}
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
