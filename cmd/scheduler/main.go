package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/config"
	"github.com/academic-sched/ga-scheduler/internal/ga"
	"github.com/academic-sched/ga-scheduler/internal/gacache"
	"github.com/academic-sched/ga-scheduler/internal/logging"
	"github.com/academic-sched/ga-scheduler/internal/metrics"
	"github.com/academic-sched/ga-scheduler/internal/ports"
	"github.com/academic-sched/ga-scheduler/internal/repair"
	"github.com/academic-sched/ga-scheduler/internal/store/memory"
	"github.com/academic-sched/ga-scheduler/internal/store/postgres"
	"github.com/academic-sched/ga-scheduler/internal/substitute"
)

var (
	academicYear = "2025-2026"
	weekNumber   = 1
	department   = ""
	demoMode     = false
	commitRun    = false
	useCache     = false

	populationSize   = 100
	generations      = 500
	mutationRate     = 0.15
	crossoverRate    = 0.8
	eliteRatio       = 0.1
	tournamentSize   = 5
	earlyStopFitness = 95.0
	seed             = int64(0)
	timeout          = 5 * time.Minute

	recordID   = ""
	subDate    = ""
	subReason  = ""
	subID      = ""
	approvedBy = ""
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	root := &cobra.Command{
		Use:   "scheduler",
		Short: "Weekly academic timetable generator",
		Long: "Generates weekly timetables with a genetic algorithm, finds\n" +
			"substitute instructors for absent staff, and repairs residual\n" +
			"conflicts in committed schedules.",
	}

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "Evolve and optionally commit a weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, cfg, logr)
		},
	}
	cmdGenerate.Flags().StringVar(&academicYear, "year", academicYear, "academic year scope, e.g. 2025-2026")
	cmdGenerate.Flags().IntVar(&weekNumber, "week", weekNumber, "week number stamped on committed records")
	cmdGenerate.Flags().StringVar(&department, "department", department, "restrict the commit scope to one department")
	cmdGenerate.Flags().BoolVar(&demoMode, "demo", demoMode, "run against the built-in demo catalog instead of the database")
	cmdGenerate.Flags().BoolVar(&commitRun, "commit", commitRun, "commit the best schedule to the store")
	cmdGenerate.Flags().BoolVar(&useCache, "cache", useCache, "reuse and populate the redis result cache")
	cmdGenerate.Flags().IntVar(&populationSize, "population-size", populationSize, "candidates per generation")
	cmdGenerate.Flags().IntVar(&generations, "generations", generations, "maximum generations")
	cmdGenerate.Flags().Float64Var(&mutationRate, "mutation-rate", mutationRate, "per-candidate mutation probability")
	cmdGenerate.Flags().Float64Var(&crossoverRate, "crossover-rate", crossoverRate, "probability offspring differ from parents")
	cmdGenerate.Flags().Float64Var(&eliteRatio, "elite-ratio", eliteRatio, "fraction of top candidates carried through")
	cmdGenerate.Flags().IntVar(&tournamentSize, "tournament-size", tournamentSize, "selection pool size")
	cmdGenerate.Flags().Float64Var(&earlyStopFitness, "early-stop-fitness", earlyStopFitness, "stop when best fitness reaches this with zero conflicts")
	cmdGenerate.Flags().Int64Var(&seed, "seed", seed, "PRNG seed for reproducible runs")
	cmdGenerate.Flags().DurationVar(&timeout, "timeout", timeout, "wall-clock bound for the run")

	cmdSubstitute := &cobra.Command{
		Use:   "substitute",
		Short: "Find a replacement instructor for one session on one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubstitute(cfg, logr)
		},
	}
	cmdSubstitute.Flags().StringVar(&academicYear, "year", academicYear, "academic year scope")
	cmdSubstitute.Flags().BoolVar(&demoMode, "demo", demoMode, "run against the built-in demo catalog")
	cmdSubstitute.Flags().StringVar(&recordID, "record", "", "schedule record identifier")
	cmdSubstitute.Flags().StringVar(&subDate, "date", "", "substitution date, ISO format")
	cmdSubstitute.Flags().StringVar(&subReason, "reason", "", "reason for the substitution")
	_ = cmdSubstitute.MarkFlagRequired("record")
	_ = cmdSubstitute.MarkFlagRequired("date")

	cmdApprove := &cobra.Command{
		Use:   "approve",
		Short: "Approve a pending substitution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprove(cfg, logr)
		},
	}
	cmdApprove.Flags().StringVar(&subID, "substitution", "", "substitution identifier")
	cmdApprove.Flags().StringVar(&approvedBy, "approver", "", "approver identifier")
	_ = cmdApprove.MarkFlagRequired("substitution")
	_ = cmdApprove.MarkFlagRequired("approver")

	cmdRepair := &cobra.Command{
		Use:   "repair",
		Short: "Detect and resolve residual conflicts in a committed schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cfg, logr)
		},
	}
	cmdRepair.Flags().StringVar(&academicYear, "year", academicYear, "academic year scope")
	cmdRepair.Flags().StringVar(&department, "department", department, "restrict to one department")
	cmdRepair.Flags().BoolVar(&demoMode, "demo", demoMode, "run against the built-in demo catalog")

	root.AddCommand(cmdGenerate, cmdSubstitute, cmdApprove, cmdRepair)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openPorts wires the catalog and store ports: the built-in demo pair in demo
// mode, PostgreSQL otherwise.
func openPorts(cfg *config.Config) (ports.CatalogReader, ports.ScheduleStore, func(), error) {
	if demoMode {
		return demoCatalog(), memory.NewStore(), func() {}, nil
	}
	db, err := postgres.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return postgres.NewCatalogRepository(db), postgres.NewScheduleRepository(db), func() { _ = db.Close() }, nil
}

func gaConfigFromFlags(cmd *cobra.Command) (config.GAConfig, error) {
	raw := map[string]any{}
	setIfChanged := func(flag, option string, value any) {
		if cmd.Flags().Changed(flag) {
			raw[option] = value
		}
	}
	setIfChanged("population-size", "population_size", populationSize)
	setIfChanged("generations", "generations", generations)
	setIfChanged("mutation-rate", "mutation_rate", mutationRate)
	setIfChanged("crossover-rate", "crossover_rate", crossoverRate)
	setIfChanged("elite-ratio", "elite_ratio", eliteRatio)
	setIfChanged("tournament-size", "tournament_size", tournamentSize)
	setIfChanged("early-stop-fitness", "early_stop_fitness", earlyStopFitness)
	setIfChanged("seed", "seed", int(seed))

	gaCfg, err := config.LoadGAOptions(raw)
	if err != nil {
		return config.GAConfig{}, err
	}
	gaCfg.MaxWallClock = timeout
	if err := gaCfg.Validate(); err != nil {
		return config.GAConfig{}, fmt.Errorf("invalid GA options: %w", err)
	}
	return gaCfg, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, logr *zap.Logger) error {
	reader, store, closePorts, err := openPorts(cfg)
	if err != nil {
		return err
	}
	defer closePorts()

	gaCfg, err := gaConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache *gacache.Cache
	cacheKey := gacache.Key(academicYear, weekNumber, gaCfg)
	if useCache {
		client, err := gacache.NewClient(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			cache = gacache.New(client, gaCfg.ResultTTL)
			if run, ok, err := cache.Get(ctx, cacheKey); err != nil {
				logr.Warn("cache lookup failed", zap.Error(err))
			} else if ok {
				fmt.Printf("cached result: fitness %.1f after %d generations (%s)\n", run.Fitness, run.Generation, run.StopReason)
				return nil
			}
		}
	}

	snapshot, err := catalog.NewSnapshot(ctx, reader)
	if err != nil {
		return err
	}

	masterSeed := gaCfg.Seed
	if !gaCfg.HasSeed {
		masterSeed = time.Now().UnixNano()
	}
	logr.Info("starting generation run",
		zap.String("academic_year", academicYear),
		zap.Int("population_size", gaCfg.PopulationSize),
		zap.Int("generations", gaCfg.Generations),
		zap.Int64("seed", masterSeed))

	driver := ga.New(snapshot, gaCfg, masterSeed, logr)
	if cfg.Metrics.Enabled {
		recorder := metrics.NewRecorder()
		driver.OnGeneration(recorder.ObserveGeneration)
		go func() {
			if err := recorder.Serve(cfg.Metrics.Addr); err != nil {
				logr.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	result := driver.Run(ctx)
	if result.Best == nil {
		return fmt.Errorf("no candidate produced (%s)", result.StopReason)
	}

	fmt.Printf("best fitness %.1f after %d generations (%s)\n", result.Fitness, result.Generation, result.StopReason)
	fmt.Printf("assignments: %d, conflicts: %d\n", len(result.Best.Assignments), len(result.Conflicts))
	for _, m := range result.Missing {
		fmt.Printf("missing: class %s subject %s placed %d/%d\n", m.ClassID, m.SubjectCode, m.Placed, m.Required)
	}

	if cache != nil {
		if err := cache.Set(ctx, cacheKey, result); err != nil {
			logr.Warn("cache store failed", zap.Error(err))
		}
	}

	if commitRun {
		records := ga.Serialize(snapshot, result.Best, academicYear, weekNumber)
		var dept *string
		if department != "" {
			dept = &department
		}
		if err := store.CommitSchedule(ctx, academicYear, dept, records); err != nil {
			return fmt.Errorf("commit schedule: %w", err)
		}
		fmt.Printf("committed %d records for %s\n", len(records), academicYear)
	}
	return nil
}

func runSubstitute(cfg *config.Config, logr *zap.Logger) error {
	reader, store, closePorts, err := openPorts(cfg)
	if err != nil {
		return err
	}
	defer closePorts()

	ctx := context.Background()
	snapshot, err := catalog.NewSnapshot(ctx, reader)
	if err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", subDate)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", subDate, err)
	}

	finder := substitute.New(snapshot, store)
	sub, err := finder.Find(ctx, academicYear, recordID, date, subReason)
	if err != nil {
		return err
	}

	logr.Info("substitution recorded",
		zap.String("substitution_id", sub.ID),
		zap.String("replacement", sub.ReplacementID),
		zap.Float64("score", sub.Score))
	fmt.Printf("substitute %s for record %s on %s (score %.1f, pending approval)\n",
		sub.ReplacementID, recordID, sub.Date, sub.Score)
	return nil
}

func runApprove(cfg *config.Config, logr *zap.Logger) error {
	_, store, closePorts, err := openPorts(cfg)
	if err != nil {
		return err
	}
	defer closePorts()

	if err := store.ApproveSubstitution(context.Background(), subID, approvedBy); err != nil {
		return err
	}
	logr.Info("substitution approved", zap.String("substitution_id", subID), zap.String("approver", approvedBy))
	fmt.Printf("substitution %s approved by %s\n", subID, approvedBy)
	return nil
}

func runRepair(cfg *config.Config, logr *zap.Logger) error {
	reader, store, closePorts, err := openPorts(cfg)
	if err != nil {
		return err
	}
	defer closePorts()

	ctx := context.Background()
	snapshot, err := catalog.NewSnapshot(ctx, reader)
	if err != nil {
		return err
	}

	var dept *string
	if department != "" {
		dept = &department
	}

	engine := repair.New(snapshot, store)
	outcomes, err := engine.Run(ctx, academicYear, dept)
	if err != nil {
		return err
	}

	resolved := 0
	for _, o := range outcomes {
		if o.Resolved {
			resolved++
			fmt.Printf("resolved %s at day %d slot %d via %s (moved %s)\n",
				o.Conflict.Kind, o.Conflict.Day, o.Conflict.Slot, o.Strategy, o.MovedID)
		} else {
			fmt.Printf("unresolved %s at day %d slot %d\n", o.Conflict.Kind, o.Conflict.Day, o.Conflict.Slot)
		}
	}
	logr.Info("repair pass complete", zap.Int("conflicts", len(outcomes)), zap.Int("resolved", resolved))
	fmt.Printf("%d conflicts, %d resolved\n", len(outcomes), resolved)
	return nil
}
