// Package ga implements the evolution driver: the generational loop of
// score -> sort -> elitism -> breed -> truncate.
package ga

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/academic-sched/ga-scheduler/internal/builder"
	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/config"
	"github.com/academic-sched/ga-scheduler/internal/evaluator"
	"github.com/academic-sched/ga-scheduler/internal/gaops"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/prngstream"
	"github.com/academic-sched/ga-scheduler/internal/workerpool"
)

// GenerationStat is one row of the per-generation statistics history,
// kept in full so a caller can plot convergence.
type GenerationStat struct {
	Generation   int
	BestFitness  float64
	MeanFitness  float64
	WorstFitness float64
	Conflicts    int
}

// MissingPlacement reports a required session the best candidate left
// unplaced. Unfilled hours are reported as data, never raised as errors.
type MissingPlacement struct {
	ClassID     string
	SubjectCode string
	Required    int
	Placed      int
}

// Result is the GA Driver's output: the best candidate found, why the run
// stopped, and the full generation history.
type Result struct {
	Best       *model.Candidate
	Fitness    float64
	Conflicts  []model.Conflict
	Penalties  model.PenaltyBreakdown
	Generation int
	StopReason string
	History    []GenerationStat
	Missing    []MissingPlacement
}

const (
	StopConverged = "CONVERGED"
	StopMaxGen    = "MAX_GENERATIONS"
	StopTimeout   = "WALL_CLOCK_TIMEOUT"
	StopCancelled = "CANCELLED"
)

// Driver runs the evolution loop against a Catalog Snapshot.
type Driver struct {
	snapshot   *catalog.Snapshot
	cfg        config.GAConfig
	master     *prngstream.Master
	preference evaluator.PreferenceFunc
	logger     *zap.Logger
	onGenerat  func(GenerationStat)
}

// New builds a Driver. logger may be nil (defaults to a no-op logger).
func New(snapshot *catalog.Snapshot, cfg config.GAConfig, seed int64, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		snapshot: snapshot,
		cfg:      cfg,
		master:   prngstream.NewMaster(seed),
		logger:   logger,
	}
}

// OnGeneration registers a callback invoked after each generation is scored,
// used by the prometheus exporter (internal/metrics) to publish live gauges.
func (d *Driver) OnGeneration(fn func(GenerationStat)) {
	d.onGenerat = fn
}

// WithPreference plugs a preference module into the evaluator. The default
// is nil, which scores zero preference penalty.
func (d *Driver) WithPreference(fn evaluator.PreferenceFunc) {
	d.preference = fn
}

type scoredCandidate struct {
	candidate *model.Candidate
	fitness   float64
	conflicts []model.Conflict
	penalties model.PenaltyBreakdown
}

// Run executes the evolution loop until convergence (fitness >= EarlyStopFitness
// and zero conflicts), the generation cap is reached, the wall-clock bound
// elapses, or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) Result {
	deadline := time.Now().Add(d.cfg.MaxWallClock)
	population := d.initialPopulation()

	var history []GenerationStat
	var best scoredCandidate
	stopReason := StopMaxGen
	generation := 0

	for ; generation < d.cfg.Generations; generation++ {
		select {
		case <-ctx.Done():
			stopReason = StopCancelled
			goto done
		default:
		}
		if time.Now().After(deadline) {
			stopReason = StopTimeout
			goto done
		}

		scored := d.scorePopulation(ctx, population)
		sort.Slice(scored, func(i, j int) bool { return scored[i].fitness > scored[j].fitness })

		stat := summarize(generation, scored)
		history = append(history, stat)
		if d.onGenerat != nil {
			d.onGenerat(stat)
		}
		d.logger.Debug("generation scored",
			zap.Int("generation", generation),
			zap.Float64("best_fitness", stat.BestFitness),
			zap.Int("conflicts", stat.Conflicts))

		if len(scored) > 0 && (best.candidate == nil || scored[0].fitness > best.fitness) {
			best = scored[0]
		}

		if best.fitness >= d.cfg.EarlyStopFitness && len(best.conflicts) == 0 {
			stopReason = StopConverged
			goto done
		}

		population = d.breed(scored, generation)
	}

done:
	if best.candidate == nil {
		return Result{StopReason: stopReason, History: history, Generation: generation}
	}
	return Result{
		Best:       best.candidate,
		Fitness:    best.fitness,
		Conflicts:  best.conflicts,
		Penalties:  best.penalties,
		Generation: generation,
		StopReason: stopReason,
		History:    history,
		Missing:    missingPlacements(d.snapshot, best.candidate),
	}
}

// missingPlacements compares the candidate's per-class placement counts
// against the catalog's requirements, one entry per under-placed subject.
func missingPlacements(snapshot *catalog.Snapshot, candidate *model.Candidate) []MissingPlacement {
	type classSubject struct{ classID, subjectCode string }
	placed := make(map[classSubject]int)
	for _, a := range candidate.Assignments {
		placed[classSubject{a.ClassID, a.SubjectCode}]++
	}

	var missing []MissingPlacement
	for _, class := range snapshot.AllClasses() {
		for _, lec := range class.RequiredLectures {
			got := placed[classSubject{class.ID, lec.SubjectCode}]
			if got < lec.HoursPerWeek {
				missing = append(missing, MissingPlacement{
					ClassID: class.ID, SubjectCode: lec.SubjectCode,
					Required: lec.HoursPerWeek, Placed: got,
				})
			}
		}
		for _, lab := range class.RequiredLabs {
			blockLen := 2
			if subj, ok := snapshot.SubjectByCode(lab.LabCode); ok && subj.LabBlockLength > 0 {
				blockLen = subj.LabBlockLength
			}
			required := lab.SessionsPerWeek * blockLen
			got := placed[classSubject{class.ID, lab.LabCode}]
			if got < required {
				missing = append(missing, MissingPlacement{
					ClassID: class.ID, SubjectCode: lab.LabCode,
					Required: required, Placed: got,
				})
			}
		}
		for _, electiveID := range class.ElectiveIDs {
			elective, ok := snapshot.ElectiveByID(electiveID)
			if !ok {
				continue
			}
			got := placed[classSubject{class.ID, electiveID}]
			if got < elective.HoursPerWeek {
				missing = append(missing, MissingPlacement{
					ClassID: class.ID, SubjectCode: electiveID,
					Required: elective.HoursPerWeek, Placed: got,
				})
			}
		}
	}
	return missing
}

func (d *Driver) initialPopulation() []*model.Candidate {
	population := make([]*model.Candidate, d.cfg.PopulationSize)
	for i := range population {
		rng := d.master.Child(uint64(i) + 1)
		candidate, _ := builder.Build(d.snapshot, rng)
		population[i] = candidate
	}
	return population
}

// scorePopulation evaluates every candidate in parallel, joining results
// into a deterministic index-ordered buffer before returning so parallelism
// never changes selection order.
func (d *Driver) scorePopulation(ctx context.Context, population []*model.Candidate) []scoredCandidate {
	results := workerpool.Map(ctx, population, 8, func(_ context.Context, _ int, candidate *model.Candidate) (any, error) {
		fitness, conflicts, penalties := evaluator.Evaluate(d.snapshot, candidate, d.preference)
		return scoredCandidate{candidate: candidate, fitness: fitness, conflicts: conflicts, penalties: penalties}, nil
	})

	out := make([]scoredCandidate, len(results))
	for i, r := range results {
		if r.Err != nil {
			out[i] = scoredCandidate{candidate: population[i], fitness: 0}
			continue
		}
		out[i] = r.Value.(scoredCandidate)
	}
	return out
}

// breed produces the next generation: elites are cloned through unchanged,
// the remainder is filled by tournament selection + crossover + mutation.
func (d *Driver) breed(scored []scoredCandidate, generation int) []*model.Candidate {
	pool := make([]gaops.Scored, len(scored))
	for i, s := range scored {
		pool[i] = gaops.Scored{Candidate: s.candidate, Fitness: s.fitness}
	}

	eliteCount := int(math.Ceil(float64(d.cfg.PopulationSize) * d.cfg.EliteRatio))
	if eliteCount > len(scored) {
		eliteCount = len(scored)
	}

	next := make([]*model.Candidate, 0, d.cfg.PopulationSize+1)
	for i := 0; i < eliteCount; i++ {
		next = append(next, scored[i].candidate.Clone())
	}

	rng := d.master.Child(uint64(generation)<<32 | 0xBEEF)
	for len(next) < d.cfg.PopulationSize {
		parentA := gaops.TournamentSelect(pool, d.cfg.TournamentSize, rng)
		parentB := gaops.TournamentSelect(pool, d.cfg.TournamentSize, rng)
		var childA, childB *model.Candidate
		if rng.Float64() < d.cfg.CrossoverRate {
			childA, childB = gaops.Crossover(parentA, parentB, rng)
		} else {
			childA, childB = parentA.Clone(), parentB.Clone()
		}
		gaops.Mutate(d.snapshot, childA, d.cfg.MutationRate, rng)
		gaops.Mutate(d.snapshot, childB, d.cfg.MutationRate, rng)
		next = append(next, childA, childB)
	}
	return next[:d.cfg.PopulationSize]
}

func summarize(generation int, scored []scoredCandidate) GenerationStat {
	if len(scored) == 0 {
		return GenerationStat{Generation: generation}
	}
	sum := 0.0
	worst := scored[0].fitness
	for _, s := range scored {
		sum += s.fitness
		if s.fitness < worst {
			worst = s.fitness
		}
	}
	return GenerationStat{
		Generation:   generation,
		BestFitness:  scored[0].fitness,
		MeanFitness:  sum / float64(len(scored)),
		WorstFitness: worst,
		Conflicts:    len(scored[0].conflicts),
	}
}
