// Package metrics exports GA run telemetry as prometheus gauges and
// counters, scraped over a bare net/http /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/academic-sched/ga-scheduler/internal/ga"
)

// Recorder owns the GA collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	bestFitness       prometheus.Gauge
	meanFitness       prometheus.Gauge
	residualConflicts prometheus.Gauge
	generationsTotal  prometheus.Counter
	generationSeconds prometheus.Histogram

	lastObserved time.Time
}

// NewRecorder builds a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_ga_best_fitness",
			Help: "Best-so-far fitness of the current GA run.",
		}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_ga_mean_fitness",
			Help: "Mean fitness of the most recently scored generation.",
		}),
		residualConflicts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_ga_residual_conflicts",
			Help: "Conflict count of the best candidate in the most recent generation.",
		}),
		generationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_ga_generations_total",
			Help: "Generations scored since process start.",
		}),
		generationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_ga_generation_duration_seconds",
			Help:    "Wall-clock duration per scored generation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	r.registry.MustRegister(r.bestFitness, r.meanFitness, r.residualConflicts, r.generationsTotal, r.generationSeconds)
	return r
}

// ObserveGeneration publishes one generation's statistics. Duration is
// measured between successive calls within a run.
func (r *Recorder) ObserveGeneration(stat ga.GenerationStat) {
	now := time.Now()
	if !r.lastObserved.IsZero() {
		r.generationSeconds.Observe(now.Sub(r.lastObserved).Seconds())
	}
	r.lastObserved = now

	r.bestFitness.Set(stat.BestFitness)
	r.meanFitness.Set(stat.MeanFitness)
	r.residualConflicts.Set(float64(stat.Conflicts))
	r.generationsTotal.Inc()
}

// Handler returns the /metrics scrape handler for the private registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve runs a blocking HTTP server exposing /metrics on addr.
func (r *Recorder) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
