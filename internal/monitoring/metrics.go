package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lens_optimizer"

// OptimizerMetrics groups the Prometheus collectors updated by the evolution
// engine. All methods are safe to call on a nil receiver.
type OptimizerMetrics struct {
	generationsTotal    prometheus.Counter
	evaluationsTotal    prometheus.Counter
	runsTotal           *prometheus.CounterVec
	catalogExhausted    *prometheus.CounterVec
	bestFitness         prometheus.Gauge
	averageFitness      prometheus.Gauge
	populationDiversity prometheus.Gauge
	worstFitness        prometheus.Gauge
	fitnessStdDev       prometheus.Gauge
	runDuration         prometheus.Histogram
}

// NewOptimizerMetrics creates the collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered.
func NewOptimizerMetrics(reg prometheus.Registerer) *OptimizerMetrics {
	m := &OptimizerMetrics{
		generationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of generations evolved",
		}),
		evaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of configuration fitness evaluations",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of optimization runs by outcome",
		}, []string{"outcome"}),
		catalogExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_exhausted_total",
			Help:      "Initializations aborted because a required component family was empty",
		}, []string{"family"}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness in the current generation",
		}),
		averageFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_fitness",
			Help:      "Average fitness in the current generation",
		}),
		populationDiversity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population_diversity",
			Help:      "Number of distinct genotype signatures in the current generation",
		}),
		worstFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worst_fitness",
			Help:      "Lowest fitness in the current generation",
		}),
		fitnessStdDev: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fitness_stddev",
			Help:      "Standard deviation of fitness in the current generation",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of optimization runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.generationsTotal,
			m.evaluationsTotal,
			m.runsTotal,
			m.catalogExhausted,
			m.bestFitness,
			m.averageFitness,
			m.populationDiversity,
			m.worstFitness,
			m.fitnessStdDev,
			m.runDuration,
		)
	}
	return m
}

// ObserveGeneration records the statistics of a completed generation.
// Generation 0 (the initial population) does not count as an evolved generation.
func (m *OptimizerMetrics) ObserveGeneration(generation int, best, average float64, diversity int) {
	if m == nil {
		return
	}
	if generation > 0 {
		m.generationsTotal.Inc()
	}
	m.bestFitness.Set(best)
	m.averageFitness.Set(average)
	m.populationDiversity.Set(float64(diversity))
}

// ObserveSpread records how far the current generation's fitness is spread
func (m *OptimizerMetrics) ObserveSpread(worst, stddev float64) {
	if m == nil {
		return
	}
	m.worstFitness.Set(worst)
	m.fitnessStdDev.Set(stddev)
}

// RecordEvaluations adds n fitness evaluations
func (m *OptimizerMetrics) RecordEvaluations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evaluationsTotal.Add(float64(n))
}

// RecordCatalogExhausted records an aborted initialization
func (m *OptimizerMetrics) RecordCatalogExhausted(family string) {
	if m == nil {
		return
	}
	m.catalogExhausted.WithLabelValues(family).Inc()
}

// RecordRun records a finished run and its duration
func (m *OptimizerMetrics) RecordRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
