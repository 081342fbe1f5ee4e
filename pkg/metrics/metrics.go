// Package metrics exposes prometheus instrumentation for the comparison
// engine. A Registry is optional everywhere it is accepted; callers that
// do not scrape simply pass nil.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all engine metrics.
type Registry struct {
	// Comparison pipeline
	ComparisonsTotal   *prometheus.CounterVec // outcome: ok | parse_error
	ComparisonDuration prometheus.Histogram
	SimilarityScore    prometheus.Histogram
	OperationsEmitted  *prometheus.CounterVec // kind

	// Parsing
	ParseErrorsTotal *prometheus.CounterVec // kind

	// Refinement
	RefinementRounds  prometheus.Histogram
	UnstabilizedTotal prometheus.Counter
	DegradedTotal     prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a Registry with all metrics registered on a private
// prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.ComparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netdiff_comparisons_total",
		Help: "Total netlist comparisons by outcome",
	}, []string{"outcome"})

	r.ComparisonDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netdiff_comparison_duration_seconds",
		Help:    "Wall time of one full parse/label/align/diff pipeline",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	r.SimilarityScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netdiff_similarity_score",
		Help:    "Structural similarity scores of completed comparisons",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	r.OperationsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netdiff_operations_emitted_total",
		Help: "Edit-script operations emitted by kind",
	}, []string{"kind"})

	r.ParseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netdiff_parse_errors_total",
		Help: "Netlist parse failures by error kind",
	}, []string{"kind"})

	r.RefinementRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netdiff_refinement_rounds",
		Help:    "Color refinement rounds until stabilization or cap",
		Buckets: prometheus.LinearBuckets(1, 1, 15),
	})

	r.UnstabilizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netdiff_refinement_unstabilized_total",
		Help: "Refinements cut short by the round cap or step budget",
	})

	r.DegradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netdiff_degraded_comparisons_total",
		Help: "Comparisons involving unrecognized device kinds",
	})

	r.registry.MustRegister(
		r.ComparisonsTotal, r.ComparisonDuration, r.SimilarityScore,
		r.OperationsEmitted, r.ParseErrorsTotal, r.RefinementRounds,
		r.UnstabilizedTotal, r.DegradedTotal,
	)
	return r
}

// DefaultRegistry returns the shared process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// Gatherer exposes the underlying registry for scraping or test
// inspection.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// RecordComparison records one completed comparison.
func (r *Registry) RecordComparison(duration time.Duration, similarity float64) {
	if r == nil {
		return
	}
	r.ComparisonsTotal.WithLabelValues("ok").Inc()
	r.ComparisonDuration.Observe(duration.Seconds())
	r.SimilarityScore.Observe(similarity)
}

// RecordParseError records one failed parse.
func (r *Registry) RecordParseError(kind string) {
	if r == nil {
		return
	}
	r.ComparisonsTotal.WithLabelValues("parse_error").Inc()
	r.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordRefinement records one labeling pass.
func (r *Registry) RecordRefinement(rounds int, stabilized bool) {
	if r == nil {
		return
	}
	r.RefinementRounds.Observe(float64(rounds))
	if !stabilized {
		r.UnstabilizedTotal.Inc()
	}
}

// RecordOperations bumps per-kind operation counters.
func (r *Registry) RecordOperations(kinds map[string]int) {
	if r == nil {
		return
	}
	for kind, n := range kinds {
		r.OperationsEmitted.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordDegraded records a comparison that involved unknown device kinds.
func (r *Registry) RecordDegraded() {
	if r == nil {
		return
	}
	r.DegradedTotal.Inc()
}
