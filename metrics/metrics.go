// Package metrics records Prometheus metrics for knapsack solves and for the
// HTTP service's response cache.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/knapsack/knapsack"
)

const namespace = "knapsack"

// Solve outcomes used as the "outcome" label.
const (
	OutcomeOptimal = "optimal"
	OutcomeBudget  = "budget"
	OutcomeError   = "error"
)

// Recorder owns the solver metric families. The zero value is not usable;
// build one with NewRecorder.
type Recorder struct {
	solves      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	expanded    prometheus.Counter
	cachePoints prometheus.Histogram
	respCache   *prometheus.CounterVec
}

// NewRecorder creates the metric families and registers them with reg.
// A nil reg skips registration, which suits tests that only read values.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Solve calls by algorithm and outcome.",
		}, []string{"algo", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent per solve call.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algo"}),
		expanded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_expanded_total",
			Help:      "Search nodes expanded by branch-and-bound.",
		}),
		cachePoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_points",
			Help:      "Staircase points stored by the dynamic solver's cache.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		respCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "HTTP response cache lookups by result.",
		}, []string{"result"}),
	}
	if reg == nil {
		return r, nil
	}

	for _, c := range r.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	return r, nil
}

func (r *Recorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{r.solves, r.duration, r.expanded, r.cachePoints, r.respCache}
}

// Outcome classifies a Solve error into one of the Outcome* labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOptimal
	case knapsack.IsBudgetError(err):
		return OutcomeBudget
	default:
		return OutcomeError
	}
}

// ObserveReport records one Solve call. rep may be partial when err is set.
func (r *Recorder) ObserveReport(rep knapsack.Report, err error) {
	algo := rep.Algo.String()
	r.solves.WithLabelValues(algo, Outcome(err)).Inc()
	r.duration.WithLabelValues(algo).Observe(rep.Elapsed.Seconds())

	switch rep.Algo {
	case knapsack.BranchAndBound:
		r.expanded.Add(float64(rep.Stats.Expanded))
	case knapsack.Dynamic:
		if err == nil {
			r.cachePoints.Observe(float64(rep.Stats.CachePoints))
		}
	}
}

// CacheHit counts a response served from the HTTP cache.
func (r *Recorder) CacheHit() { r.respCache.WithLabelValues("hit").Inc() }

// CacheMiss counts a response that had to be computed.
func (r *Recorder) CacheMiss() { r.respCache.WithLabelValues("miss").Inc() }
