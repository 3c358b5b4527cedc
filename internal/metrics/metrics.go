// Package metrics exposes Prometheus collectors for batch segmentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of semflu_segmentations_total.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback" // budget exceeded, greedy result used
	OutcomeBudget   = "budget_exceeded"
	OutcomeError    = "error"
)

var (
	segmentationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "semflu",
			Name:      "segmentations_total",
			Help:      "Segmented runs, partitioned by requested algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"},
	)

	fallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "semflu",
			Name:      "fallbacks_total",
			Help:      "Exhaustive searches that exceeded their budget and fell back to greedy.",
		},
	)

	droppedRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "semflu",
			Name:      "dropped_runs_total",
			Help:      "Runs skipped because they carried no responses.",
		},
	)

	segmentsPerRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "semflu",
			Name:      "segments_per_run",
			Help:      "Number of segments in each successful segmentation.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		},
	)

	segmentationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "semflu",
			Name:      "segmentation_seconds",
			Help:      "Wall time spent segmenting one run.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
)

// Register attaches the semflu collectors to reg. Registering twice is not
// an error.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		segmentationsTotal,
		fallbacksTotal,
		droppedRunsTotal,
		segmentsPerRun,
		segmentationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}

			return err
		}
	}

	return nil
}

// ObserveSegmentation records one segmented run. segments is ignored unless
// the outcome produced a solution.
func ObserveSegmentation(algorithm, outcome string, segments int, duration time.Duration) {
	switch outcome {
	case OutcomeSuccess, OutcomeFallback, OutcomeBudget:
	default:
		outcome = OutcomeError
	}
	segmentationsTotal.WithLabelValues(algorithm, outcome).Inc()
	if outcome == OutcomeFallback {
		fallbacksTotal.Inc()
	}
	if outcome == OutcomeSuccess || outcome == OutcomeFallback {
		segmentsPerRun.Observe(float64(segments))
	}
	if duration < 0 {
		duration = 0
	}
	segmentationSeconds.Observe(duration.Seconds())
}

// ObserveDroppedRun counts a run skipped for having no responses.
func ObserveDroppedRun() {
	droppedRunsTotal.Inc()
}
