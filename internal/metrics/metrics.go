// Package metrics instruments ingestion and correlation runs with
// prometheus/client_golang, a dependency the teacher declares but never
// wires — this is its first real use in the lineage (per SPEC_FULL.md's
// domain-stack section).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestionRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synapsec",
		Subsystem: "ingestion",
		Name:      "runs_total",
		Help:      "Ingestion runs processed, by source tool and outcome.",
	}, []string{"source_tool", "outcome"})

	IngestionFindings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synapsec",
		Subsystem: "ingestion",
		Name:      "findings_total",
		Help:      "Findings processed during ingestion, by disposition (created/deduplicated/reopened/error).",
	}, []string{"disposition"})

	IngestionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "synapsec",
		Subsystem: "ingestion",
		Name:      "duration_seconds",
		Help:      "Wall-clock time to process one uploaded file end to end.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source_tool"})

	CorrelationRelationships = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synapsec",
		Subsystem: "correlation",
		Name:      "relationships_total",
		Help:      "Finding relationships inserted by a correlation run, by rule.",
	}, []string{"rule"})

	CorrelationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "synapsec",
		Subsystem: "correlation",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock time to correlate one application's findings.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Register adds every collector to reg (called once at startup with
// prometheus.DefaultRegisterer).
func Register(reg prometheus.Registerer) {
	reg.MustRegister(IngestionRuns, IngestionFindings, IngestionDuration, CorrelationRelationships, CorrelationDuration)
}

// ObserveDuration records elapsed time since start against h.
func ObserveDuration(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
