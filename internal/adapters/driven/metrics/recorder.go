// Package metrics exports run outcomes in the Prometheus text format.
//
// sanctrack runs as a one-shot command, so there is no scrape endpoint.
// After each run the recorder rewrites a textfile for the node_exporter
// textfile collector.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.RunRecorder = (*Recorder)(nil)

const namespace = "sanctrack"

// Run outcomes used as the outcome label.
const (
	OutcomeCommitted    = "committed"
	OutcomeDryRun       = "dry_run"
	OutcomeNotCommitted = "not_committed"
)

// Recorder holds the run metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	runs        *prometheus.CounterVec
	entries     prometheus.Gauge
	changes     *prometheus.GaugeVec
	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
	duration    prometheus.Gauge
}

// NewRecorder creates a recorder. An empty textfile keeps metrics in memory.
func NewRecorder(textfile string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Tracking runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Entries parsed from the most recent document.",
		}),
		changes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "changes",
			Help:      "Changes found by the most recent comparison run.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_commit_timestamp_seconds",
			Help:      "Unix time the baseline was last committed.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the most recent run.",
		}),
	}

	r.registry.MustRegister(r.runs, r.entries, r.changes, r.lastRun, r.lastSuccess, r.duration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRun updates the metrics and rewrites the textfile.
func (r *Recorder) RecordRun(_ context.Context, result *domain.RunResult, runErr error) error {
	if result == nil {
		return nil
	}

	r.runs.WithLabelValues(result.Mode.String(), outcome(result, runErr)).Inc()
	r.entries.Set(float64(result.EntriesParsed))
	r.duration.Set(result.Duration().Seconds())
	if !result.FinishedAt.IsZero() {
		r.lastRun.Set(float64(result.FinishedAt.Unix()))
		if result.Committed {
			r.lastSuccess.Set(float64(result.FinishedAt.Unix()))
		}
	}

	var counts domain.Counts
	if result.Report != nil {
		counts = result.Report.Counts
	}
	r.changes.WithLabelValues("added").Set(float64(counts.Added))
	r.changes.WithLabelValues("removed").Set(float64(counts.Removed))
	r.changes.WithLabelValues("modified").Set(float64(counts.Modified))

	if r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func outcome(result *domain.RunResult, runErr error) string {
	switch {
	case runErr != nil || (!result.Committed && !result.DryRun):
		return OutcomeNotCommitted
	case result.DryRun:
		return OutcomeDryRun
	default:
		return OutcomeCommitted
	}
}
