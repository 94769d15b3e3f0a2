// Package metrics counts profile store operations and credential
// resolutions. Counters live in a private registry so a CLI run can dump
// them to a node_exporter textfile without touching global state.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared by store and resolver.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder records ccm metrics. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	profileOps         *prometheus.CounterVec
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		profileOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccm_profile_operations_total",
				Help: "Total number of profile store operations",
			},
			[]string{"operation", "result"},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccm_credential_resolutions_total",
				Help: "Total number of credential resolutions by backend",
			},
			[]string{"backend", "result"},
		),
		resolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccm_credential_resolution_duration_seconds",
				Help:    "Duration of credential resolutions in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"backend"},
		),
	}
}

// RecordProfileOp counts a store operation outcome.
func (r *Recorder) RecordProfileOp(operation, result string) {
	if r == nil {
		return
	}
	r.profileOps.WithLabelValues(operation, result).Inc()
}

// RecordResolution counts a resolution outcome and its latency.
func (r *Recorder) RecordResolution(backend, result string, durationSeconds float64) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(backend, result).Inc()
	r.resolutionDuration.WithLabelValues(backend).Observe(durationSeconds)
}

// ProfileOps exposes the operations counter for tests.
func (r *Recorder) ProfileOps() *prometheus.CounterVec {
	return r.profileOps
}

// Resolutions exposes the resolutions counter for tests.
func (r *Recorder) Resolutions() *prometheus.CounterVec {
	return r.resolutions
}

// Gatherer returns the registry holding the recorder's metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// replacing the file atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
