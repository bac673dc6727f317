package bench

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports measurements as Prometheus metrics on its own registry.
// All methods are safe on a nil receiver.
type Recorder struct {
	Registry *prometheus.Registry

	TrialDuration *prometheus.HistogramVec
	MemoryDelta   *prometheus.GaugeVec
	Invocations   *prometheus.CounterVec
	Failures      *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{Registry: prometheus.NewRegistry()}

	r.TrialDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logbench_trial_duration_seconds",
			Help:    "Wall-clock duration of benchmark trials in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"trial", "mode"},
	)

	r.MemoryDelta = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logbench_trial_memory_delta_bytes",
			Help: "Resident memory after minus before the last sampled trial",
		},
		[]string{"trial"},
	)

	r.Invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbench_trial_invocations_total",
			Help: "Total number of completed operation invocations",
		},
		[]string{"trial"},
	)

	r.Failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbench_trial_failures_total",
			Help: "Total number of failed trials by reason",
		},
		[]string{"trial", "reason"},
	)

	r.Registry.MustRegister(r.TrialDuration, r.MemoryDelta, r.Invocations, r.Failures)
	return r
}

func (r *Recorder) Observe(m Measurement) {
	if r == nil {
		return
	}
	r.TrialDuration.WithLabelValues(m.Label, string(m.Mode)).Observe(m.Elapsed.Seconds())
	r.Invocations.WithLabelValues(m.Label).Add(float64(m.Invocations))
}

func (r *Recorder) Memory(label string, delta int64) {
	if r == nil {
		return
	}
	r.MemoryDelta.WithLabelValues(label).Set(float64(delta))
}

func (r *Recorder) Failure(label string, err error) {
	if r == nil {
		return
	}
	r.Failures.WithLabelValues(label, FailureReason(err)).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.Registry)
}

// FailureReason maps an error onto a short metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTrial):
		return "invalid_trial"
	case errors.Is(err, ErrMemoryUnavailable):
		return "memory_unavailable"
	case errors.Is(err, ErrOperationFailed):
		return "operation_failed"
	default:
		return "unknown"
	}
}
