package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Harness runs trials and produces measurements. A nil Sampler means memory
// introspection is unavailable on this host; a nil Recorder disables metrics.
type Harness struct {
	Sampler  MemorySampler
	Recorder *Recorder
}

func NewHarness(sampler MemorySampler, rec *Recorder) *Harness {
	return &Harness{Sampler: sampler, Recorder: rec}
}

// Validate rejects trials that cannot produce a meaningful measurement.
func Validate(t Trial) error {
	if t.Iterations <= 0 {
		return fmt.Errorf("%w: %q: iteration count must be positive, got %d", ErrInvalidTrial, t.Label, t.Iterations)
	}
	if len(t.Payloads) == 0 {
		return fmt.Errorf("%w: %q: payload set is empty", ErrInvalidTrial, t.Label)
	}
	switch t.Mode {
	case Sequential, Parallel, "":
	default:
		return fmt.Errorf("%w: %q: unknown mode %q", ErrInvalidTrial, t.Label, t.Mode)
	}
	return nil
}

// Run dispatches on the trial's mode. With SampleMemory set the whole run is
// wrapped in MeasureMemory and the delta is attached to the measurement.
func (h *Harness) Run(t Trial, op Operation) (Measurement, error) {
	if err := Validate(t); err != nil {
		h.Recorder.Failure(t.Label, err)
		return Measurement{}, err
	}

	run := h.RunSequential
	if t.Mode == Parallel {
		run = h.RunParallel
	}

	if !t.SampleMemory {
		return run(t, op)
	}

	var m Measurement
	delta, err := h.MeasureMemory(func() error {
		var runErr error
		m, runErr = run(t, op)
		return runErr
	})
	if err != nil {
		if errors.Is(err, ErrMemoryUnavailable) {
			h.Recorder.Failure(t.Label, err)
		}
		return Measurement{}, err
	}
	m.MemoryDelta = &delta
	h.Recorder.Memory(t.Label, delta)
	return m, nil
}

// RunSequential calls op for every iteration and payload in order. The first
// failure aborts the trial.
func (h *Harness) RunSequential(t Trial, op Operation) (Measurement, error) {
	if err := Validate(t); err != nil {
		return Measurement{}, err
	}

	start := time.Now()
	for i := 0; i < t.Iterations; i++ {
		for j, p := range t.Payloads {
			if err := op(i, p); err != nil {
				opErr := &OperationError{Label: t.Label, Iteration: i, Payload: j, Failures: 1, Err: err}
				h.Recorder.Failure(t.Label, opErr)
				return Measurement{}, opErr
			}
		}
	}
	elapsed := time.Since(start)

	m := Measurement{
		Label:       t.Label,
		Mode:        Sequential,
		Elapsed:     elapsed,
		Iterations:  t.Iterations,
		Invocations: t.Invocations(),
	}
	h.Recorder.Observe(m)
	slog.Debug("trial finished", "trial", t.Label, "mode", m.Mode, "elapsed", elapsed, "invocations", m.Invocations)
	return m, nil
}

// RunParallel fans every iteration out onto a worker pool sized to
// GOMAXPROCS and waits for all of them. Payloads within one iteration stay
// sequential. Every iteration runs even after a failure; the error carries
// the first failure seen and the number of failed iterations.
func (h *Harness) RunParallel(t Trial, op Operation) (Measurement, error) {
	if err := Validate(t); err != nil {
		return Measurement{}, err
	}

	var (
		mu        sync.Mutex
		first     *OperationError
		failures  int
		completed atomic.Int64
	)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	start := time.Now()
	for i := 0; i < t.Iterations; i++ {
		i := i // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		g.Go(func() error {
			for j, p := range t.Payloads {
				if err := op(i, p); err != nil {
					mu.Lock()
					failures++
					if first == nil {
						first = &OperationError{Label: t.Label, Iteration: i, Payload: j, Err: err}
					}
					mu.Unlock()
					return err
				}
				completed.Add(1)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	elapsed := time.Since(start)

	if waitErr != nil {
		first.Failures = failures
		h.Recorder.Failure(t.Label, first)
		return Measurement{}, first
	}

	m := Measurement{
		Label:       t.Label,
		Mode:        Parallel,
		Elapsed:     elapsed,
		Iterations:  t.Iterations,
		Invocations: int(completed.Load()),
	}
	h.Recorder.Observe(m)
	slog.Debug("trial finished", "trial", t.Label, "mode", m.Mode, "elapsed", elapsed, "invocations", m.Invocations)
	return m, nil
}

// MeasureMemory samples resident memory around block and returns the signed
// delta in bytes. A missing or failing sampler is ErrMemoryUnavailable and
// never a zero delta.
func (h *Harness) MeasureMemory(block func() error) (int64, error) {
	if h.Sampler == nil {
		return 0, fmt.Errorf("%w: no sampler configured", ErrMemoryUnavailable)
	}

	before, err := h.Sampler.SampleRSS()
	if err != nil {
		return 0, fmt.Errorf("%w: sample before: %v", ErrMemoryUnavailable, err)
	}

	if err := block(); err != nil {
		return 0, err
	}

	after, err := h.Sampler.SampleRSS()
	if err != nil {
		return 0, fmt.Errorf("%w: sample after: %v", ErrMemoryUnavailable, err)
	}

	return int64(after) - int64(before), nil
}
