package bench

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(int, string) error { return nil }

func scenarioPayloads() []string {
	return []string{"a", strings.Repeat("b", 50), strings.Repeat("c", 5000)}
}

func TestRunSequential_CompletesEveryInvocation(t *testing.T) {
	h := NewHarness(nil, nil)
	trial := Trial{Label: "seq", Iterations: 1000, Payloads: []string{"a", strings.Repeat("b", 50)}}

	for run := 0; run < 2; run++ {
		m, err := h.RunSequential(trial, noop)
		require.NoError(t, err)
		assert.Equal(t, 1000, m.Iterations)
		assert.Equal(t, 2000, m.Invocations)
		assert.GreaterOrEqual(t, int64(m.Elapsed), int64(0))
		assert.Equal(t, Sequential, m.Mode)
		assert.Nil(t, m.MemoryDelta)
	}
}

func TestRunSequential_OrderIsDeterministic(t *testing.T) {
	h := NewHarness(nil, nil)
	var got []string
	op := func(i int, p string) error {
		got = append(got, p)
		return nil
	}

	_, err := h.RunSequential(Trial{Label: "order", Iterations: 2, Payloads: []string{"x", "y", "z"}}, op)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "x", "y", "z"}, got)
}

func TestRunSequential_ThreePayloadScenario(t *testing.T) {
	h := NewHarness(nil, nil)
	m, err := h.RunSequential(Trial{Label: "scenario", Iterations: 1000, Payloads: scenarioPayloads()}, noop)
	require.NoError(t, err)
	assert.Equal(t, 1000, m.Iterations)
	assert.Equal(t, 3000, m.Invocations)
}

func TestRunSequential_FailsFast(t *testing.T) {
	h := NewHarness(nil, nil)
	boom := errors.New("sink closed")
	calls := 0
	op := func(i int, p string) error {
		calls++
		if i == 2 {
			return boom
		}
		return nil
	}

	m, err := h.RunSequential(Trial{Label: "fail", Iterations: 1000, Payloads: []string{"a"}}, op)
	require.Error(t, err)
	assert.Equal(t, Measurement{}, m)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, boom)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, 2, opErr.Iteration)
	assert.Equal(t, 0, opErr.Payload)
	assert.Equal(t, 1, opErr.Failures)
}

func TestInvalidTrial_NeverInvokesOperation(t *testing.T) {
	h := NewHarness(SamplerFunc(func() (uint64, error) { return 1, nil }), nil)
	called := false
	op := func(int, string) error {
		called = true
		return nil
	}

	cases := []Trial{
		{Label: "zero", Iterations: 0, Payloads: []string{"a"}},
		{Label: "negative", Iterations: -1, Payloads: []string{"a"}},
		{Label: "empty", Iterations: 10, Payloads: nil},
		{Label: "mode", Iterations: 10, Payloads: []string{"a"}, Mode: "sideways"},
	}
	for _, tc := range cases {
		t.Run(tc.Label, func(t *testing.T) {
			_, err := h.RunSequential(tc, op)
			assert.ErrorIs(t, err, ErrInvalidTrial)
			_, err = h.RunParallel(tc, op)
			assert.ErrorIs(t, err, ErrInvalidTrial)
			tc.SampleMemory = true
			_, err = h.Run(tc, op)
			assert.ErrorIs(t, err, ErrInvalidTrial)
		})
	}
	assert.False(t, called)
}

func TestRunParallel_NoInvocationDropped(t *testing.T) {
	h := NewHarness(nil, nil)
	var (
		mu   sync.Mutex
		seen = make(map[int]int)
	)
	op := func(i int, p string) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	}

	m, err := h.RunParallel(Trial{Label: "par", Iterations: 1000, Payloads: []string{"a", strings.Repeat("b", 50)}}, op)
	require.NoError(t, err)
	assert.Equal(t, Parallel, m.Mode)
	assert.Equal(t, 1000, m.Iterations)
	assert.Equal(t, 2000, m.Invocations)
	assert.Len(t, seen, 1000)
	for i, n := range seen {
		assert.Equal(t, 2, n, "index %d", i)
	}
}

func TestRunParallel_CountsEveryFailure(t *testing.T) {
	h := NewHarness(nil, nil)
	var calls atomic.Int64
	op := func(i int, p string) error {
		calls.Add(1)
		if i%100 == 7 {
			return errors.New("rejected")
		}
		return nil
	}

	m, err := h.RunParallel(Trial{Label: "par-fail", Iterations: 1000, Payloads: []string{"a"}}, op)
	require.Error(t, err)
	assert.Equal(t, Measurement{}, m)
	assert.ErrorIs(t, err, ErrOperationFailed)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, 10, opErr.Failures)
	assert.Equal(t, 7, opErr.Iteration%100)
	// Failures never cancel the other indices.
	assert.Equal(t, int64(1000), calls.Load())
	assert.Contains(t, err.Error(), "10 invocations failed")
}

func TestMeasureMemory_SignedDelta(t *testing.T) {
	samples := []uint64{4096, 1024}
	h := NewHarness(SamplerFunc(func() (uint64, error) {
		v := samples[0]
		samples = samples[1:]
		return v, nil
	}), nil)

	ran := false
	delta, err := h.MeasureMemory(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int64(-3072), delta)
}

func TestMeasureMemory_Unavailable(t *testing.T) {
	t.Run("no sampler", func(t *testing.T) {
		h := NewHarness(nil, nil)
		ran := false
		delta, err := h.MeasureMemory(func() error { ran = true; return nil })
		assert.ErrorIs(t, err, ErrMemoryUnavailable)
		assert.Zero(t, delta)
		assert.False(t, ran)
	})

	t.Run("sample fails after block", func(t *testing.T) {
		n := 0
		h := NewHarness(SamplerFunc(func() (uint64, error) {
			n++
			if n > 1 {
				return 0, errors.New("denied")
			}
			return 2048, nil
		}), nil)
		_, err := h.MeasureMemory(func() error { return nil })
		assert.ErrorIs(t, err, ErrMemoryUnavailable)
	})

	t.Run("block error propagates", func(t *testing.T) {
		h := NewHarness(SamplerFunc(func() (uint64, error) { return 1, nil }), nil)
		boom := errors.New("boom")
		_, err := h.MeasureMemory(func() error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrMemoryUnavailable)
	})
}

func TestRun_DispatchesAndAttachesMemory(t *testing.T) {
	samples := []uint64{1000, 5000}
	h := NewHarness(SamplerFunc(func() (uint64, error) {
		v := samples[0]
		samples = samples[1:]
		return v, nil
	}), NewRecorder())

	m, err := h.Run(Trial{Label: "mem", Iterations: 10, Payloads: []string{"a", "b"}, SampleMemory: true}, noop)
	require.NoError(t, err)
	require.NotNil(t, m.MemoryDelta)
	assert.Equal(t, int64(4000), *m.MemoryDelta)
	assert.Equal(t, 20, m.Invocations)
	assert.Equal(t, Sequential, m.Mode)

	m, err = h.Run(Trial{Label: "par", Iterations: 10, Payloads: []string{"a"}, Mode: Parallel}, noop)
	require.NoError(t, err)
	assert.Equal(t, Parallel, m.Mode)
	assert.Nil(t, m.MemoryDelta)
}

func TestRun_MemoryUnavailableIsNotZero(t *testing.T) {
	h := NewHarness(nil, nil)
	m, err := h.Run(Trial{Label: "mem", Iterations: 1, Payloads: []string{"a"}, SampleMemory: true}, noop)
	assert.ErrorIs(t, err, ErrMemoryUnavailable)
	assert.Nil(t, m.MemoryDelta)
}
