package suite

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"logbench/applog"
	"logbench/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func targets(t *testing.T, printOut, logOut io.Writer) Targets {
	t.Helper()
	f, err := applog.New(logOut, applog.Options{Format: applog.FormatJSON})
	require.NoError(t, err)
	return Targets{Console: applog.NewConsole(printOut), Logger: f.App}
}

func counter() bench.SamplerFunc {
	var rss uint64 = 1 << 20
	return func() (uint64, error) {
		rss += 4096
		return rss, nil
	}
}

func TestRun_AllPhases(t *testing.T) {
	var out, printed, logged bytes.Buffer
	h := bench.NewHarness(counter(), bench.NewRecorder())

	report, err := Run(&out, h, targets(t, &printed, &logged), Params{
		Iterations: 10,
		Payloads:   []string{"a", "bb"},
		Runs:       2,
		Tolerance:  1,
	})
	require.NoError(t, err)
	require.Len(t, report.Summaries, 6)

	labels := make([]string, 0, 6)
	for _, s := range report.Summaries {
		labels = append(labels, s.Label)
		assert.Equal(t, 2, s.Runs)
		assert.Equal(t, 20, s.Invocations)
	}
	assert.Equal(t, []string{
		"print sequential", "logger sequential",
		"print parallel", "logger parallel",
		"print memory", "logger memory",
	}, labels)
	require.NotNil(t, report.Summaries[4].MemoryAvg)
	assert.Equal(t, int64(4096), *report.Summaries[4].MemoryAvg)

	// 3 phases x 2 runs x 20 invocations per target.
	assert.Equal(t, 120, strings.Count(printed.String(), "\n"))
	assert.Equal(t, 120, strings.Count(logged.String(), "\n"))
	assert.Contains(t, printed.String(), "[9] sequential print test: bb")

	assert.Contains(t, out.String(), "[1/3] Sequential...")
	assert.Contains(t, out.String(), "PARALLEL COMPARISON")
	assert.Contains(t, out.String(), "MEMORY COMPARISON")
}

func TestRun_SkipsMemoryWithoutSampler(t *testing.T) {
	var out bytes.Buffer
	h := bench.NewHarness(nil, nil)

	report, err := Run(&out, h, targets(t, io.Discard, io.Discard), Params{
		Iterations: 5,
		Payloads:   DefaultPayloads,
		Runs:       1,
	})
	require.NoError(t, err)
	assert.Len(t, report.Summaries, 4)
	assert.Contains(t, out.String(), "⚠ Skipped")
	assert.NotContains(t, out.String(), "MEMORY COMPARISON")
}

func TestRun_PrintFailureAborts(t *testing.T) {
	var out bytes.Buffer
	h := bench.NewHarness(nil, nil)

	report, err := Run(&out, h, targets(t, failingWriter{}, io.Discard), Params{
		Iterations: 5,
		Payloads:   []string{"a"},
		Runs:       1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bench.ErrOperationFailed)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Empty(t, report.Summaries)
}

func TestRun_InvalidParams(t *testing.T) {
	h := bench.NewHarness(nil, nil)
	_, err := Run(io.Discard, h, targets(t, io.Discard, io.Discard), Params{Iterations: 0, Payloads: DefaultPayloads, Runs: 1})
	assert.ErrorIs(t, err, bench.ErrInvalidTrial)
}

func TestDefaultPayloadsGrow(t *testing.T) {
	require.Len(t, DefaultPayloads, 3)
	assert.Less(t, len(DefaultPayloads[0]), len(DefaultPayloads[1]))
	assert.Less(t, len(DefaultPayloads[1]), len(DefaultPayloads[2]))
}
