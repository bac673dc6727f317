// Package suite compares unstructured console output against the structured
// logging facility: sequential throughput, parallel throughput and resident
// memory cost.
package suite

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"logbench/applog"
	"logbench/bench"
)

var DefaultPayloads = []string{
	"short message",
	"This is a slightly longer message used to compare the two approaches.",
	strings.Repeat("This is a very long message. ", 100),
}

const DefaultIterations = 1000

type Params struct {
	Iterations int
	Payloads   []string
	Runs       int
	Tolerance  float64
	Cooldown   time.Duration
}

// Targets are the two sinks under comparison.
type Targets struct {
	Console *applog.Console
	Logger  *applog.Logger
}

func PrintOp(c *applog.Console, tag string) bench.Operation {
	return func(i int, payload string) error {
		return c.Printf("[%d] %s: %s\n", i, tag, payload)
	}
}

func LoggerOp(l *applog.Logger, tag string) bench.Operation {
	return func(i int, payload string) error {
		l.Info(tag, "i", i, "payload", payload)
		return nil
	}
}

type phase struct {
	title  string
	mode   bench.Mode
	memory bool
}

var phases = []phase{
	{title: "Sequential", mode: bench.Sequential},
	{title: "Parallel", mode: bench.Parallel},
	{title: "Memory", mode: bench.Sequential, memory: true},
}

// Run executes every phase for both targets and returns the report. A host
// without memory introspection skips the memory phase with a warning; any
// other failure aborts the suite.
func Run(w io.Writer, h *bench.Harness, t Targets, p Params) (*bench.Report, error) {
	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintln(w, "  Console Output vs Structured Logger")
	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintf(w, "  Iterations: %d | Payloads: %d | Runs: %d\n", p.Iterations, len(p.Payloads), p.Runs)

	report := bench.NewReport("print vs logger benchmark")
	rp := bench.RunParams{Runs: p.Runs, Tolerance: p.Tolerance, Cooldown: p.Cooldown}

	for n, ph := range phases {
		fmt.Fprintf(w, "\n[%d/%d] %s...\n", n+1, len(phases), ph.title)

		printSum, err := runTrial(w, h, rp, bench.Trial{
			Label:        "print " + strings.ToLower(ph.title),
			Iterations:   p.Iterations,
			Payloads:     p.Payloads,
			Mode:         ph.mode,
			SampleMemory: ph.memory,
		}, PrintOp(t.Console, strings.ToLower(ph.title)+" print test"))
		if ph.memory && errors.Is(err, bench.ErrMemoryUnavailable) {
			fmt.Fprintf(w, "  ⚠ Skipped: %v\n", err)
			continue
		}
		if err != nil {
			return report, err
		}

		loggerSum, err := runTrial(w, h, rp, bench.Trial{
			Label:        "logger " + strings.ToLower(ph.title),
			Iterations:   p.Iterations,
			Payloads:     p.Payloads,
			Mode:         ph.mode,
			SampleMemory: ph.memory,
		}, LoggerOp(t.Logger, strings.ToLower(ph.title)+" logger test"))
		if err != nil {
			return report, err
		}

		report.Add(printSum)
		report.Add(loggerSum)
		bench.PrintComparison(w, strings.ToUpper(ph.title)+" COMPARISON", printSum, loggerSum)
	}

	return report, nil
}

func runTrial(w io.Writer, h *bench.Harness, rp bench.RunParams, trial bench.Trial, op bench.Operation) (bench.Summary, error) {
	fmt.Fprintf(w, "\n── %s ──\n", trial.Label)
	s, _, err := bench.RunMultiple(w, rp, trial.Label, func(int) (bench.Measurement, error) {
		return h.Run(trial, op)
	})
	if err != nil {
		fmt.Fprintf(w, "  ✗ %s failed: %v\n", trial.Label, err)
		return bench.Summary{}, fmt.Errorf("%s: %w", trial.Label, err)
	}
	bench.PrintSummary(w, s)
	return s, nil
}
