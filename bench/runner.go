package bench

import (
	"fmt"
	"io"
	"time"
)

type RunParams struct {
	Runs      int
	Tolerance float64       // allowed throughput deviation for the steady-state check
	Cooldown  time.Duration // pause between runs, not after the last
}

// RunMultiple executes runFn N times, checks steady-state, returns the
// summary. runFn receives the run index (0-based). The first failing run
// aborts the series. A single run is printed as one measurement box.
func RunMultiple(w io.Writer, p RunParams, label string, runFn func(run int) (Measurement, error)) (Summary, []Measurement, error) {
	runs := p.Runs
	if runs < 1 {
		runs = 1
	}
	if runs == 1 {
		m, err := runFn(0)
		if err != nil {
			return Summary{}, nil, err
		}
		PrintMeasurement(w, m)
		all := []Measurement{m}
		s := Summarize(label, all)
		s.Steady = true
		return s, all, nil
	}

	fmt.Fprintf(w, "\n╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  %d-RUN BENCHMARK: %-38s║\n", runs, label)
	fmt.Fprintf(w, "║  Methodology: median of %d runs, steady-state verified    ║\n", runs)
	fmt.Fprintf(w, "╚═══════════════════════════════════════════════════════════╝\n")

	all := make([]Measurement, 0, runs)
	for i := 0; i < runs; i++ {
		m, err := runFn(i)
		if err != nil {
			fmt.Fprintf(w, "  ✗ Run %d/%d failed: %v\n", i+1, runs, err)
			return Summary{}, nil, fmt.Errorf("run %d/%d: %w", i+1, runs, err)
		}
		all = append(all, m)

		fmt.Fprintf(w, "  Run %d: elapsed=%s  ops/s=%.0f%s\n", i+1, FmtDur(m.Elapsed), m.Throughput(), fmtMemSuffix(m.MemoryDelta))

		if i < runs-1 && p.Cooldown > 0 {
			time.Sleep(p.Cooldown)
		}
	}

	s := Summarize(label, all)
	s.Steady, s.MaxDev = SteadyState(all, p.Tolerance)

	fmt.Fprintf(w, "\n── Steady-State Check ──\n")
	fmt.Fprintf(w, "  Max throughput deviation: %.1f%%\n", s.MaxDev*100)
	if s.Steady {
		fmt.Fprintf(w, "  ✅ PASSED (within ±%.0f%%)\n", p.Tolerance*100)
	} else {
		fmt.Fprintf(w, "  ⚠️  FAILED (%.1f%% > %.0f%%) — results still reported as median\n", s.MaxDev*100, p.Tolerance*100)
	}

	med := MedianIndex(all)
	fmt.Fprintf(w, "\n╔═════╦════════════╦══════════════╦═══════════════╗\n")
	fmt.Fprintf(w, "║ Run ║  Elapsed   ║    ops/s     ║ Memory        ║\n")
	fmt.Fprintf(w, "╠═════╬════════════╬══════════════╬═══════════════╣\n")
	for i, r := range all {
		marker := "  "
		if i == med {
			marker = "→ "
		}
		fmt.Fprintf(w, "║ %s%d ║ %10s ║ %12.0f ║ %-13s ║\n",
			marker, i+1, FmtDur(r.Elapsed), r.Throughput(), FmtBytesPtr(r.MemoryDelta))
	}
	fmt.Fprintf(w, "╚═════╩════════════╩══════════════╩═══════════════╝\n")
	fmt.Fprintln(w, "  → = median (reported)")

	return s, all, nil
}

func fmtMemSuffix(delta *int64) string {
	if delta == nil {
		return ""
	}
	return "  mem=" + FmtBytes(*delta)
}
