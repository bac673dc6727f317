package bench

import (
	"fmt"
	"io"
	"time"
)

func PrintMeasurement(w io.Writer, m Measurement) {
	fmt.Fprintf(w, "\n┌─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│  %-39s│\n", m.Label)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Mode:         %-25s│\n", m.Mode)
	fmt.Fprintf(w, "│  Iterations:   %-25d│\n", m.Iterations)
	fmt.Fprintf(w, "│  Invocations:  %-25d│\n", m.Invocations)
	fmt.Fprintf(w, "│  Elapsed:      %-25s│\n", FmtDur(m.Elapsed))
	fmt.Fprintf(w, "│  ops/s:        %-25.0f│\n", m.Throughput())
	if m.MemoryDelta != nil {
		fmt.Fprintf(w, "│  Memory Δ:     %-25s│\n", FmtBytes(*m.MemoryDelta))
	}
	fmt.Fprintf(w, "└─────────────────────────────────────────┘\n")
}

func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n┌─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│  %-39s│\n", s.Label)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Runs:         %-25d│\n", s.Runs)
	fmt.Fprintf(w, "│  Invocations:  %-25d│\n", s.Invocations)
	fmt.Fprintf(w, "│  ops/s:        %-25.0f│\n", s.Throughput)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Elapsed avg:  %-25s│\n", FmtDur(s.ElapsedAvg))
	fmt.Fprintf(w, "│  Elapsed min:  %-25s│\n", FmtDur(s.ElapsedMin))
	fmt.Fprintf(w, "│  Elapsed max:  %-25s│\n", FmtDur(s.ElapsedMax))
	fmt.Fprintf(w, "│  Elapsed p50:  %-25s│\n", FmtDur(s.ElapsedP50))
	fmt.Fprintf(w, "│  Elapsed p95:  %-25s│\n", FmtDur(s.ElapsedP95))
	if s.MemoryAvg != nil {
		fmt.Fprintf(w, "│  Memory avg Δ: %-25s│\n", FmtBytes(*s.MemoryAvg))
	}
	fmt.Fprintf(w, "└─────────────────────────────────────────┘\n")
}

// PrintComparison puts a baseline and a candidate side by side. The ratio is
// candidate p50 over baseline p50.
func PrintComparison(w io.Writer, title string, baseline, candidate Summary) {
	fmt.Fprintf(w, "\n╔═════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  %-59s║\n", title)
	fmt.Fprintf(w, "╠═══════════════════╦════════════════╦════════════════════════╣\n")
	fmt.Fprintf(w, "║  Metric           ║  %-13s ║  %-21s ║\n", trunc(baseline.Label, 13), trunc(candidate.Label, 21))
	fmt.Fprintf(w, "╠═══════════════════╬════════════════╬════════════════════════╣\n")
	fmt.Fprintf(w, "║  ops/s            ║  %-13.0f ║  %-21.0f ║\n", baseline.Throughput, candidate.Throughput)
	fmt.Fprintf(w, "║  Elapsed avg      ║  %-13s ║  %-21s ║\n", FmtDur(baseline.ElapsedAvg), FmtDur(candidate.ElapsedAvg))
	fmt.Fprintf(w, "║  Elapsed p50      ║  %-13s ║  %-21s ║\n", FmtDur(baseline.ElapsedP50), FmtDur(candidate.ElapsedP50))
	fmt.Fprintf(w, "║  Elapsed p95      ║  %-13s ║  %-21s ║\n", FmtDur(baseline.ElapsedP95), FmtDur(candidate.ElapsedP95))
	if baseline.MemoryAvg != nil || candidate.MemoryAvg != nil {
		fmt.Fprintf(w, "║  Memory avg Δ     ║  %-13s ║  %-21s ║\n", FmtBytesPtr(baseline.MemoryAvg), FmtBytesPtr(candidate.MemoryAvg))
	}
	fmt.Fprintf(w, "╠═══════════════════╩════════════════╩════════════════════════╣\n")
	fmt.Fprintf(w, "║  p50 ratio:  %-46s ║\n", fmtRatio(baseline.ElapsedP50, candidate.ElapsedP50))
	fmt.Fprintf(w, "╚═════════════════════════════════════════════════════════════╝\n")
}

func fmtRatio(baseline, candidate time.Duration) string {
	if baseline <= 0 {
		return "n/a"
	}
	r := float64(candidate) / float64(baseline)
	switch {
	case r < 1:
		return fmt.Sprintf("%.2fx (%.1f%% faster)", r, (1-r)*100)
	case r > 1:
		return fmt.Sprintf("%.2fx (%.1f%% slower)", r, (r-1)*100)
	default:
		return "1.00x (no difference)"
	}
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	switch {
	case us < 1000:
		return fmt.Sprintf("%.0fµs", us)
	case us < 1_000_000:
		return fmt.Sprintf("%.2fms", us/1000)
	default:
		return fmt.Sprintf("%.3fs", us/1_000_000)
	}
}

// FmtBytes renders a signed byte count, switching to KB above 1 KiB.
func FmtBytes(b int64) string {
	abs := b
	if abs < 0 {
		abs = -abs
	}
	if abs < 1024 {
		return fmt.Sprintf("%+d B", b)
	}
	return fmt.Sprintf("%+d KB", b/1024)
}

func FmtBytesPtr(b *int64) string {
	if b == nil {
		return "-"
	}
	return FmtBytes(*b)
}

func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
