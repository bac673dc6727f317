package bench

import (
	"math"
	"sort"
	"time"
)

func Summarize(label string, runs []Measurement) Summary {
	s := Summary{Label: label, Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}

	durations := make([]time.Duration, 0, len(runs))
	var sum time.Duration
	var memSum int64
	memRuns := 0
	for _, m := range runs {
		durations = append(durations, m.Elapsed)
		sum += m.Elapsed
		if m.MemoryDelta != nil {
			memSum += *m.MemoryDelta
			memRuns++
		}
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	med := Median(runs)
	s.Invocations = med.Invocations
	s.ElapsedAvg = sum / time.Duration(len(durations))
	s.ElapsedMin = durations[0]
	s.ElapsedMax = durations[len(durations)-1]
	s.ElapsedP50 = pct(durations, 50)
	s.ElapsedP95 = pct(durations, 95)
	s.Throughput = med.Throughput()
	if memRuns > 0 {
		avg := memSum / int64(memRuns)
		s.MemoryAvg = &avg
	}
	return s
}

// Median picks the median run by elapsed time. The input is not reordered.
func Median(runs []Measurement) Measurement {
	i := MedianIndex(runs)
	if i < 0 {
		return Measurement{}
	}
	return runs[i]
}

// MedianIndex returns the position in runs of the median run, or -1 for an
// empty slice. Ties keep input order.
func MedianIndex(runs []Measurement) int {
	if len(runs) == 0 {
		return -1
	}
	idx := make([]int, len(runs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return runs[idx[a]].Elapsed < runs[idx[b]].Elapsed })
	return idx[len(idx)/2]
}

// SteadyState checks if throughput variance across runs is within tolerance.
func SteadyState(runs []Measurement, tolerance float64) (bool, float64) {
	if len(runs) < 2 {
		return true, 0
	}
	var sum float64
	for _, r := range runs {
		sum += r.Throughput()
	}
	mean := sum / float64(len(runs))
	if mean == 0 {
		return false, 0
	}

	var maxDev float64
	for _, r := range runs {
		dev := math.Abs(r.Throughput()-mean) / mean
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev <= tolerance, maxDev
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
