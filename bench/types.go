package bench

import "time"

type Mode string

const (
	Sequential Mode = "sequential"
	Parallel   Mode = "parallel"
)

// Operation is the unit under measurement. It receives the iteration index
// and one payload from the trial's payload set.
type Operation func(i int, payload string) error

type Trial struct {
	Label        string
	Iterations   int
	Payloads     []string
	Mode         Mode
	SampleMemory bool // wrap the run in MeasureMemory
}

// Invocations is the number of operation calls a full run makes.
func (t Trial) Invocations() int {
	return t.Iterations * len(t.Payloads)
}

type Measurement struct {
	Label       string
	Mode        Mode
	Elapsed     time.Duration
	Iterations  int
	Invocations int
	MemoryDelta *int64 // nil when memory was not sampled
}

// Throughput returns operation calls per second.
func (m Measurement) Throughput() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return float64(m.Invocations) / m.Elapsed.Seconds()
}

type Summary struct {
	Label       string
	Runs        int
	Invocations int
	ElapsedAvg  time.Duration
	ElapsedMin  time.Duration
	ElapsedMax  time.Duration
	ElapsedP50  time.Duration
	ElapsedP95  time.Duration
	Throughput  float64
	MemoryAvg   *int64
	Steady      bool
	MaxDev      float64
}
