package bench

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// MemorySampler reports the resident set size of the current process.
type MemorySampler interface {
	SampleRSS() (uint64, error)
}

type ProcessSampler struct {
	memInfo func() (*process.MemoryInfoStat, error)
}

// NewProcessSampler binds a sampler to the running process. It fails with
// ErrMemoryUnavailable when the platform offers no process introspection.
func NewProcessSampler() (*ProcessSampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemoryUnavailable, err)
	}
	return &ProcessSampler{memInfo: p.MemoryInfo}, nil
}

func (s *ProcessSampler) SampleRSS() (uint64, error) {
	info, err := s.memInfo()
	if err != nil {
		return 0, err
	}
	if info.RSS == 0 {
		return 0, fmt.Errorf("resident size reported as zero")
	}
	return info.RSS, nil
}

// SamplerFunc adapts a plain function to MemorySampler.
type SamplerFunc func() (uint64, error)

func (f SamplerFunc) SampleRSS() (uint64, error) { return f() }
