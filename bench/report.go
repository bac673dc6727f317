package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report collects the summaries of one suite execution.
type Report struct {
	ID        string
	Timestamp time.Time
	Title     string
	Summaries []Summary
}

func NewReport(title string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Title:     title,
	}
}

func (r *Report) Add(s Summary) {
	r.Summaries = append(r.Summaries, s)
}

func (r *Report) String() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("===============================\n")
	b.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(r.Title)))
	b.WriteString("===============================\n")
	b.WriteString(fmt.Sprintf("Run ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Timestamp: %s\n", r.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Trials: %d\n", len(r.Summaries)))
	b.WriteString("\n")

	for _, s := range r.Summaries {
		b.WriteString(fmt.Sprintf("%s\n", s.Label))
		b.WriteString(fmt.Sprintf("  runs=%d invocations=%d ops/s=%.0f\n", s.Runs, s.Invocations, s.Throughput))
		b.WriteString(fmt.Sprintf("  elapsed avg=%s p50=%s p95=%s min=%s max=%s\n",
			FmtDur(s.ElapsedAvg), FmtDur(s.ElapsedP50), FmtDur(s.ElapsedP95), FmtDur(s.ElapsedMin), FmtDur(s.ElapsedMax)))
		if s.MemoryAvg != nil {
			b.WriteString(fmt.Sprintf("  memory avg=%s\n", FmtBytes(*s.MemoryAvg)))
		}
		steady := "yes"
		if !s.Steady {
			steady = fmt.Sprintf("no (max deviation %.1f%%)", s.MaxDev*100)
		}
		b.WriteString(fmt.Sprintf("  steady=%s\n", steady))
	}

	return b.String()
}

// AppendToFile appends the rendered report plus a separator line, creating
// the file and its directory when missing.
func (r *Report) AppendToFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if _, err := file.WriteString(r.String()); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	separator := fmt.Sprintf("\n%s\n\n", strings.Repeat("=", 80))
	if _, err := file.WriteString(separator); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}
	return nil
}
