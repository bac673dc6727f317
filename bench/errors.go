package bench

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTrial      = errors.New("invalid trial")
	ErrOperationFailed   = errors.New("operation failed")
	ErrMemoryUnavailable = errors.New("memory sampling unavailable")
)

// OperationError reports the first failing invocation of a trial. In
// parallel mode Failures counts every invocation that failed.
type OperationError struct {
	Label     string
	Iteration int
	Payload   int
	Failures  int
	Err       error
}

func (e *OperationError) Error() string {
	if e.Failures > 1 {
		return fmt.Sprintf("%s: iteration %d payload %d: %v (%d invocations failed)",
			e.Label, e.Iteration, e.Payload, e.Err, e.Failures)
	}
	return fmt.Sprintf("%s: iteration %d payload %d: %v", e.Label, e.Iteration, e.Payload, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func (e *OperationError) Is(target error) bool { return target == ErrOperationFailed }
