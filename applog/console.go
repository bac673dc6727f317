package applog

import (
	"fmt"
	"io"
	"sync"
)

// Console is plain unstructured output, the moral equivalent of print
// statements: no levels, no categories, values written verbatim. Writes are
// serialized so concurrent lines never interleave.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Println(a ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, a...)
	return err
}

func (c *Console) Printf(format string, a ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, format, a...)
	return err
}
