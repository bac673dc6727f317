package demo

import (
	"fmt"
	"sync"
	"time"
)

// Board is the in-app message list: timestamped lines in arrival order.
type Board struct {
	mu       sync.Mutex
	now      func() time.Time
	messages []string
}

func NewBoard() *Board {
	return &Board{now: time.Now}
}

func (b *Board) Add(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, fmt.Sprintf("[%s] %s", b.now().Format("15:04:05"), msg))
}

// Messages returns a copy of the current list.
func (b *Board) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}
