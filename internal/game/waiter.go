package game

import (
	"context"
	"sync"
	"time"
)

type waitResult int

const (
	waitMoved waitResult = iota
	waitTimedOut
	waitInterrupted
)

// moveWaiter gates the turn scheduler on one player's pending decision.
// The scheduler arms it before asking for a move and blocks in wait;
// the client goroutine releases it through complete. A complete with no
// armed wait is a move outside its window and is ignored.
type moveWaiter struct {
	mu sync.Mutex
	ch chan struct{}
}

func (w *moveWaiter) arm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ch = make(chan struct{})
}

func (w *moveWaiter) complete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ch != nil {
		close(w.ch)
		w.ch = nil
	}
}

func (w *moveWaiter) wait(ctx context.Context, timeout time.Duration) waitResult {
	w.mu.Lock()
	ch := w.ch
	w.mu.Unlock()
	if ch == nil {
		return waitMoved
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return waitMoved
	case <-timer.C:
		return waitTimedOut
	case <-ctx.Done():
		return waitInterrupted
	}
}
