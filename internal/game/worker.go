package game

import (
	"context"
	"sync"
	"time"
)

// worker is the single background execution context of one match. Only
// one task runs at a time; scheduling a new task cancels the pending
// one. A panic inside a task is routed to onPanic instead of taking the
// process down.
type worker struct {
	onPanic func(recovered any)

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newWorker(onPanic func(recovered any)) *worker {
	return &worker{onPanic: onPanic}
}

// schedule runs fn after delay unless replaced or shut down first.
func (w *worker) schedule(delay time.Duration, fn func(ctx context.Context)) {
	ctx := w.replace()
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		w.run(ctx, fn)
	}()
}

// execute runs fn immediately, replacing any pending task.
func (w *worker) execute(fn func(ctx context.Context)) {
	ctx := w.replace()
	go w.run(ctx, fn)
}

// shutdown cancels the pending or running task's context.
func (w *worker) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *worker) replace() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	return ctx
}

func (w *worker) run(ctx context.Context, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil && w.onPanic != nil {
			w.onPanic(r)
		}
	}()
	fn(ctx)
}
