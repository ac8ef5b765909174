package services

import "context"

// Task is the handle of a store operation running in the background.
type Task struct {
	done chan struct{}
	err  error
}

// Go runs fn on its own goroutine and returns its handle.
func Go(ctx context.Context, fn func(context.Context) error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the operation settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Settled reports whether the operation finished, successfully or not.
func (t *Task) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the operation settles and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
