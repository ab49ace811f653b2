package pretend

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("pretend: client closed")

// loop runs jobs one at a time on a single goroutine, started on first use.
// No goroutine is started once the loop is closed, and close waits for a
// started goroutine, so no job runs after close returns.
type loop struct {
	jobs chan func()
	quit chan struct{}
	done chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

func newLoop() *loop {
	return &loop{
		jobs: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (l *loop) serve() {
	defer close(l.done)
	for {
		select {
		case job := <-l.jobs:
			job()
		case <-l.quit:
			return
		}
	}
}

// run executes job on the loop goroutine and waits for it. A context that
// ends while the job is still queued fails the call without running it.
func (l *loop) run(ctx context.Context, job func()) error {
	if err := ctx.Err(); err != nil {
		return responseError(err)
	}
	if !l.ensureStarted() {
		return clientError(ErrClosed)
	}

	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		job()
	}

	select {
	case l.jobs <- wrapped:
	case <-ctx.Done():
		return responseError(ctx.Err())
	case <-l.quit:
		return clientError(ErrClosed)
	}
	<-finished
	return nil
}

// ensureStarted starts the loop goroutine unless the loop is closed.
func (l *loop) ensureStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	if !l.started {
		l.started = true
		go l.serve()
	}
	return true
}

func (l *loop) close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.quit)
	}
	started := l.started
	l.mu.Unlock()
	if started {
		<-l.done
	}
}
