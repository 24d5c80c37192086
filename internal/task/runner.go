// Package task serializes long-running jobs onto a single worker with
// admit/reject semantics: at most one job runs at a time, and submitting
// while busy is rejected with the running job's name.
package task

import (
	"fmt"
	"sync"
)

// BusyError reports a rejected submission.
type BusyError struct {
	Running string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("task %q is already running", e.Running)
}

// Runner runs one named job at a time on its own goroutine.
type Runner struct {
	mu      sync.Mutex
	running string
	wg      sync.WaitGroup

	stopOnce sync.Once
	stop     chan struct{}
}

// NewRunner creates an idle Runner.
func NewRunner() *Runner {
	return &Runner{stop: make(chan struct{})}
}

// TrySubmit starts job on the worker goroutine. If another job is in flight
// the submission is rejected with a BusyError naming it.
func (r *Runner) TrySubmit(name string, job func()) error {
	r.mu.Lock()
	if r.running != "" {
		current := r.running
		r.mu.Unlock()
		return &BusyError{Running: current}
	}
	r.running = name
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			r.running = ""
			r.mu.Unlock()
		}()
		job()
	}()
	return nil
}

// Running returns the name of the job in flight, or "" when idle.
func (r *Runner) Running() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Stop requests cooperative cancellation. Jobs observe it via Stopped
// between work items; nothing is interrupted mid-item.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Stopped returns a channel closed once Stop has been called.
func (r *Runner) Stopped() <-chan struct{} {
	return r.stop
}

// Wait blocks until the current job (if any) finishes.
func (r *Runner) Wait() {
	r.wg.Wait()
}
