// task/task.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package task provides the frame-synchronized task primitives used to
// drive simulation components: periodic tasks that invoke a work function
// at a fixed rate, step-signaled tasks driven one frame at a time by an
// external caller, and one-shot background tasks. Each task runs on its
// own goroutine and polls its owning component for shutdown at frame
// boundaries.
package task

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/flightloop/frametask/log"
)

// Owner is the component a task is bound to for its lifetime. The task
// polls IsShutdown at each frame boundary and exits its loop cleanly once
// it returns true; work in progress is never preempted.
type Owner interface {
	IsShutdown() bool
}

// WorkFunc is a task's per-frame work function. dt is the time step in
// seconds to advance by; the returned status is recorded and logged but
// not otherwise interpreted by the task loops.
type WorkFunc func(dt float64) uint32

// RunFunc is the work function for a one-shot task.
type RunFunc func() uint32

// Task holds the lifecycle state common to all task kinds: the owning
// component, an advisory priority hint, the logger, and the goroutine's
// done channel. It is embedded by the concrete task types and is not
// useful on its own.
type Task struct {
	owner    Owner
	priority float64
	lg       *log.Logger
	done     chan struct{}
	started  atomic.Bool
}

func makeTask(owner Owner, priority float64, lg *log.Logger) Task {
	return Task{
		owner:    owner,
		priority: priority,
		lg:       lg,
		done:     make(chan struct{}),
	}
}

// start launches run on a new goroutine. A second call is an error; tasks
// are bound to one owner and one lifetime and cannot be restarted.
func (t *Task) start(run func()) error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	t.lg.Debug("starting task", slog.Float64("priority", t.priority))

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.lg.Errorf("task goroutine panicked: %v", r)
			}
		}()
		run()
	}()

	return nil
}

// invoke calls the work function with panics contained: a panicking frame
// is logged and treated as a completed frame so that one bad update
// doesn't take down the whole task.
func (t *Task) invoke(fn WorkFunc, dt float64) (status uint32) {
	defer func() {
		if r := recover(); r != nil {
			t.lg.Errorf("work function panicked: %v", r)
		}
	}()
	return fn(dt)
}

func (t *Task) HasStarted() bool {
	return t.started.Load()
}

// Priority returns the advisory scheduling hint the task was created
// with. It is passed through to logs for diagnosis but does not affect
// how frames are scheduled.
func (t *Task) Priority() float64 {
	return t.priority
}

// Done returns a channel that is closed once the task's goroutine has
// exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// JoinContext blocks until the task has finished or the context is
// canceled.
func (t *Task) JoinContext(ctx context.Context) error {
	if !t.started.Load() {
		return ErrNotStarted
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

///////////////////////////////////////////////////////////////////////////
// OneShotTask

// OneShotTask runs its work function a single time on its own goroutine,
// unless the owner has already shut down by the time the goroutine runs.
type OneShotTask struct {
	Task
	fn     RunFunc
	ran    atomic.Bool
	status atomic.Uint32
}

func NewOneShot(owner Owner, priority float64, fn RunFunc, lg *log.Logger) (*OneShotTask, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if fn == nil {
		return nil, ErrNilWork
	}
	return &OneShotTask{Task: makeTask(owner, priority, lg), fn: fn}, nil
}

func (t *OneShotTask) Start() error {
	return t.start(t.run)
}

func (t *OneShotTask) run() {
	if t.owner.IsShutdown() {
		return
	}
	t.status.Store(t.invoke(func(float64) uint32 { return t.fn() }, 0))
	t.ran.Store(true)
}

// Ran reports whether the work function was actually invoked; it is false
// if the owner shut down before the goroutine got going.
func (t *OneShotTask) Ran() bool {
	return t.ran.Load()
}

// Status returns the work function's return value; valid once Ran()
// returns true.
func (t *OneShotTask) Status() uint32 {
	return t.status.Load()
}
