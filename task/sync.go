// task/sync.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package task

import (
	"context"
	"time"

	"github.com/flightloop/frametask/log"
)

// How often a SyncTask waiting for a signal wakes up to check whether its
// owner has shut down.
const shutdownPollInterval = 100 * time.Millisecond

// SyncTask runs its work function once per external Signal() call,
// letting a driving thread step the task in lockstep with its own frames.
// One cycle is in flight at a time: a second Signal blocks until the task
// loop has picked up the first. Each Signal should be paired with a
// WaitCompleted call to consume the cycle's status.
type SyncTask struct {
	Task
	fn        WorkFunc
	signal    chan float64
	completed chan uint32
}

func NewSync(owner Owner, priority float64, fn WorkFunc, lg *log.Logger) (*SyncTask, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if fn == nil {
		return nil, ErrNilWork
	}
	return &SyncTask{
		Task:      makeTask(owner, priority, lg),
		fn:        fn,
		signal:    make(chan float64),
		completed: make(chan uint32, 1),
	}, nil
}

func (t *SyncTask) Start() error {
	return t.start(t.loop)
}

func (t *SyncTask) loop() {
	for {
		select {
		case dt := <-t.signal:
			t.completed <- t.invoke(t.fn, dt)
		case <-time.After(shutdownPollInterval):
		}

		if t.owner.IsShutdown() {
			return
		}
	}
}

// Signal hands the task one frame's dt (seconds) and returns once the
// task loop has accepted it. It returns ErrTerminated if the task has
// exited.
func (t *SyncTask) Signal(dt float64) error {
	if !t.HasStarted() {
		return ErrNotStarted
	}
	select {
	case t.signal <- dt:
		return nil
	case <-t.done:
		return ErrTerminated
	}
}

// WaitCompleted blocks until the most recently signaled cycle finishes
// and returns the work function's status.
func (t *SyncTask) WaitCompleted(ctx context.Context) (uint32, error) {
	// A completed cycle's status is buffered, so check for it before
	// racing against task termination.
	select {
	case status := <-t.completed:
		return status, nil
	default:
	}

	select {
	case status := <-t.completed:
		return status, nil
	case <-t.done:
		return 0, ErrTerminated
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
