// task/sync_test.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package task

import (
	"context"
	"testing"
	"time"
)

func TestSyncTaskStepping(t *testing.T) {
	owner := &testOwner{}

	var dts []float64
	task, err := NewSync(owner, 0, func(dt float64) uint32 {
		dts = append(dts, dt)
		return uint32(len(dts))
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := task.Signal(0.01); err != ErrNotStarted {
		t.Errorf("Signal before Start: got %v, expected ErrNotStarted", err)
	}

	if err := task.Start(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := 1; i <= 3; i++ {
		if err := task.Signal(0.02); err != nil {
			t.Fatalf("Signal %d: %v", i, err)
		}
		status, err := task.WaitCompleted(ctx)
		if err != nil {
			t.Fatalf("WaitCompleted %d: %v", i, err)
		}
		if status != uint32(i) {
			t.Errorf("cycle %d: status %d", i, status)
		}
	}

	if len(dts) != 3 {
		t.Errorf("work function ran %d times, expected 3", len(dts))
	}
	for i, dt := range dts {
		if dt != 0.02 {
			t.Errorf("cycle %d: dt = %g, expected 0.02", i+1, dt)
		}
	}

	owner.Shutdown()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not exit after owner shutdown")
	}

	if err := task.Signal(0.02); err != ErrTerminated {
		t.Errorf("Signal after termination: got %v, expected ErrTerminated", err)
	}
	if _, err := task.WaitCompleted(ctx); err != ErrTerminated {
		t.Errorf("WaitCompleted after termination: got %v, expected ErrTerminated", err)
	}
}

func TestSyncTaskWaitContext(t *testing.T) {
	owner := &testOwner{}
	task, err := NewSync(owner, 0, func(dt float64) uint32 { return 0 }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Start(); err != nil {
		t.Fatal(err)
	}

	// Nothing signaled; the wait should give up when the context does.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := task.WaitCompleted(ctx); err != context.DeadlineExceeded {
		t.Errorf("got %v, expected context.DeadlineExceeded", err)
	}

	owner.Shutdown()
	<-task.Done()
}
