// task/task_test.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package task

import (
	"context"
	"testing"
	"time"
)

func TestOneShot(t *testing.T) {
	owner := &testOwner{}

	task, err := NewOneShot(owner, 1, func() uint32 { return 42 }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if task.Priority() != 1 {
		t.Errorf("Priority = %g, expected 1", task.Priority())
	}
	if task.HasStarted() {
		t.Errorf("task reports started before Start")
	}

	if err := task.Start(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := task.JoinContext(ctx); err != nil {
		t.Fatal(err)
	}

	if !task.Ran() {
		t.Errorf("work function did not run")
	}
	if task.Status() != 42 {
		t.Errorf("Status = %d, expected 42", task.Status())
	}
}

func TestOneShotShutdownOwner(t *testing.T) {
	owner := &testOwner{}
	owner.Shutdown()

	task, err := NewOneShot(owner, 0, func() uint32 { return 1 }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Start(); err != nil {
		t.Fatal(err)
	}
	<-task.Done()

	if task.Ran() {
		t.Errorf("work function ran despite owner shutdown")
	}
}

func TestOneShotValidation(t *testing.T) {
	if _, err := NewOneShot(nil, 0, func() uint32 { return 0 }, nil); err != ErrNilOwner {
		t.Errorf("got %v, expected ErrNilOwner", err)
	}
	if _, err := NewOneShot(&testOwner{}, 0, nil, nil); err != ErrNilWork {
		t.Errorf("got %v, expected ErrNilWork", err)
	}
}

func TestOneShotPanic(t *testing.T) {
	owner := &testOwner{}
	task, err := NewOneShot(owner, 0, func() uint32 { panic("oops") }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Start(); err != nil {
		t.Fatal(err)
	}

	// The panic is contained; Done still closes.
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish after panic")
	}
}
