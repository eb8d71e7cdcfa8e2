// task/errors.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package task

import "errors"

var (
	ErrAlreadyStarted = errors.New("Task has already been started")
	ErrInvalidRate    = errors.New("Update rate must be greater than zero")
	ErrNilOwner       = errors.New("Task owner must not be nil")
	ErrNilWork        = errors.New("Work function must not be nil")
	ErrNotStarted     = errors.New("Task has not been started")
	ErrTerminated     = errors.New("Task has terminated")
)
