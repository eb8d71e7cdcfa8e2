// util/sync.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"encoding/json"
	"log/slog"
	gomath "math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flightloop/frametask/log"

	"github.com/shirou/gopsutil/v3/cpu"
)

///////////////////////////////////////////////////////////////////////////
// AtomicBool

// AtomicBool is a simple wrapper around atomic.Bool that adds support for
// JSON marshaling/unmarshaling.
type AtomicBool struct {
	atomic.Bool
}

func (a AtomicBool) MarshalJSON() ([]byte, error) {
	b := a.Load()
	return json.Marshal(b)
}

func (a *AtomicBool) UnmarshalJSON(data []byte) error {
	var b bool
	err := json.Unmarshal(data, &b)
	if err == nil {
		a.Store(b)
	}
	return err
}

///////////////////////////////////////////////////////////////////////////
// LoggingMutex

// LoggingMutex wraps sync.Mutex with diagnostics for the task loops: a
// task goroutine that stalls trying to acquire a lock held by a slow
// reader shows up in the logs with system load attached, rather than
// silently busting frames.
type LoggingMutex struct {
	sync.Mutex
	acq time.Time
}

func (l *LoggingMutex) Lock(lg *log.Logger) {
	tryTime := time.Now()
	lg.Debug("attempting to acquire mutex")

	if !l.Mutex.TryLock() {
		// Lock with timeout.
		locked := make(chan struct{}, 1)

		go func() {
			l.Mutex.Lock()
			locked <- struct{}{}
		}()

		select {
		case <-locked:

		case <-time.After(10 * time.Second):
			lg.Error("unable to acquire mutex after 10 seconds")

			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			usage, _ := cpu.Percent(time.Second, false)

			lg.Errorf("CPU: %d%% alloc: %dMB total alloc: %dMB sys mem: %dMB goroutines: %d",
				int(gomath.Round(usage[0])), m.Alloc/(1024*1024), m.TotalAlloc/(1024*1024), m.Sys/(1024*1024),
				runtime.NumGoroutine())

			<-locked
		}
	}

	l.acq = time.Now()
	if w := l.acq.Sub(tryTime); w > time.Second {
		lg.Warn("long wait to acquire mutex", slog.Duration("wait", w))
	}
}

func (l *LoggingMutex) Unlock(lg *log.Logger) {
	if d := time.Since(l.acq); d > time.Second {
		lg.Warn("mutex held for over 1 second", slog.Duration("held", d))
	}

	l.acq = time.Time{}
	l.Mutex.Unlock()
}
