// task/periodic.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package task

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/flightloop/frametask/log"
	"github.com/flightloop/frametask/stat"
	"github.com/flightloop/frametask/util"
)

// PeriodicTask invokes its work function at a fixed rate of Rate() Hz
// until the owning component shuts down. A value of 1/rate is passed to
// the work function as the delta time parameter.
//
// A frame whose work function runs longer than the period is a busted
// frame: the overrun is recorded in the busted-frame statistics and the
// loop goes straight into the next frame without sleeping. If variable
// delta time is enabled, the frame after a busted one receives the busted
// frame's measured elapsed time as its dt, so integration downstream
// stays consistent with the wall clock; otherwise dt is always exactly
// 1/rate and the simulation drifts behind the wall clock instead.
type PeriodicTask struct {
	Task

	rate   float64
	period time.Duration
	fn     WorkFunc

	totalFrames atomic.Int64
	variableDT  util.AtomicBool

	statsMu util.LoggingMutex
	busted  stat.Statistic
}

// NewPeriodic returns a periodic task bound to owner that will run fn at
// the given rate in Hz once started. priority is an advisory scheduling
// hint. rate must be positive and finite.
func NewPeriodic(owner Owner, priority float64, rate float64, fn WorkFunc, lg *log.Logger) (*PeriodicTask, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if fn == nil {
		return nil, ErrNilWork
	}
	if !(rate > 0) || math.IsInf(rate, 1) {
		// Also catches NaN, which compares false against everything.
		return nil, ErrInvalidRate
	}

	return &PeriodicTask{
		Task:   makeTask(owner, priority, lg),
		rate:   rate,
		period: time.Duration(float64(time.Second) / rate),
		fn:     fn,
	}, nil
}

// Rate returns the target update rate in Hz; fixed at construction.
func (p *PeriodicTask) Rate() float64 {
	return p.rate
}

// Period returns the frame period in seconds, 1/Rate().
func (p *PeriodicTask) Period() float64 {
	return 1 / p.rate
}

// TotalFrameCount returns the number of frames completed so far; it only
// increases.
func (p *PeriodicTask) TotalFrameCount() int64 {
	return p.totalFrames.Load()
}

// BustedFrameStats returns a snapshot of the overrun statistics. Each
// sample is the amount in seconds by which a frame exceeded its period.
func (p *PeriodicTask) BustedFrameStats() stat.Statistic {
	p.statsMu.Lock(p.lg)
	defer p.statsMu.Unlock(p.lg)
	return p.busted
}

func (p *PeriodicTask) IsVariableDeltaTimeEnabled() bool {
	return p.variableDT.Load()
}

// SetVariableDeltaTimeFlag controls whether the frame following a busted
// frame sees an overrun-adjusted dt. The change takes effect at the next
// frame boundary.
func (p *PeriodicTask) SetVariableDeltaTimeFlag(enable bool) bool {
	p.variableDT.Store(enable)
	return true
}

// Start launches the fixed-rate loop; it errors if called twice.
func (p *PeriodicTask) Start() error {
	return p.start(p.loop)
}

func (p *PeriodicTask) loop() {
	dtNominal := 1 / p.rate

	// Measured elapsed time of the previous frame if it busted, else 0.
	bustedElapsed := 0.0

	loggedStatus := false

	for !p.owner.IsShutdown() {
		// The variable-dt flag is read fresh each frame so that toggling
		// it never applies retroactively.
		dt := dtNominal
		if bustedElapsed > 0 && p.variableDT.Load() {
			dt = bustedElapsed
		}
		bustedElapsed = 0

		t0 := time.Now()
		status := p.invoke(p.fn, dt)
		elapsed := time.Since(t0)

		if status != 0 && !loggedStatus {
			p.lg.Debug("work function returned nonzero status",
				slog.Uint64("status", uint64(status)),
				slog.Int64("frame", p.totalFrames.Load()))
			loggedStatus = true
		}

		if over := elapsed - p.period; over > 0 {
			p.statsMu.Lock(p.lg)
			p.busted.Sample(over.Seconds())
			p.statsMu.Unlock(p.lg)
			bustedElapsed = elapsed.Seconds()
		} else {
			// Idle until the next frame is due. A blocking sleep, so
			// that a task running well under its period doesn't starve
			// anything else.
			time.Sleep(-over)
		}

		p.totalFrames.Add(1)
	}

	p.lg.Debug("periodic task exiting",
		slog.Int64("total_frames", p.totalFrames.Load()),
		slog.Any("busted_frames", p.BustedFrameStats()))
}

func (p *PeriodicTask) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("rate", p.rate),
		slog.Int64("total_frames", p.TotalFrameCount()),
		slog.Bool("variable_dt", p.IsVariableDeltaTimeEnabled()),
		slog.Any("busted_frames", p.BustedFrameStats()))
}
