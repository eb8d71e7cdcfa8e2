// stat/statistic.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package stat

import (
	"log/slog"
	"math"
)

// Statistic is a running accumulator over a stream of samples: count,
// mean, variance, min, max, and RMS, all updated incrementally so that
// samples never need to be stored. The mean and variance use Welford's
// recurrence, which stays numerically stable for long runs (a periodic
// task at 50 Hz accumulates millions of samples over a session).
//
// The zero value is an empty Statistic, ready for use. Statistic is a
// value type; it is not safe for concurrent use without external locking.
type Statistic struct {
	n     int64
	mean  float64
	m2    float64 // sum of squared deviations from the running mean
	sumSq float64
	min   float64
	max   float64
}

// Sample folds x into the statistic.
func (s *Statistic) Sample(x float64) {
	s.n++
	if s.n == 1 {
		s.min = x
		s.max = x
	} else {
		s.min = math.Min(s.min, x)
		s.max = math.Max(s.max, x)
	}

	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
	s.sumSq += x * x
}

// N returns the number of samples recorded so far.
func (s Statistic) N() int64 { return s.n }

// Mean returns the arithmetic mean of the samples, or 0 if none have
// been recorded.
func (s Statistic) Mean() float64 { return s.mean }

// Variance returns the population variance of the samples.
func (s Statistic) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n)
}

// StdDev returns the population standard deviation of the samples.
func (s Statistic) StdDev() float64 { return math.Sqrt(s.Variance()) }

// RMS returns the root mean square of the samples.
func (s Statistic) RMS() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.n))
}

// Min returns the smallest sample recorded, or 0 if none have been.
func (s Statistic) Min() float64 { return s.min }

// Max returns the largest sample recorded, or 0 if none have been.
func (s Statistic) Max() float64 { return s.max }

// Clear resets the statistic to empty.
func (s *Statistic) Clear() { *s = Statistic{} }

func (s Statistic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("n", s.n),
		slog.Float64("mean", s.Mean()),
		slog.Float64("stddev", s.StdDev()),
		slog.Float64("min", s.Min()),
		slog.Float64("max", s.Max()))
}
