// log/race.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

//go:build race

package log

// RaceEnabled is true when the race detector is active.
const RaceEnabled = true
