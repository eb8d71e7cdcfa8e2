// cmd/frametask/config.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/flightloop/frametask/util"

	"gopkg.in/yaml.v3"
)

// TaskSpec describes one periodic task to run: its target rate, an
// optional per-frame busy time to simulate work (and force overruns if
// it exceeds the period), and whether overrun-adjusted delta times are
// passed to the work function.
type TaskSpec struct {
	Name       string  `yaml:"name"`
	Rate       float64 `yaml:"rate"`
	Priority   float64 `yaml:"priority"`
	Busy       string  `yaml:"busy"`
	VariableDT bool    `yaml:"variable_dt"`
}

type Config struct {
	Duration string     `yaml:"duration"`
	Tasks    []TaskSpec `yaml:"tasks"`
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	var c Config
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("config")
	defer e.Pop()

	if c.Duration != "" {
		if _, err := time.ParseDuration(c.Duration); err != nil {
			e.ErrorString("duration: %v", err)
		}
	}

	if len(c.Tasks) == 0 {
		e.ErrorString("no tasks defined")
	}

	seen := make(map[string]interface{})
	for i, ts := range c.Tasks {
		e.Push(fmt.Sprintf("tasks[%d]", i))

		if ts.Name == "" {
			e.ErrorString("name must not be empty")
		} else if _, ok := seen[ts.Name]; ok {
			e.ErrorString("duplicate task name %q", ts.Name)
		}
		seen[ts.Name] = nil

		if !(ts.Rate > 0) {
			e.ErrorString("rate %g is not positive", ts.Rate)
		}
		if ts.Busy != "" {
			if d, err := time.ParseDuration(ts.Busy); err != nil {
				e.ErrorString("busy: %v", err)
			} else if d < 0 {
				e.ErrorString("busy %s is negative", d)
			}
		}

		e.Pop()
	}
}

// RunDuration returns how long the configured tasks should run;
// Validate has already checked that the string parses.
func (c *Config) RunDuration(dflt time.Duration) time.Duration {
	if c.Duration == "" {
		return dflt
	}
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		return dflt
	}
	return d
}

// BusyDuration returns the per-frame busy time for the task, 0 if unset.
func (ts TaskSpec) BusyDuration() time.Duration {
	if ts.Busy == "" {
		return 0
	}
	d, _ := time.ParseDuration(ts.Busy)
	return d
}
