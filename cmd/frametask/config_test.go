// cmd/frametask/config_test.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/flightloop/frametask/util"
)

const validConfig = `
duration: 2s
tasks:
  - name: physics
    rate: 50
    busy: 2ms
    variable_dt: true
  - name: logging
    rate: 10
    priority: -1
`

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(validConfig))
	if err != nil {
		t.Fatal(err)
	}

	if c.RunDuration(5*time.Second) != 2*time.Second {
		t.Errorf("RunDuration = %v, expected 2s", c.RunDuration(5*time.Second))
	}
	if len(c.Tasks) != 2 {
		t.Fatalf("got %d tasks, expected 2", len(c.Tasks))
	}

	ts := c.Tasks[0]
	if ts.Name != "physics" || ts.Rate != 50 || !ts.VariableDT {
		t.Errorf("first task parsed incorrectly: %+v", ts)
	}
	if ts.BusyDuration() != 2*time.Millisecond {
		t.Errorf("BusyDuration = %v, expected 2ms", ts.BusyDuration())
	}
	if c.Tasks[1].Priority != -1 {
		t.Errorf("priority = %g, expected -1", c.Tasks[1].Priority)
	}

	var e util.ErrorLogger
	c.Validate(&e)
	if e.HaveErrors() {
		t.Errorf("unexpected validation errors: %s", e.String())
	}
}

func TestParseConfigUnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("tasks:\n  - name: a\n    rate: 1\n    bogus: true\n"))
	if err == nil {
		t.Errorf("expected error for unknown field")
	}
}

func TestValidateConfig(t *testing.T) {
	bad := `
duration: nonsense
tasks:
  - name: ""
    rate: 0
  - name: dup
    rate: 10
    busy: alsononsense
  - name: dup
    rate: 20
`
	c, err := ParseConfig([]byte(bad))
	if err != nil {
		t.Fatal(err)
	}

	var e util.ErrorLogger
	c.Validate(&e)
	if !e.HaveErrors() {
		t.Fatalf("expected validation errors")
	}

	s := e.String()
	for _, want := range []string{"duration", "name must not be empty", "rate 0 is not positive",
		"busy", "duplicate task name"} {
		if !strings.Contains(s, want) {
			t.Errorf("validation errors missing %q:\n%s", want, s)
		}
	}
}

func TestValidateEmptyConfig(t *testing.T) {
	var e util.ErrorLogger
	(&Config{}).Validate(&e)
	if !strings.Contains(e.String(), "no tasks defined") {
		t.Errorf("expected no-tasks error, got %q", e.String())
	}
}
