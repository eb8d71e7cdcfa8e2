// cmd/frametask/main.go
// Copyright(c) 2023-2025 frametask contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// Driver for soak-testing periodic tasks: runs a set of tasks described
// by a YAML config (or a single task from the command line) for a fixed
// amount of time and reports each task's frame and busted-frame
// statistics at the end.

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightloop/frametask/log"
	"github.com/flightloop/frametask/task"
	"github.com/flightloop/frametask/util"

	"golang.org/x/sync/errgroup"
)

var (
	configFilename = flag.String("config", "", "filename of YAML file with task definitions")
	taskRate       = flag.Float64("rate", 50, "update rate in Hz when no config file is given")
	runFor         = flag.Duration("duration", 5*time.Second, "how long to run the tasks")
	logLevel       = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir         = flag.String("logdir", "", "log file directory")
)

// driver owns every task the program launches; it reports shutdown once
// the run duration has elapsed or on SIGINT/SIGTERM.
type driver struct {
	shutdown util.AtomicBool
}

func (d *driver) IsShutdown() bool { return d.shutdown.Load() }

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	var config *Config
	if *configFilename != "" {
		var err error
		config, err = LoadConfig(*configFilename)
		if err != nil {
			lg.Errorf("%s: %v", *configFilename, err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", *configFilename, err)
			os.Exit(1)
		}
	} else {
		config = &Config{Tasks: []TaskSpec{{Name: "task0", Rate: *taskRate}}}
	}

	var e util.ErrorLogger
	config.Validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	owner := &driver{}
	duration := config.RunDuration(*runFor)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigs:
			lg.Info("interrupted; shutting down tasks")
		case <-time.After(duration):
		}
		owner.shutdown.Store(true)
	}()

	lg.Info("starting tasks", slog.Int("count", len(config.Tasks)),
		slog.Duration("duration", duration))

	var eg errgroup.Group
	var tasks []*task.PeriodicTask
	for _, ts := range config.Tasks {
		busy := ts.BusyDuration()
		fn := func(dt float64) uint32 {
			if busy > 0 {
				time.Sleep(busy)
			}
			return 0
		}

		pt, err := task.NewPeriodic(owner, ts.Priority, ts.Rate, fn,
			lg.With(slog.String("task", ts.Name)))
		if err != nil {
			lg.Errorf("%s: %v", ts.Name, err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", ts.Name, err)
			os.Exit(1)
		}
		pt.SetVariableDeltaTimeFlag(ts.VariableDT)

		if err := pt.Start(); err != nil {
			lg.Errorf("%s: %v", ts.Name, err)
			os.Exit(1)
		}

		tasks = append(tasks, pt)
		eg.Go(func() error { return pt.JoinContext(context.Background()) })
	}

	if err := eg.Wait(); err != nil {
		lg.Errorf("waiting for tasks: %v", err)
	}

	for i, pt := range tasks {
		lg.Info("task finished", slog.String("task", config.Tasks[i].Name),
			slog.Any("state", pt))

		s := pt.BustedFrameStats()
		fmt.Printf("%-16s rate %6.1f Hz  frames %7d  busted %6d  mean overrun %9s  max %9s\n",
			config.Tasks[i].Name, pt.Rate(), pt.TotalFrameCount(), s.N(),
			time.Duration(s.Mean()*float64(time.Second)).Round(time.Microsecond),
			time.Duration(s.Max()*float64(time.Second)).Round(time.Microsecond))
	}
}
