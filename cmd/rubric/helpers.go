package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rubric/internal/config"
	"rubric/pkg/run"
)

// runFlags are the evaluation knobs shared by check, grade and pack.
var runFlags struct {
	points      float64
	timeout     time.Duration
	parallel    int
	checkStdout bool
	messages    string
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&runFlags.points, "points", 20, "Total points distributed across the problem")
	f.DurationVar(&runFlags.timeout, "timeout", run.DefaultTimeout, "Per-test wall clock limit")
	f.IntVar(&runFlags.parallel, "parallel", 1, "Test cases evaluated concurrently")
	f.BoolVar(&runFlags.checkStdout, "check-stdout", false, "Compare captured output against the golden run for every test")
	f.StringVar(&runFlags.messages, "messages", "", "YAML file overriding the report message templates")
}

func runOptions() (run.Options, error) {
	opts := run.Options{
		TotalScore:  runFlags.points,
		Timeout:     runFlags.timeout,
		Parallel:    runFlags.parallel,
		CheckStdout: runFlags.checkStdout,
	}
	if runFlags.messages != "" {
		msgs, err := config.Load(runFlags.messages)
		if err != nil {
			return run.Options{}, fmt.Errorf("load messages: %w", err)
		}
		opts.Messages = msgs
	}
	return opts, nil
}
