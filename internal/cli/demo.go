package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aryankumar/taskpool/internal/driver"
	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/output"
	"github.com/aryankumar/taskpool/internal/task"
	"github.com/aryankumar/taskpool/internal/util"
)

// demoOptions controls the sample batch
type demoOptions struct {
	count     int
	kinds     []string
	failEvery int
	wide      bool
	noHeaders bool
}

func (d *demoOptions) addFlags(flags *pflag.FlagSet) {
	flags.IntVar(&d.count, "count", 0, "number of tasks (0 means one per entry in --kinds)")
	flags.StringSliceVar(&d.kinds, "kinds", kindNames(driver.DefaultSampleKinds), "task kinds to cycle through (read, write)")
	flags.IntVar(&d.failEvery, "fail-every", 0, "make every Nth task fail (0 disables)")
	flags.BoolVar(&d.wide, "wide", false, "show full task ids, groups and values in the table")
	flags.BoolVar(&d.noHeaders, "no-headers", false, "omit table headers")
}

func newDemoCmd(opts *globalOptions) *cobra.Command {
	demo := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a sample batch of READ and WRITE tasks",
		Long: `Run a sample batch of tasks through the worker pool.

Each task gets a fresh id and its own group, and returns its kind's name.
Tasks are submitted one at a time through the throttle, a completion line is
printed per task in submission order, the pool is shut down and the results
are reported in the selected output format.`,
		Example: `  # Two reads and two writes
  taskpool demo

  # Ten tasks, every third one failing
  taskpool demo --count 10 --fail-every 3

  # Writes only, concurrent throttle, JSON report
  taskpool demo --kinds write --count 4 --throttle-mode concurrent -o json

  # Table with groups and values
  taskpool demo --wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts, demo)
		},
	}

	demo.addFlags(cmd.Flags())
	cobra.CheckErr(registerValueCompletions(cmd))

	return cmd
}

func runDemo(cmd *cobra.Command, opts *globalOptions, demo *demoOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	cfg := opts.config

	tasks, err := demo.tasks()
	if err != nil {
		return err
	}

	poolOpts, err := cfg.PoolOptions()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	pool := executor.NewPool(cfg.EffectiveWorkers(), logger, poolOpts...)
	d := driver.New(pool, logger, true)

	logger.Info("submitting tasks",
		"count", len(tasks),
		"workers", pool.WorkerCount(),
		"throttle", pool.Throttle().Delay(),
		"throttle_mode", pool.Throttle().Mode().String())

	submissions := driver.SubmitAll(ctx, d, tasks)

	out := cmd.OutOrStdout()
	var waitErr error
	for _, s := range submissions {
		if s.Accepted() && waitErr == nil {
			waitErr = s.Handle.Wait(ctx)
		}
		fmt.Fprintln(out, s.StatusLine())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Pool.ShutdownTimeout)
	defer cancel()

	shutdownErr := pool.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		logger.Error("shutdown incomplete", "state", pool.State().String(), "error", shutdownErr)
	} else {
		logger.Info("pool closed", "stats", fmt.Sprintf("%+v", pool.Stats()))
	}

	if err := util.CombineErrors(driver.Err(submissions), waitErr, shutdownErr); err != nil {
		return err
	}

	results, err := executor.Collect(ctx, driver.Futures(submissions))
	if err != nil {
		return err
	}

	summary := executor.Summarize(results)
	if executor.AllSuccessful(results) {
		logger.Info("all tasks succeeded", "summary", summary.String())
	} else {
		logger.Warn("some tasks failed",
			"summary", summary.String(),
			"errors", util.CombineErrors(executor.GetErrors(results)...))
	}

	fmt.Fprintln(out)
	formatter := output.NewFormatter(format,
		output.WithNoColor(cfg.Output.NoColor),
		output.WithWide(demo.wide),
		output.WithNoHeaders(demo.noHeaders))
	return formatter.FormatResults(out, results)
}

// tasks builds the sample batch described by the flags
func (d *demoOptions) tasks() ([]task.Task[string], error) {
	kinds, err := task.ParseKinds(d.kinds)
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return nil, util.NewValidationError("kinds", nil, "at least one kind is required")
	}
	if d.count < 0 {
		return nil, util.NewValidationError("count", d.count, "must not be negative")
	}
	if d.failEvery < 0 {
		return nil, util.NewValidationError("fail-every", d.failEvery, "must not be negative")
	}

	if d.count > 0 {
		kinds = driver.RepeatKinds(kinds, d.count)
	}

	return driver.SampleTasks(kinds, d.failEvery)
}

func kindNames(kinds []task.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = strings.ToLower(k.String())
	}
	return names
}
