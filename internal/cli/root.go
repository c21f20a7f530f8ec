package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aryankumar/taskpool/internal/config"
	"github.com/aryankumar/taskpool/internal/executor"
)

// globalOptions is shared by every command through the persistent flags
type globalOptions struct {
	cfgFile string
	manager *config.Manager
	config  *config.Config
}

// flagBindings maps persistent flags to configuration keys
var flagBindings = map[string]string{
	"workers":          "pool.workers",
	"throttle":         "pool.throttle",
	"throttle-mode":    "pool.throttleMode",
	"shutdown-timeout": "pool.shutdownTimeout",
	"output":           "output.format",
	"no-color":         "output.noColor",
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	demo := &demoOptions{}

	rootCmd := &cobra.Command{
		Use:   "taskpool",
		Short: "taskpool - bounded worker pool with typed task handles",
		Long: `taskpool submits typed READ and WRITE tasks to a fixed-size worker pool
and reports each task's result through its handle.

Run without a subcommand to execute the sample batch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts, demo)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.taskpool/config.yaml or $HOME/.taskpool.yaml)")
	flags.Int("workers", 0, "number of workers (0 means one less than the CPU count)")
	flags.Duration("throttle", executor.DefaultThrottleDelay, "delay before each blocking submission")
	flags.String("throttle-mode", executor.ThrottleSerialized.String(), "throttle mode (serialized, concurrent)")
	flags.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "how long shutdown waits for queued tasks")
	flags.StringP("output", "o", "", "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")

	demo.addFlags(rootCmd.Flags())

	cobra.CheckErr(registerValueCompletions(rootCmd))

	rootCmd.AddCommand(newDemoCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// initConfig loads configuration with flag overrides and sets up logging
func (o *globalOptions) initConfig(cmd *cobra.Command) error {
	setupLogging(cmd)

	o.manager = config.NewManager(o.cfgFile)
	if err := bindFlags(o.manager, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := o.manager.Load()
	if err != nil {
		return err
	}
	o.config = cfg

	if used := o.manager.Viper().ConfigFileUsed(); used != "" {
		slog.Debug("loaded configuration", "file", used)
	}

	return nil
}

// bindFlags binds only flags the user set so unset flags never shadow the
// config file or environment
func bindFlags(m *config.Manager, flags *pflag.FlagSet) error {
	for name, key := range flagBindings {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := m.Viper().BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
