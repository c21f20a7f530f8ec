package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/taskpool/internal/output"
)

// newConfigCmd creates the config parent command
func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
		Long: `Show or save the configuration taskpool runs with, after the config file,
TASKPOOL_* environment variables and command-line flags have been applied.`,
		Example: `  # Show the effective settings
  taskpool config view

  # Persist a worker count and throttle to $HOME/.taskpool/config.yaml
  taskpool --workers 3 --throttle 2s config save`,
	}

	cmd.AddCommand(newConfigViewCmd(opts))
	cmd.AddCommand(newConfigSaveCmd(opts))

	return cmd
}

func newConfigViewCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.manager.GetConfig()

			format, err := output.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			formatter := output.NewFormatter(format, output.WithNoColor(cfg.Output.NoColor))
			return formatter.Format(cmd.OutOrStdout(), cfg.Settings())
		},
	}
}

func newConfigSaveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save [path]",
		Short: "Write the effective configuration to a file",
		Long: `Write the effective configuration to path, or to the --config file, or to
$HOME/.taskpool/config.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			written, err := opts.manager.Save(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", written)
			return nil
		},
	}
}
