package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/taskpool/internal/output"
	"github.com/aryankumar/taskpool/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for taskpool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		return output.NewFormatter(output.FormatJSON).Format(w, info)
	case "yaml":
		return output.NewFormatter(output.FormatYAML).Format(w, info)
	case "table":
		return output.NewFormatter(output.FormatTable, output.WithNoColor(noColor)).Format(w, info.Map())
	default:
		// Default to human-readable format
		fmt.Fprintln(w, info.String())
		return nil
	}
}
