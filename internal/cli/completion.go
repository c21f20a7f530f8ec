package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/output"
	"github.com/aryankumar/taskpool/internal/task"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for taskpool.

Besides subcommands and flags, the scripts complete the values of --kinds,
--throttle-mode and --output.

Bash:
  $ source <(taskpool completion bash)

Zsh:
  $ taskpool completion zsh > "${fpath[1]}/_taskpool"

Fish:
  $ taskpool completion fish > ~/.config/fish/completions/taskpool.fish

PowerShell:
  PS> taskpool completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Script generation needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion writes the completion script for shell to the command output
func runCompletion(cmd *cobra.Command, shell string) error {
	w := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletionV2(w, true)
	case "zsh":
		return cmd.Root().GenZshCompletion(w)
	case "fish":
		return cmd.Root().GenFishCompletion(w, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// completionFunc is the signature cobra expects for flag value completion
type completionFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// registerValueCompletions attaches value completions to the flags defined
// directly on cmd that take one of a fixed set of values. Inherited flags are
// left to the command that defines them.
func registerValueCompletions(cmd *cobra.Command) error {
	completions := map[string]completionFunc{
		"kinds":         completeKinds,
		"throttle-mode": fixedCompletions(executor.ThrottleSerialized.String(), executor.ThrottleConcurrent.String()),
		"output":        fixedCompletions(string(output.FormatTable), string(output.FormatJSON), string(output.FormatYAML)),
	}

	for name, fn := range completions {
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			continue
		}
		if err := cmd.RegisterFlagCompletionFunc(name, fn); err != nil {
			return fmt.Errorf("failed to register completion for --%s: %w", name, err)
		}
	}
	return nil
}

func fixedCompletions(values ...string) completionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeKinds completes the last entry of a comma-separated kind list
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}

	candidates := make([]string, 0, len(task.Kinds))
	for _, k := range task.Kinds {
		candidates = append(candidates, prefix+strings.ToLower(k.String()))
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
