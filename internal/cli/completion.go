package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridlayout.

Bash:
  $ source <(gridlayout completion bash)

Zsh:
  $ gridlayout completion zsh > "${fpath[1]}/_gridlayout"

Fish:
  $ gridlayout completion fish > ~/.config/fish/completions/gridlayout.fish

PowerShell:
  PS> gridlayout completion powershell | Out-String | Invoke-Expression

Besides commands and flags, completions cover compactor names, resize
handles, output formats and the configured breakpoints.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
		},
	}
}

// =============================================================================
// Value completions
// =============================================================================

func fixedCompletion(values []string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeCompactors() cobra.CompletionFunc {
	return fixedCompletion(grid.CompactorNames())
}

func completeHandles() cobra.CompletionFunc {
	return fixedCompletion([]string{
		string(grid.HandleSE), string(grid.HandleS), string(grid.HandleE), string(grid.HandleSW),
		string(grid.HandleW), string(grid.HandleNE), string(grid.HandleN), string(grid.HandleNW),
	})
}

func completeFormats() cobra.CompletionFunc {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return fixedCompletion(formats)
}

// completeBreakpoints offers the configured breakpoint names for the
// positional argument at index pos, largest first. Later arguments fall
// back to file completion.
func (c *CLI) completeBreakpoints(pos int) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		switch {
		case len(args) < pos:
			return nil, cobra.ShellCompDirectiveNoFileComp
		case len(args) > pos:
			return nil, cobra.ShellCompDirectiveDefault
		}
		cfg, err := c.config()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return cfg.Breakpoints().Sorted(), cobra.ShellCompDirectiveNoFileComp
	}
}
