package cli

import (
	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridlayout arranges, compacts and renders dashboard grid layouts",
		Long: `Gridlayout is a CLI for grid layouts: lists of rectangular items placed on a
column grid. It validates and compacts layouts, moves and resizes items the
way a drag-and-drop dashboard does, derives layouts for other breakpoints,
renders them, and serves the same operations over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./gridlayout.{toml,yaml,json} if present)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.breakpointCommand())
	root.AddCommand(c.responsiveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
