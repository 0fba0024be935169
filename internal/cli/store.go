package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/internal/config"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/store"
)

// storeCommand creates the layout store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write the saved layouts of a space",
		Long: `Read and write saved layouts. A space holds one layout per breakpoint;
breakpoints that were never saved read as the built-in defaults.

The backend (file, memory, redis, mongo or none) comes from the store
section of the config.`,
	}

	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeResetCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:               "get [space] [breakpoint]",
		Short:             "Print a saved layout, or a summary of every breakpoint",
		Args:              cobra.RangeArgs(0, 2),
		ValidArgsFunction: c.completeBreakpoints(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			space := store.DefaultSpace
			if len(args) > 0 {
				space = args[0]
			}
			s, cc, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			if len(args) < 2 {
				all, err := s.All(cmd.Context(), space)
				if err != nil {
					return err
				}
				for _, bp := range s.Breakpoints() {
					l, ok := all[bp]
					if !ok {
						continue
					}
					fmt.Fprintf(c.out, "%-6s %3d items %3d rows\n", bp, len(l), l.Bottom())
				}
				return nil
			}

			l, stored, err := s.Get(cmd.Context(), space, args[1])
			if err != nil {
				return err
			}
			if !stored {
				c.Logger.Debug("no saved layout, showing default", "space", space, "breakpoint", args[1])
			}
			if table {
				fmt.Fprintln(c.out, layoutTable(l))
				return nil
			}
			return layoutio.EncodeLayout(c.out, l, layoutio.FormatJSON)
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "print the layout as a table")
	return cmd
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "put [space] [breakpoint] [layout]",
		Short:             "Save a layout file for a breakpoint",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeBreakpoints(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layoutio.ReadLayoutFile(args[2])
			if err != nil {
				return err
			}
			s, cc, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			if err := s.Update(cmd.Context(), args[0], args[1], l); err != nil {
				return err
			}
			printSuccess("Saved %s/%s (%d items)", args[0], args[1], len(l))
			return nil
		},
	}
}

func (c *CLI) storeResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [space]",
		Short: "Delete every saved layout of a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cc, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			if err := s.Reset(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Reset space %s", args[0])
			return nil
		},
	}
}

// storePathCommand prints where the file backend keeps layouts.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendFile {
				printWarning("Store backend is %s, not file", cfg.Store.Backend)
			}
			dir := cfg.Store.Dir
			if dir == "" {
				if dir, err = storeDir(); err != nil {
					return fmt.Errorf("get store dir: %w", err)
				}
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
