package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/errors"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/responsive"
)

func (c *CLI) breakpointCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "breakpoint [width]",
		Short: "Print the breakpoint and column count for a container width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := parseWidth(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			bp := responsive.BreakpointFromWidth(cfg.Breakpoints(), width)
			cols, err := responsive.ColsFromBreakpoint(bp, cfg.Cols())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %d\n", bp, cols)
			return nil
		},
	}
}

type responsiveOpts struct {
	width  float64
	from   float64
	space  string
	save   bool
	output string
	text   bool
}

func (c *CLI) responsiveCommand() *cobra.Command {
	var opts responsiveOpts
	cmd := &cobra.Command{
		Use:   "responsive [document]",
		Short: "Pick or derive the layout for a container width",
		Long: `Pick the layout for the breakpoint a container width falls in. A breakpoint
without a layout gets one derived from the nearest larger breakpoint and
compacted to its column count.

The input is a document holding breakpoints, cols and per-breakpoint
layouts, or with --space the layouts kept in the store. --from starts at
another width first, so the derivation starts from that width's breakpoint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.space == "" {
				return errors.New(errors.ErrCodeInvalidInput, "need a document or --space")
			}
			if opts.width < 0 || opts.from < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "widths must not be negative")
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runResponsive(cmd.Context(), input, opts)
		},
	}
	cmd.Flags().Float64Var(&opts.width, "width", 1200, "container width in pixels")
	cmd.Flags().Float64Var(&opts.from, "from", 0, "width to start from before resizing to --width")
	cmd.Flags().StringVar(&opts.space, "space", "", "read layouts of this store space")
	cmd.Flags().BoolVar(&opts.save, "save", false, "write every breakpoint's layout back to the store (needs --space)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write all layouts as a document instead of printing the active one")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print the active layout as a character grid")
	return cmd
}

func (c *CLI) runResponsive(ctx context.Context, input string, opts responsiveOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	ropts := engine.ResponsiveOptions{
		Options:     cfg.EngineOptions(),
		Breakpoints: cfg.Breakpoints(),
		Cols:        cfg.Cols(),
		Space:       opts.space,
	}
	ropts.Logger = loggerFromContext(ctx)

	if input != "" {
		doc, err := layoutio.ReadDocumentFile(input)
		if err != nil {
			return err
		}
		if len(doc.Breakpoints) > 0 {
			ropts.Breakpoints, ropts.Cols = doc.Breakpoints, doc.Cols
		}
		ropts.Layouts = doc.Layouts
	}
	if opts.space != "" {
		s, cc, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer cc.Close()
		ropts.Store = s
	} else if opts.save {
		return errors.New(errors.ErrCodeInvalidInput, "--save needs --space")
	}

	start := opts.width
	if opts.from > 0 {
		start = opts.from
	}
	r, err := engine.NewResponsive(ctx, start, ropts)
	if err != nil {
		return err
	}
	from := r.Breakpoint()
	if _, err := r.SetWidth(ctx, opts.width); err != nil {
		return err
	}
	bp := r.Breakpoint()
	loggerFromContext(ctx).Debug("responsive layout", "from", from, "breakpoint", bp)

	if opts.save {
		if err := r.Save(ctx); err != nil {
			return err
		}
		printSuccess("Saved %d breakpoints to space %s", len(r.Layouts()), opts.space)
	}

	if opts.output != "" {
		doc := &layoutio.Document{Breakpoints: ropts.Breakpoints, Cols: ropts.Cols, Layouts: r.Layouts()}
		if err := layoutio.WriteDocumentFile(opts.output, doc); err != nil {
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
		printSuccess("Layouts for %d breakpoints", len(doc.Layouts))
		printFile(opts.output)
		return nil
	}

	l := r.Engine().Layout()
	if opts.text {
		fmt.Fprintf(c.out, "%s (%d cols)\n", bp, r.Engine().Options().Grid.Cols)
		fmt.Fprint(c.out, renderGrid(l, r.Engine().Options().Grid.Cols))
		return nil
	}
	return layoutio.EncodeLayout(c.out, l, layoutio.FormatJSON)
}

func parseWidth(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || w < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "width must be a non-negative number, got %q", s)
	}
	return w, nil
}
