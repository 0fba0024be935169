package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/internal/config"
	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/pipeline"
)

// layoutFlags are the grid and compaction overrides shared by the layout
// commands. Zero values keep the configured settings.
type layoutFlags struct {
	cols             int
	compactor        string
	allowOverlap     bool
	preventCollision bool
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.cols, "cols", 0, "column count (default from config)")
	cmd.Flags().StringVar(&f.compactor, "compactor", "", "compactor: vertical, horizontal, none, wrap, fast-vertical, ... (default from config)")
	cmd.Flags().BoolVar(&f.allowOverlap, "allow-overlap", false, "let items overlap instead of pushing")
	cmd.Flags().BoolVar(&f.preventCollision, "prevent-collision", false, "reject moves onto other items")
	_ = cmd.RegisterFlagCompletionFunc("compactor", completeCompactors())
}

// pipelineOptions merges the flags over cfg.
func (f *layoutFlags) pipelineOptions(cfg *config.Config, l grid.Layout) (pipeline.Options, error) {
	opts := pipeline.Options{
		Layout:           l,
		Cols:             cfg.Grid.Cols,
		Compactor:        cfg.Compactor().Name(),
		AllowOverlap:     cfg.Compaction.AllowOverlap || f.allowOverlap,
		PreventCollision: cfg.Compaction.PreventCollision || f.preventCollision,
	}
	if f.cols > 0 {
		opts.Cols = f.cols
	}
	if f.compactor != "" {
		if err := pipeline.ValidateCompactor(f.compactor); err != nil {
			return opts, err
		}
		opts.Compactor = f.compactor
	}
	if err := pipeline.ValidateOverlap(opts.Compactor, opts.AllowOverlap); err != nil {
		return opts, err
	}
	return opts, nil
}

// engineOptions merges the flags over cfg.
func (f *layoutFlags) engineOptions(cfg *config.Config) (engine.Options, error) {
	opts := cfg.EngineOptions()
	if f.cols > 0 {
		opts.Grid.Cols = f.cols
	}
	if f.compactor != "" || f.allowOverlap || f.preventCollision {
		po, err := f.pipelineOptions(cfg, nil)
		if err != nil {
			return opts, err
		}
		opts.Compactor = po.NewCompactor()
	}
	return opts, nil
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	var cols int
	cmd := &cobra.Command{
		Use:   "validate [layout]",
		Short: "Check a layout file for malformed or duplicate items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layoutio.ReadLayoutFile(args[0])
			if err != nil {
				return err
			}
			if err := grid.ValidateLayout(l, args[0]); err != nil {
				return err
			}
			printSuccess("Valid layout")
			printFile(args[0])
			if cols > 0 {
				if out := grid.CorrectBounds(l.Clone(), cols); !out.Equal(l) {
					printWarning("Items overflow %d columns and would be moved", cols)
				}
			}
			printStats(len(l), l.Bottom(), false)
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 0, "also check that items fit this many columns")
	return cmd
}

// =============================================================================
// compact
// =============================================================================

func (c *CLI) compactCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		noCache bool
		text    bool
	)
	cmd := &cobra.Command{
		Use:   "compact [layout]",
		Short: "Compact a layout and write the result",
		Long: `Compact a layout: fix items that overflow the grid, then move every item
as far as the compactor allows.

Without -o the compacted layout is written to stdout as JSON. Results are
cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompact(cmd.Context(), args[0], flags, output, noCache, text)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .toml (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&text, "text", false, "print the compacted layout as a character grid")
	return cmd
}

func (c *CLI) runCompact(ctx context.Context, input string, flags layoutFlags, output string, noCache, text bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	l, err := layoutio.ReadLayoutFile(input)
	if err != nil {
		return err
	}
	opts, err := flags.pipelineOptions(cfg, l)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	out, hit, err := runner.CompactWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compacted %d items with %s", len(out), opts.Compactor))

	if text {
		fmt.Fprint(c.out, renderGrid(out, opts.Cols))
		return nil
	}
	if output == "" {
		return layoutio.EncodeLayout(c.out, out, layoutio.FormatJSON)
	}
	if err := layoutio.WriteLayoutFile(output, out); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Compaction complete")
	printFile(output)
	printStats(len(out), out.Bottom(), hit)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// =============================================================================
// move / resize
// =============================================================================

func (c *CLI) moveCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "move [layout] [id] [x] [y]",
		Short: "Move an item to a grid cell, pushing the items it lands on",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseCell(args[2], args[3])
			if err != nil {
				return err
			}
			return c.runMutation(cmd.Context(), args[0], flags, output, func(ctx context.Context, e *engine.Engine) (grid.Layout, error) {
				return e.Move(ctx, args[1], x, y)
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) resizeCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		handle string
	)
	cmd := &cobra.Command{
		Use:   "resize [layout] [id] [w] [h]",
		Short: "Resize an item, pushing the items it grows into",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseCell(args[2], args[3])
			if err != nil {
				return err
			}
			return c.runMutation(cmd.Context(), args[0], flags, output, func(ctx context.Context, e *engine.Engine) (grid.Layout, error) {
				return e.ResizeTo(ctx, args[1], w, h, grid.ResizeHandle(handle))
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&handle, "handle", string(grid.HandleSE), "resize handle: s, w, e, n, sw, nw, se, ne")
	_ = cmd.RegisterFlagCompletionFunc("handle", completeHandles())
	return cmd
}

// runMutation loads a layout into an engine, applies fn and writes the
// resulting layout.
func (c *CLI) runMutation(ctx context.Context, input string, flags layoutFlags, output string,
	fn func(context.Context, *engine.Engine) (grid.Layout, error)) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	l, err := layoutio.ReadLayoutFile(input)
	if err != nil {
		return err
	}
	opts, err := flags.engineOptions(cfg)
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)

	e, err := engine.New(ctx, l, opts)
	if err != nil {
		return err
	}
	out, err := fn(ctx, e)
	if err != nil {
		return err
	}
	if output == "" {
		return layoutio.EncodeLayout(c.out, out, layoutio.FormatJSON)
	}
	if err := layoutio.WriteLayoutFile(output, out); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Layout updated")
	printFile(output)
	return nil
}

// parseCell parses two non-negative integers.
func parseCell(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil || x < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "want a non-negative integer, got %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil || y < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "want a non-negative integer, got %q", b)
	}
	return x, y, nil
}
