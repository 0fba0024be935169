package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/pipeline"
)

// fileExt maps an output format to its file extension.
var fileExt = map[string]string{
	pipeline.FormatSVG:  "svg",
	pipeline.FormatPNG:  "png",
	pipeline.FormatText: "txt",
	pipeline.FormatJSON: "json",
	pipeline.FormatTOML: "toml",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layoutFlags
	output    string
	formats   string
	noCache   bool
	width     float64
	rowHeight float64
	margin    []float64
	scale     float64
	title     string
	gridLines bool
	noLabels  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render [layout]",
		Short: "Compact a layout and render it as SVG, PNG, text, JSON or TOML",
		Long: `Compact a layout and render it.

Each format is written next to the input (or to the -o base path) with its
own extension. Compaction results and artifacts are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, text, json, toml (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "container width in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.rowHeight, "row-height", 0, "row height in pixels (default from config)")
	cmd.Flags().Float64SliceVar(&opts.margin, "margin", nil, "horizontal and vertical margin in pixels, e.g. 10,10")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title")
	cmd.Flags().BoolVar(&opts.gridLines, "grid-lines", false, "draw column and row lines (SVG)")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit item ids (SVG)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats())

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	l, err := layoutio.ReadLayoutFile(input)
	if err != nil {
		return err
	}
	popts, err := opts.pipelineOptions(cfg, l)
	if err != nil {
		return err
	}
	popts.Formats = parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	g := cfg.GridConfig()
	popts.ContainerWidth = cfg.Grid.ContainerWidth
	popts.RowHeight = g.RowHeight
	popts.Margin = &g.Margin
	popts.ContainerPadding = g.ContainerPadding
	if opts.width > 0 {
		popts.ContainerWidth = opts.width
	}
	if opts.rowHeight > 0 {
		popts.RowHeight = opts.rowHeight
	}
	if len(opts.margin) > 0 {
		if len(opts.margin) != 2 {
			return fmt.Errorf("--margin wants two values, got %d", len(opts.margin))
		}
		popts.Margin = &[2]float64{opts.margin[0], opts.margin[1]}
	}
	popts.Scale = opts.scale
	popts.Title = opts.title
	popts.GridLines = opts.gridLines
	popts.NoLabels = opts.noLabels
	popts.Logger = logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d items", len(l)))
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(opts.output, input)
	printSuccess("Rendered %s in %s", input, spinner.Elapsed().Round(time.Millisecond))
	for _, format := range popts.Formats {
		path := base + "." + fileExt[format]
		if path == input {
			path = base + ".rendered." + fileExt[format]
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats.ItemCount, res.Stats.Rows, res.CacheInfo.CompactHit && res.CacheInfo.RenderHit)
	return nil
}

// basePath derives the base output path. If output is empty, it strips the
// extension from input. If output has a format extension, it strips that.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || ext == fileExt[pipeline.FormatText] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
