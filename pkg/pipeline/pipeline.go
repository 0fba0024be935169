// Package pipeline runs the compact → render pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Compact: validate the layout, pull it inside the grid and compact it
//     with the selected compactor
//  2. Render: draw the compacted layout as SVG, PNG, a text grid, or
//     serialize it as JSON or TOML
//
// Both stages are pure functions of their inputs, so a [Runner] caches
// their results under content-hash keys. Each stage can run on its own or
// as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Layout:    l,
//	    Compactor: "vertical",
//	    Formats:   []string{"svg", "text"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCompactor is the compactor used when none is named.
	DefaultCompactor = "vertical"

	// DefaultContainerWidth is the render width in pixels.
	DefaultContainerWidth = 1200.0

	// DefaultScale is the PNG pixel scale.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatText = "text"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatText: true,
	FormatJSON: true,
	FormatTOML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It supports JSON
// serialization for API requests.
type Options struct {
	// Compact options
	Layout           grid.Layout `json:"layout"`
	Cols             int         `json:"cols,omitempty"`
	Compactor        string      `json:"compactor,omitempty"`
	AllowOverlap     bool        `json:"allow_overlap,omitempty"`
	PreventCollision bool        `json:"prevent_collision,omitempty"`
	Refresh          bool        `json:"refresh,omitempty"`

	// Render options
	Formats          []string    `json:"formats,omitempty"`
	ContainerWidth   float64     `json:"container_width,omitempty"`
	RowHeight        float64     `json:"row_height,omitempty"`
	Margin           *[2]float64 `json:"margin,omitempty"`
	ContainerPadding *[2]float64 `json:"container_padding,omitempty"`
	Scale            float64     `json:"scale,omitempty"`
	Title            string      `json:"title,omitempty"`
	GridLines        bool        `json:"grid_lines,omitempty"`
	NoLabels         bool        `json:"no_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the compacted layout.
	Layout grid.Layout

	// LayoutHash is the content hash of the input layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount   int
	Rows        int
	CompactTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompactHit bool // Whether the compacted layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, text, json, toml)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCompactor checks that a compactor name is known.
func ValidateCompactor(name string) error {
	if _, ok := grid.CompactorByName(name); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid compactor: %q", name)
	}
	return nil
}

// ValidateOverlap rejects allowOverlap on the wrap compactor. Wrap flows
// items into a sequence and has no overlapping form.
func ValidateOverlap(name string, allowOverlap bool) error {
	if c, ok := grid.CompactorByName(name); ok && allowOverlap && c.Type() == grid.CompactWrap {
		return errors.New(errors.ErrCodeInvalidConfig, "compactor %q does not allow overlap", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetCompactDefaults sets default values for compaction.
func (o *Options) SetCompactDefaults() {
	if o.Cols == 0 {
		o.Cols = grid.DefaultCols
	}
	if o.Compactor == "" {
		o.Compactor = DefaultCompactor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompact sets compaction defaults and checks the layout and
// compactor.
func (o *Options) ValidateForCompact() error {
	o.SetCompactDefaults()
	if o.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "cols must be at least 1, got %d", o.Cols)
	}
	if err := ValidateCompactor(o.Compactor); err != nil {
		return err
	}
	if err := ValidateOverlap(o.Compactor, o.AllowOverlap); err != nil {
		return err
	}
	return grid.ValidateLayout(o.Layout, "pipeline")
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.ContainerWidth == 0 {
		o.ContainerWidth = DefaultContainerWidth
	}
	if o.RowHeight == 0 {
		o.RowHeight = grid.DefaultRowHeight
	}
	if o.Margin == nil {
		o.Margin = &[2]float64{grid.DefaultMargin, grid.DefaultMargin}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the formats and the
// container geometry.
func (o *Options) ValidateForRender() error {
	o.SetCompactDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", o.Scale)
	}
	if grid.ColWidth(o.Params()) <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "container width %v leaves no room for %d columns", o.ContainerWidth, o.Cols)
	}
	return nil
}

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForCompact(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// NewCompactor returns the compactor named by the options. Wrap compactors
// are created fresh on each call. Options that failed ValidateOverlap get
// the none-overlap compactor.
func (o *Options) NewCompactor() grid.Compactor {
	c, ok := grid.CompactorByName(o.Compactor)
	if !ok {
		c = grid.VerticalCompactor
	}
	if o.AllowOverlap && !c.AllowOverlap() {
		c = grid.CompactorFor(c.Type(), true, o.PreventCollision)
	}
	if o.PreventCollision != c.PreventCollision() {
		c = grid.WithPreventCollision(c, o.PreventCollision)
	}
	return c
}

// Params returns the pixel geometry used for rendering.
func (o *Options) Params() grid.PositionParams {
	g := grid.GridConfig{
		Cols:             o.Cols,
		RowHeight:        o.RowHeight,
		ContainerPadding: o.ContainerPadding,
	}
	if o.Margin != nil {
		g.Margin = *o.Margin
	}
	return grid.PositionParams{GridConfig: g, ContainerWidth: o.ContainerWidth}
}

// CompactKeyOpts returns cache key options for compaction.
func (o *Options) CompactKeyOpts() cache.CompactKeyOpts {
	return cache.CompactKeyOpts{
		Compactor:        o.Compactor,
		Cols:             o.Cols,
		AllowOverlap:     o.AllowOverlap,
		PreventCollision: o.PreventCollision,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	p := o.Params()
	k := cache.ArtifactKeyOpts{
		Format:         format,
		Cols:           o.Cols,
		ContainerWidth: o.ContainerWidth,
		RowHeight:      o.RowHeight,
		Margin:         p.Margin,
		Padding:        p.Padding(),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if format == FormatSVG {
		k.Title = o.Title
		k.GridLines = o.GridLines
		k.NoLabels = o.NoLabels
	}
	return k
}

// sortedFormats returns formats without duplicates in a stable order.
func sortedFormats(formats []string) []string {
	out := slices.Clone(formats)
	slices.Sort(out)
	return slices.Compact(out)
}

func describe(c grid.Compactor) string {
	return fmt.Sprintf("%s (overlap=%t, prevent=%t)", c.Name(), c.AllowOverlap(), c.PreventCollision())
}
