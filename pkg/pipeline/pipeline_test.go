package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
)

func testLayout() grid.Layout {
	return grid.Layout{
		{ID: "a", X: 0, Y: 3, W: 2, H: 1},
		{ID: "b", X: 2, Y: 5, W: 2, H: 2},
		{ID: "wall", X: 0, Y: 1, W: 1, H: 1, Static: true},
	}
}

func testOptions() Options {
	return Options{
		Layout:         testLayout(),
		Cols:           4,
		ContainerWidth: 430,
		RowHeight:      50,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"text", false},
		{"json", false},
		{"toml", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateCompactor(t *testing.T) {
	for _, name := range []string{"vertical", "horizontal", "none", "wrap", "fast-vertical", "vertical-overlap"} {
		if err := ValidateCompactor(name); err != nil {
			t.Errorf("ValidateCompactor(%q) = %v", name, err)
		}
	}
	if err := ValidateCompactor("diagonal"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ValidateCompactor(diagonal) = %v, want INVALID_CONFIG", err)
	}
}

func TestValidateOverlap(t *testing.T) {
	tests := []struct {
		name    string
		overlap bool
		wantErr bool
	}{
		{"wrap", true, true},
		{"wrap", false, false},
		{"vertical", true, false},
		{"none", true, false},
		{"diagonal", true, false},
	}

	for _, tt := range tests {
		err := ValidateOverlap(tt.name, tt.overlap)
		if got := errors.Is(err, errors.ErrCodeInvalidConfig); got != tt.wantErr {
			t.Errorf("ValidateOverlap(%q, %t) = %v", tt.name, tt.overlap, err)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Layout: testLayout()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Cols != grid.DefaultCols {
		t.Errorf("Cols should be %d, got %d", grid.DefaultCols, opts.Cols)
	}
	if opts.Compactor != DefaultCompactor {
		t.Errorf("Compactor should be %q, got %q", DefaultCompactor, opts.Compactor)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.ContainerWidth != DefaultContainerWidth {
		t.Errorf("ContainerWidth should be %v, got %v", DefaultContainerWidth, opts.ContainerWidth)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"BadCols", func(o *Options) { o.Cols = -1 }, errors.ErrCodeInvalidConfig},
		{"BadCompactor", func(o *Options) { o.Compactor = "diagonal" }, errors.ErrCodeInvalidConfig},
		{"WrapOverlap", func(o *Options) { o.Compactor = "wrap"; o.AllowOverlap = true }, errors.ErrCodeInvalidConfig},
		{"BadItem", func(o *Options) { o.Layout[0].W = 0 }, errors.ErrCodeInvalidLayout},
		{"DuplicateID", func(o *Options) { o.Layout[1].ID = "a" }, errors.ErrCodeDuplicateID},
		{"BadFormat", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"NarrowContainer", func(o *Options) { o.ContainerWidth = 20 }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNewCompactor(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantName string
		overlap  bool
		prevent  bool
	}{
		{"Vertical", Options{Compactor: "vertical"}, "vertical", false, false},
		{"Overlap", Options{Compactor: "horizontal", AllowOverlap: true}, "horizontal-overlap", true, false},
		{"Prevent", Options{Compactor: "none", PreventCollision: true}, "none", false, true},
		{"Wrap", Options{Compactor: "wrap"}, "wrap", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.opts.NewCompactor()
			if c.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.wantName)
			}
			if c.AllowOverlap() != tt.overlap {
				t.Errorf("AllowOverlap() = %t, want %t", c.AllowOverlap(), tt.overlap)
			}
			if c.PreventCollision() != tt.prevent {
				t.Errorf("PreventCollision() = %t, want %t", c.PreventCollision(), tt.prevent)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	opts := testOptions()
	l, err := Compact(opts)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	// a rises past nothing but stops above the wall's row; the wall stays.
	want := map[string][2]int{"a": {0, 2}, "b": {2, 0}, "wall": {0, 1}}
	for id, xy := range want {
		it := l.Find(id)
		if it.X != xy[0] || it.Y != xy[1] {
			t.Errorf("%s at (%d,%d), want (%d,%d)", id, it.X, it.Y, xy[0], xy[1])
		}
	}
	if opts.Layout.Find("a").Y != 3 {
		t.Error("Compact modified its input")
	}
}

func TestRender(t *testing.T) {
	opts := testOptions()
	opts.Formats = []string{FormatSVG, FormatPNG, FormatText, FormatJSON, FormatTOML, FormatSVG}
	opts.Title = "board"

	artifacts, err := Render(testLayout(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 5 {
		t.Errorf("got %d artifacts, want 5", len(artifacts))
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", artifacts[FormatSVG][:10])
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte("board")) {
		t.Error("svg artifact is missing the title")
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !strings.Contains(string(artifacts[FormatText]), "wall") {
		t.Error("text artifact legend is missing the static item")
	}

	l, err := layoutio.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if !l.Equal(testLayout()) {
		t.Error("json artifact does not round trip")
	}

	l, err = layoutio.DecodeLayout(bytes.NewReader(artifacts[FormatTOML]), layoutio.FormatTOML)
	if err != nil {
		t.Fatalf("toml artifact does not decode: %v", err)
	}
	if len(l) != 3 {
		t.Errorf("toml artifact has %d items, want 3", len(l))
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	opts := testOptions()
	opts.Formats = []string{FormatSVG, FormatText}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.CompactHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if first.Stats.ItemCount != 3 || first.Stats.Rows != 3 {
		t.Errorf("Stats = %+v, want 3 items over 3 rows", first.Stats)
	}
	if first.LayoutHash == "" {
		t.Error("LayoutHash is empty")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.CompactHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if !second.Layout.Equal(first.Layout) {
		t.Error("cached layout differs")
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	// A different render setting misses only the render stage.
	opts.ContainerWidth = 860
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !third.CacheInfo.CompactHit || third.CacheInfo.RenderHit {
		t.Errorf("width change: %+v, want compact hit and render miss", third.CacheInfo)
	}

	opts.Refresh = true
	fourth, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fourth.CacheInfo.CompactHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh hit the cache: %+v", fourth.CacheInfo)
	}
}

func TestRunnerNullCache(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := testOptions()
	for range 2 {
		res, err := runner.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if res.CacheInfo.CompactHit || res.CacheInfo.RenderHit {
			t.Errorf("null cache reported a hit: %+v", res.CacheInfo)
		}
	}
}

func TestRunnerInvalidLayout(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := testOptions()
	opts.Layout[0].H = -1
	if _, err := runner.Execute(context.Background(), opts); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Execute = %v, want INVALID_LAYOUT", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := testOptions()
	opts.Scale = 2
	opts.Title = "t"
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Scale != 0 || svg.Title != "t" {
		t.Errorf("svg key opts = %+v, want no scale and the title", svg)
	}
	png := opts.ArtifactKeyOpts(FormatPNG)
	if png.Scale != 2 || png.Title != "" {
		t.Errorf("png key opts = %+v, want the scale and no title", png)
	}
	if png.Padding != png.Margin {
		t.Errorf("padding %v should default to margin %v", png.Padding, png.Margin)
	}
}
