package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compact → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Compact
	compactStart := time.Now()
	l, hash, compactHit, err := r.compact(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compact: %w", err)
	}
	result.Layout = l
	result.LayoutHash = hash
	result.Stats.CompactTime = time.Since(compactStart)
	result.Stats.ItemCount = len(l)
	result.Stats.Rows = l.Bottom()
	result.CacheInfo.CompactHit = compactHit

	r.Logger.Info("compacted layout",
		"items", len(l),
		"rows", result.Stats.Rows,
		"cached", compactHit,
		"duration", result.Stats.CompactTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// CompactWithCacheInfo compacts opts.Layout with caching and returns cache
// hit info.
func (r *Runner) CompactWithCacheInfo(ctx context.Context, opts Options) (grid.Layout, bool, error) {
	r.applyLogger(&opts)
	l, _, hit, err := r.compact(ctx, opts)
	return l, hit, err
}

// Compact is a convenience wrapper that calls CompactWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Compact(ctx context.Context, opts Options) (grid.Layout, error) {
	l, _, err := r.CompactWithCacheInfo(ctx, opts)
	return l, err
}

func (r *Runner) compact(ctx context.Context, opts Options) (grid.Layout, string, bool, error) {
	if err := opts.ValidateForCompact(); err != nil {
		return nil, "", false, err
	}

	// Compute cache key
	layoutData, err := layoutio.MarshalLayout(opts.Layout)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheKey := r.Keyer.CompactKey(layoutHash, opts.CompactKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if l, ok := r.lookup(ctx, cacheKey); ok {
			return l, layoutHash, true, nil
		}
	}

	l, err := Compact(opts)
	if err != nil {
		return nil, "", false, err
	}

	// Cache the result
	if data, err := layoutio.MarshalLayout(l); err == nil {
		r.store(ctx, cacheKey, data, cache.TTLCompact)
	}

	return l, layoutHash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l grid.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layoutio.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range sortedFormats(opts.Formats) {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cacheKey)
				break
			}
			observability.Cache().OnCacheHit(ctx, cacheKey)
			artifacts[format] = data
		}
		if len(artifacts) == len(sortedFormats(opts.Formats)) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l grid.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup returns the cached layout under key. Undecodable entries count as
// misses and are recomputed.
func (r *Runner) lookup(ctx context.Context, key string) (grid.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	l, err := layoutio.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return l, true
}

// store writes a derived entry. Write failures are logged and dropped.
func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
