// Package store persists per-breakpoint layouts for named spaces.
//
// A space is one shared dashboard (for example a couple's home screen). Each
// space holds one layout per breakpoint. A breakpoint that was never saved
// reads as the configured default layout, and Reset returns a space to its
// defaults.
//
// Layouts are stored as JSON through a [cache.Cache], so any cache backend
// (file, memory, Redis, MongoDB) can hold them.
package store

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/observability"
	"github.com/dear23/gridlayout/pkg/responsive"
)

// DefaultSpace is used when a caller names no space.
const DefaultSpace = "default"

// DefaultLayouts returns the starter dashboard for the lg, md and sm
// breakpoints.
func DefaultLayouts() responsive.Layouts {
	return responsive.Layouts{
		"lg": {
			{ID: "chat-shortcut", X: 0, Y: 0, W: 2, H: 2},
			{ID: "calendar-widget", X: 2, Y: 0, W: 4, H: 4},
			{ID: "feed-shortcut", X: 0, Y: 2, W: 2, H: 2},
			{ID: "memo-widget", X: 6, Y: 0, W: 2, H: 4},
		},
		"md": {
			{ID: "chat-shortcut", X: 0, Y: 0, W: 2, H: 2},
			{ID: "calendar-widget", X: 2, Y: 0, W: 4, H: 4},
			{ID: "feed-shortcut", X: 0, Y: 2, W: 2, H: 2},
			{ID: "memo-widget", X: 0, Y: 4, W: 4, H: 4},
		},
		"sm": {
			{ID: "chat-shortcut", X: 0, Y: 0, W: 2, H: 2},
			{ID: "feed-shortcut", X: 2, Y: 0, W: 2, H: 2},
			{ID: "calendar-widget", X: 0, Y: 2, W: 4, H: 4},
			{ID: "memo-widget", X: 0, Y: 6, W: 4, H: 4},
		},
	}
}

// Options configures a Store.
type Options struct {
	// Cache holds the encoded layouts. Defaults to an in-memory cache.
	Cache cache.Cache

	// Keyer builds the storage keys. Defaults to cache.DefaultKeyer.
	Keyer cache.Keyer

	// Logger defaults to a discard logger.
	Logger *log.Logger

	// Defaults are returned for breakpoints that were never saved.
	// Defaults to DefaultLayouts().
	Defaults responsive.Layouts

	// Breakpoints are the names Reset and All visit. Defaults to the names
	// in Defaults.
	Breakpoints []string
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.Cache == nil {
		o.Cache = cache.NewMemoryCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Defaults == nil {
		o.Defaults = DefaultLayouts()
	}
	if len(o.Breakpoints) == 0 {
		for bp := range o.Defaults {
			o.Breakpoints = append(o.Breakpoints, bp)
		}
	}
	slices.Sort(o.Breakpoints)
	o.Breakpoints = slices.Compact(o.Breakpoints)
}

// Validate checks the default layouts.
func (o *Options) Validate() error {
	for _, bp := range o.Breakpoints {
		if err := errors.ValidateName("breakpoint", bp); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store: %s", errors.UserMessage(err))
		}
		if err := grid.ValidateLayout(o.Defaults[bp], "default layout "+bp); err != nil {
			return err
		}
	}
	return nil
}

// Store reads and writes layouts per space and breakpoint. It is safe for
// concurrent use when its cache is.
type Store struct {
	cache       cache.Cache
	keyer       cache.Keyer
	logger      *log.Logger
	defaults    responsive.Layouts
	breakpoints []string
}

// New creates a store. Unset options get their defaults.
func New(opts Options) (*Store, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		cache:       opts.Cache,
		keyer:       opts.Keyer,
		logger:      opts.Logger,
		defaults:    opts.Defaults.Clone(),
		breakpoints: opts.Breakpoints,
	}, nil
}

// Breakpoints returns the breakpoint names the store manages.
func (s *Store) Breakpoints() []string {
	return slices.Clone(s.breakpoints)
}

// Get returns the layout of bp in space. stored reports whether it came
// from storage rather than from the defaults. A breakpoint with neither is
// NOT_FOUND.
func (s *Store) Get(ctx context.Context, space, bp string) (l grid.Layout, stored bool, err error) {
	if err := checkNames(space, bp); err != nil {
		return nil, false, err
	}
	key := s.keyer.LayoutKey(space, bp)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "read layout %s/%s", space, bp)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
		l, err := layoutio.UnmarshalLayout(data)
		if err == nil {
			return l, true, nil
		}
		s.logger.Warn("discarding unreadable stored layout", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}

	def, ok := s.defaults[bp]
	if !ok {
		return nil, false, errors.New(errors.ErrCodeNotFound, "no layout for breakpoint %q in space %q", bp, space)
	}
	return def.Clone(), false, nil
}

// Update validates l and saves it as the layout of bp in space. Transient
// moved flags are cleared before saving.
func (s *Store) Update(ctx context.Context, space, bp string, l grid.Layout) error {
	if err := checkNames(space, bp); err != nil {
		return err
	}
	if err := grid.ValidateLayout(l, space+"/"+bp); err != nil {
		return err
	}

	saved := l.Clone()
	for _, it := range saved {
		it.Moved = false
	}
	data, err := layoutio.MarshalLayout(saved)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout %s/%s", space, bp)
	}

	key := s.keyer.LayoutKey(space, bp)
	if err := s.cache.Set(ctx, key, data, 0); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s/%s", space, bp)
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
	s.logger.Debug("saved layout", "space", space, "breakpoint", bp, "items", len(saved))
	return nil
}

// Reset deletes every stored breakpoint of space so reads return the
// defaults again.
func (s *Store) Reset(ctx context.Context, space string) error {
	if err := checkNames(space); err != nil {
		return err
	}
	for _, bp := range s.breakpoints {
		if err := s.cache.Delete(ctx, s.keyer.LayoutKey(space, bp)); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "reset layout %s/%s", space, bp)
		}
	}
	s.logger.Debug("reset layouts", "space", space)
	return nil
}

// All returns the layout of every managed breakpoint in space.
func (s *Store) All(ctx context.Context, space string) (responsive.Layouts, error) {
	out := make(responsive.Layouts, len(s.breakpoints))
	for _, bp := range s.breakpoints {
		l, _, err := s.Get(ctx, space, bp)
		if errors.Is(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[bp] = l
	}
	return out, nil
}

func checkNames(space string, bps ...string) error {
	if err := errors.ValidateName("space", space); err != nil {
		return err
	}
	for _, bp := range bps {
		if err := errors.ValidateName("breakpoint", bp); err != nil {
			return err
		}
	}
	return nil
}
