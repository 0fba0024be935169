// Package config loads gridlayout settings from defaults, an optional config
// file and GRIDLAYOUT_* environment variables, in increasing precedence.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/responsive"
)

// EnvPrefix prefixes every environment override: GRIDLAYOUT_GRID_COLS sets
// grid.cols.
const EnvPrefix = "GRIDLAYOUT"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the valid store.backend values.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Config is the full configuration tree.
type Config struct {
	Grid       GridConfig       `mapstructure:"grid"`
	Compaction CompactionConfig `mapstructure:"compaction"`
	Responsive ResponsiveConfig `mapstructure:"responsive"`
	Store      StoreConfig      `mapstructure:"store"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

// GridConfig holds the grid geometry.
type GridConfig struct {
	Cols             int       `mapstructure:"cols"`
	RowHeight        float64   `mapstructure:"row_height"`
	Margin           []float64 `mapstructure:"margin"`
	ContainerPadding []float64 `mapstructure:"container_padding"`
	MaxRows          int       `mapstructure:"max_rows"`
	ContainerWidth   float64   `mapstructure:"container_width"`
	ContainerHeight  float64   `mapstructure:"container_height"`
}

// CompactionConfig selects the compactor.
type CompactionConfig struct {
	Type             string `mapstructure:"type"`
	AllowOverlap     bool   `mapstructure:"allow_overlap"`
	PreventCollision bool   `mapstructure:"prevent_collision"`
	Fast             bool   `mapstructure:"fast"`
}

// ResponsiveConfig holds breakpoint thresholds and column counts.
type ResponsiveConfig struct {
	Breakpoints map[string]int `mapstructure:"breakpoints"`
	Cols        map[string]int `mapstructure:"cols"`
}

// StoreConfig selects the layout store backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	Scope   string      `mapstructure:"scope"`
	Redis   RedisConfig `mapstructure:"redis"`
	Mongo   MongoConfig `mapstructure:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Grid --
	v.SetDefault("grid.cols", grid.DefaultCols)
	v.SetDefault("grid.row_height", grid.DefaultRowHeight)
	v.SetDefault("grid.margin", []float64{grid.DefaultMargin, grid.DefaultMargin})
	v.SetDefault("grid.max_rows", 0)
	v.SetDefault("grid.container_width", engine.DefaultContainerWidth)
	v.SetDefault("grid.container_height", 0)

	// -- Compaction --
	v.SetDefault("compaction.type", "vertical")
	v.SetDefault("compaction.allow_overlap", false)
	v.SetDefault("compaction.prevent_collision", false)
	v.SetDefault("compaction.fast", false)

	// -- Responsive --
	v.SetDefault("responsive.breakpoints", map[string]int(responsive.DefaultBreakpoints))
	v.SetDefault("responsive.cols", map[string]int(responsive.DefaultCols))

	// -- Store --
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", "")
	v.SetDefault("store.scope", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "gridlayout")
	v.SetDefault("store.mongo.collection", "layouts")

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	// -- Log --
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewViper returns a viper instance with defaults and environment
// overrides wired. path names an optional config file; when empty,
// gridlayout.{toml,yaml,json} is looked up in the working directory.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gridlayout")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. A missing file is only an error when path
// was given explicitly.
func Load(path string) (*Config, error) {
	v := NewViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. Errors name the
// offending key.
func (c *Config) Validate() error {
	invalid := func(key, format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, key+" "+format, args...)
	}

	g := c.Grid
	switch {
	case g.Cols < 1:
		return invalid("grid.cols", "must be at least 1, got %d", g.Cols)
	case g.RowHeight <= 0:
		return invalid("grid.row_height", "must be positive, got %v", g.RowHeight)
	case len(g.Margin) != 2:
		return invalid("grid.margin", "must have 2 values, got %d", len(g.Margin))
	case g.ContainerPadding != nil && len(g.ContainerPadding) != 2:
		return invalid("grid.container_padding", "must have 2 values, got %d", len(g.ContainerPadding))
	case g.MaxRows < 0:
		return invalid("grid.max_rows", "must not be negative, got %d", g.MaxRows)
	case g.ContainerWidth <= 0:
		return invalid("grid.container_width", "must be positive, got %v", g.ContainerWidth)
	case g.ContainerHeight < 0:
		return invalid("grid.container_height", "must not be negative, got %v", g.ContainerHeight)
	}

	t, ok := grid.ParseCompactType(c.Compaction.Type)
	if !ok {
		return invalid("compaction.type", "must be vertical, horizontal, wrap or none, got %q", c.Compaction.Type)
	}
	if t == grid.CompactWrap && c.Compaction.AllowOverlap {
		return invalid("compaction.allow_overlap", "is not supported by the wrap compactor")
	}

	if err := responsive.Validate(c.Breakpoints(), c.Cols()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "responsive")
	}

	if !slices.Contains(Backends, c.Store.Backend) {
		return invalid("store.backend", "must be one of %s, got %q", strings.Join(Backends, ", "), c.Store.Backend)
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return invalid("store.redis.addr", "is required for the redis backend")
	}
	if c.Store.Backend == BackendMongo && c.Store.Mongo.URI == "" {
		return invalid("store.mongo.uri", "is required for the mongo backend")
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return invalid("server", "timeouts must not be negative")
	}
	if c.Log.MaxSize < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAge < 0 {
		return invalid("log", "rotation limits must not be negative")
	}
	return nil
}

// GridConfig converts the grid section.
func (c *Config) GridConfig() grid.GridConfig {
	g := grid.GridConfig{
		Cols:      c.Grid.Cols,
		RowHeight: c.Grid.RowHeight,
		MaxRows:   c.Grid.MaxRows,
	}
	if len(c.Grid.Margin) == 2 {
		g.Margin = [2]float64{c.Grid.Margin[0], c.Grid.Margin[1]}
	}
	if len(c.Grid.ContainerPadding) == 2 {
		g.ContainerPadding = &[2]float64{c.Grid.ContainerPadding[0], c.Grid.ContainerPadding[1]}
	}
	return g
}

// Compactor builds the configured compactor. The fast flag swaps the
// vertical and horizontal compactors for their fast equivalents.
func (c *Config) Compactor() grid.Compactor {
	t, _ := grid.ParseCompactType(c.Compaction.Type)
	cc := c.Compaction
	switch {
	case t == grid.CompactWrap:
		return grid.NewWrapCompactor()
	case cc.Fast && !cc.AllowOverlap && t == grid.CompactVertical:
		return grid.WithPreventCollision(grid.FastVerticalCompactor, cc.PreventCollision)
	case cc.Fast && !cc.AllowOverlap && t == grid.CompactHorizontal:
		return grid.WithPreventCollision(grid.FastHorizontalCompactor, cc.PreventCollision)
	}
	return grid.CompactorFor(t, cc.AllowOverlap, cc.PreventCollision)
}

// Breakpoints returns the breakpoint thresholds.
func (c *Config) Breakpoints() responsive.Breakpoints {
	return responsive.Breakpoints(c.Responsive.Breakpoints)
}

// Cols returns the per-breakpoint column counts.
func (c *Config) Cols() responsive.Cols {
	return responsive.Cols(c.Responsive.Cols)
}

// EngineOptions returns engine options for the configured grid.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Grid:            c.GridConfig(),
		ContainerWidth:  c.Grid.ContainerWidth,
		ContainerHeight: c.Grid.ContainerHeight,
		Compactor:       c.Compactor(),
	}
}

// OpenCache opens the configured store backend. defaultDir is used by the
// file backend when store.dir is unset. The scope, when set, prefixes every
// key through the returned keyer.
func (c *Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Store.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Store.Scope+":")
	}

	var (
		cc  cache.Cache
		err error
	)
	switch c.Store.Backend {
	case BackendFile:
		dir := c.Store.Dir
		if dir == "" {
			dir = defaultDir
		}
		cc, err = cache.NewFileCache(dir)
	case BackendMemory:
		cc = cache.NewMemoryCache()
	case BackendRedis:
		cc, err = cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
		})
	case BackendMongo:
		cc, err = cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		})
	default:
		cc = cache.NewNullCache()
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", c.Store.Backend)
	}
	return cc, keyer, nil
}
