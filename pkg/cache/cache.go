// Package cache provides byte-level key/value storage for layouts and
// derived artifacts.
//
// Backends:
//   - [NullCache]: stores nothing (caching disabled)
//   - [MemoryCache]: process-local map, for tests and single-process servers
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: shared storage via Redis
//   - [MongoCache]: shared storage via a MongoDB collection
//
// Keys are built by a [Keyer] so every caller agrees on the layout of the
// key space. Derived results (compacted layouts, rendered artifacts) are
// keyed by a content hash of their input; stored layouts are keyed by space
// and breakpoint.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs for derived entries. Stored layouts never expire.
const (
	TTLCompact  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// CompactKeyOpts are the settings that change a compaction result.
type CompactKeyOpts struct {
	Compactor        string `json:"compactor"`
	Cols             int    `json:"cols"`
	AllowOverlap     bool   `json:"allow_overlap,omitempty"`
	PreventCollision bool   `json:"prevent_collision,omitempty"`
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format         string     `json:"format"`
	Cols           int        `json:"cols"`
	ContainerWidth float64    `json:"container_width"`
	RowHeight      float64    `json:"row_height"`
	Margin         [2]float64 `json:"margin"`
	Padding        [2]float64 `json:"padding"`
	Scale          float64    `json:"scale,omitempty"`
	Title          string     `json:"title,omitempty"`
	GridLines      bool       `json:"grid_lines,omitempty"`
	NoLabels       bool       `json:"no_labels,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses the stored layout of one breakpoint in a space.
	LayoutKey(space, breakpoint string) string

	// CompactKey addresses a compaction result.
	CompactKey(layoutHash string, opts CompactKeyOpts) string

	// ArtifactKey addresses a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key layout:
//
//	layout:<space>:<breakpoint>
//	compact:<sha256(layoutHash, opts)>
//	artifact:<sha256(layoutHash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns layout:<space>:<breakpoint>.
func (DefaultKeyer) LayoutKey(space, breakpoint string) string {
	return fmt.Sprintf("layout:%s:%s", space, breakpoint)
}

// CompactKey hashes the layout hash together with the options.
func (DefaultKeyer) CompactKey(layoutHash string, opts CompactKeyOpts) string {
	return hashKey("compact", layoutHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
