// Package cache provides second-level cache regions and assembles per-entity
// caches from the cache policies bound in a catalog.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrek82/jormap/model"
)

var (
	// ErrMiss is returned by Region.Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
	// ErrReadOnly is returned when updating an entry of a read-only entity cache.
	ErrReadOnly = errors.New("cache is read-only")
)

// Usage is the concurrency strategy of an entity cache.
type Usage int

const (
	UsageReadOnly Usage = iota
	UsageReadWrite
	UsageNonstrictReadWrite
	UsageTransactional
)

var usageNames = map[string]Usage{
	"read-only":            UsageReadOnly,
	"read-write":           UsageReadWrite,
	"nonstrict-read-write": UsageNonstrictReadWrite,
	"transactional":        UsageTransactional,
}

// ParseUsage parses the usage attribute of a <cache> element.
func ParseUsage(s string) (Usage, error) {
	if u, ok := usageNames[s]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: cache usage %q", model.ErrInvalidAttribute, s)
}

func (u Usage) String() string {
	for name, v := range usageNames {
		if v == u {
			return name
		}
	}
	return "unknown"
}

// Region is a named key space of cached entries.
type Region interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Provider builds regions on one backing store.
type Provider interface {
	BuildRegion(name string) (Region, error)
	Close() error
}
