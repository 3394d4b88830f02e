package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
)

// EntityCache caches instances of one entity by identifier.
type EntityCache struct {
	Entity string
	Usage  Usage
	region Region
}

// Region returns the region entries are stored in.
func (c *EntityCache) Region() Region {
	return c.region
}

func (c *EntityCache) key(id any) string {
	return c.Entity + "#" + fmt.Sprint(id)
}

// Get decodes the cached instance with id into dest. It reports false on a
// miss.
func (c *EntityCache) Get(ctx context.Context, id any, dest any) (bool, error) {
	data, err := c.region.Get(ctx, c.key(id))
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding cached %s: %w", c.key(id), err)
	}
	return true, nil
}

// Put caches a freshly loaded or inserted instance.
func (c *EntityCache) Put(ctx context.Context, id any, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.region.Put(ctx, c.key(id), data)
}

// Update replaces a cached instance after it changed. Read-only caches
// reject it.
func (c *EntityCache) Update(ctx context.Context, id any, value any) error {
	if c.Usage == UsageReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.Entity)
	}
	return c.Put(ctx, id, value)
}

// Evict drops the cached instance with id.
func (c *EntityCache) Evict(ctx context.Context, id any) error {
	return c.region.Remove(ctx, c.key(id))
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithRegionPrefix prefixes every region name.
func WithRegionPrefix(prefix string) Option {
	return func(m *Manager) { m.prefix = prefix }
}

// WithBreaker wraps every region in a circuit breaker.
func WithBreaker(threshold int, resetTimeout time.Duration) Option {
	return func(m *Manager) {
		m.breakerThreshold = threshold
		m.breakerReset = resetTimeout
	}
}

// Manager owns the regions and entity caches built from a catalog.
type Manager struct {
	provider Provider
	log      logger.Logger
	prefix   string

	breakerThreshold int
	breakerReset     time.Duration

	regions  map[string]Region
	entities map[string]*EntityCache
}

// Build creates an entity cache for every entity of catalog that declares a
// cache policy. Entities sharing a region name share the region. The region
// name defaults to the entity name.
func Build(catalog *model.Catalog, provider Provider, opts ...Option) (*Manager, error) {
	m := &Manager{
		provider: provider,
		log:      logger.Discard(),
		regions:  make(map[string]Region),
		entities: make(map[string]*EntityCache),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, e := range catalog.Entities() {
		if e.CacheConcurrencyStrategy == "" {
			continue
		}
		usage, err := ParseUsage(e.CacheConcurrencyStrategy)
		if err != nil {
			_ = m.Close()
			return nil, &model.MappingError{Entity: e.Key(), Element: "cache", Err: err}
		}
		if usage == UsageReadOnly && e.IsMutable {
			m.log.Warn("read-only cache configured for mutable entity %s", e.Key())
		}

		name := e.CacheRegionName
		if name == "" {
			name = e.Key()
		}
		region, err := m.region(m.prefix + name)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.entities[e.Key()] = &EntityCache{Entity: e.Key(), Usage: usage, region: region}
		m.log.Debug("Cache %s: %s in region %s", e.Key(), usage, region.Name())
	}
	return m, nil
}

func (m *Manager) region(name string) (Region, error) {
	if r, ok := m.regions[name]; ok {
		return r, nil
	}
	r, err := m.provider.BuildRegion(name)
	if err != nil {
		return nil, fmt.Errorf("building cache region %s: %w", name, err)
	}
	if m.breakerThreshold > 0 {
		r = NewBreaker(r, m.breakerThreshold, m.breakerReset)
	}
	m.regions[name] = r
	return r, nil
}

// Entity returns the cache of the named entity.
func (m *Manager) Entity(name string) (*EntityCache, bool) {
	c, ok := m.entities[name]
	return c, ok
}

// Entities returns the names of the cached entities, sorted.
func (m *Manager) Entities() []string {
	names := make([]string, 0, len(m.entities))
	for name := range m.entities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Regions returns the region names, sorted.
func (m *Manager) Regions() []string {
	names := make([]string, 0, len(m.regions))
	for name := range m.regions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close closes every region and the provider.
func (m *Manager) Close() error {
	var errs []error
	for _, r := range m.regions {
		errs = append(errs, r.Close())
	}
	errs = append(errs, m.provider.Close())
	return errors.Join(errs...)
}
