package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryProvider keeps regions in process memory. A zero TTL never expires
// entries.
type MemoryProvider struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// NewMemoryProvider returns a provider with the given entry TTL.
func NewMemoryProvider(ttl time.Duration) *MemoryProvider {
	return &MemoryProvider{TTL: ttl, CleanupInterval: time.Minute}
}

func (p *MemoryProvider) BuildRegion(name string) (Region, error) {
	r := &memoryRegion{
		name:      name,
		ttl:       p.TTL,
		items:     make(map[string]memoryEntry),
		stopClean: make(chan struct{}),
	}
	if p.TTL > 0 && p.CleanupInterval > 0 {
		go r.cleanupLoop(p.CleanupInterval)
	}
	return r, nil
}

func (p *MemoryProvider) Close() error {
	return nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryRegion struct {
	name      string
	ttl       time.Duration
	mu        sync.RWMutex
	items     map[string]memoryEntry
	stopClean chan struct{}
	closeOnce sync.Once
}

func (r *memoryRegion) Name() string {
	return r.name
}

func (r *memoryRegion) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopClean:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *memoryRegion) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, v := range r.items {
		if v.expired(now) {
			delete(r.items, k)
		}
	}
}

func (r *memoryRegion) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	entry, found := r.items[key]
	r.mu.RUnlock()

	if !found {
		return nil, ErrMiss
	}
	if entry.expired(time.Now()) {
		r.mu.Lock()
		delete(r.items, key)
		r.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.data, nil
}

func (r *memoryRegion) Put(_ context.Context, key string, value []byte) error {
	entry := memoryEntry{data: append([]byte(nil), value...)}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}
	r.mu.Lock()
	r.items[key] = entry
	r.mu.Unlock()
	return nil
}

func (r *memoryRegion) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.items, key)
	r.mu.Unlock()
	return nil
}

func (r *memoryRegion) Clear(context.Context) error {
	r.mu.Lock()
	r.items = make(map[string]memoryEntry)
	r.mu.Unlock()
	return nil
}

func (r *memoryRegion) Close() error {
	r.closeOnce.Do(func() { close(r.stopClean) })
	return nil
}
