package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
)

func TestParseUsage(t *testing.T) {
	for _, s := range []string{"read-only", "read-write", "nonstrict-read-write", "transactional"} {
		u, err := ParseUsage(s)
		require.NoError(t, err)
		assert.Equal(t, s, u.String())
	}
	_, err := ParseUsage("write-behind")
	assert.ErrorIs(t, err, model.ErrInvalidAttribute)
}

func exerciseRegion(t *testing.T, r Region) {
	t.Helper()
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Put(ctx, "a", []byte(`{"id":1}`)))
	require.NoError(t, r.Put(ctx, "b", []byte(`{"id":2}`)))
	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got))

	require.NoError(t, r.Remove(ctx, "a"))
	_, err = r.Get(ctx, "a")
	require.ErrorIs(t, err, ErrMiss)
	require.NoError(t, r.Remove(ctx, "a"))

	require.NoError(t, r.Clear(ctx))
	_, err = r.Get(ctx, "b")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryRegion(t *testing.T) {
	p := NewMemoryProvider(0)
	r, err := p.BuildRegion("orders")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "orders", r.Name())
	exerciseRegion(t, r)

	t.Run("Expiry", func(t *testing.T) {
		p := &MemoryProvider{TTL: 20 * time.Millisecond}
		r, _ := p.BuildRegion("short")
		defer r.Close()
		ctx := context.Background()
		require.NoError(t, r.Put(ctx, "k", []byte("v")))
		_, err := r.Get(ctx, "k")
		require.NoError(t, err)
		time.Sleep(40 * time.Millisecond)
		_, err = r.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrMiss)
	})
}

func TestFileRegion(t *testing.T) {
	p := NewFileProvider(t.TempDir(), 0)
	r, err := p.BuildRegion("orders")
	require.NoError(t, err)
	exerciseRegion(t, r)

	t.Run("Expiry", func(t *testing.T) {
		p := NewFileProvider(t.TempDir(), 20*time.Millisecond)
		r, _ := p.BuildRegion("short")
		ctx := context.Background()
		require.NoError(t, r.Put(ctx, "k", []byte("v")))
		time.Sleep(40 * time.Millisecond)
		_, err := r.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrMiss)
	})

	_, err = (&FileProvider{}).BuildRegion("x")
	assert.Error(t, err)
}

func TestRedisRegion(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	p := NewRedisProvider(&redis.Options{Addr: addr}, time.Minute)
	p.Prefix = "jormap:test:"
	defer p.Close()
	require.NoError(t, p.Ping(context.Background()))

	r, err := p.BuildRegion("orders")
	require.NoError(t, err)
	exerciseRegion(t, r)
}

type flakyRegion struct {
	Region
	fail bool
}

func (f *flakyRegion) Get(ctx context.Context, key string) ([]byte, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.Region.Get(ctx, key)
}

func TestBreaker(t *testing.T) {
	mem, _ := NewMemoryProvider(0).BuildRegion("orders")
	flaky := &flakyRegion{Region: mem}
	b := NewBreaker(flaky, 2, 30*time.Millisecond)
	ctx := context.Background()

	// Misses do not trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := b.Get(ctx, "k")
		require.ErrorIs(t, err, ErrMiss)
	}
	assert.Equal(t, StateClosed, b.State())

	flaky.fail = true
	_, _ = b.Get(ctx, "k")
	_, _ = b.Get(ctx, "k")
	assert.Equal(t, StateOpen, b.State())
	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCircuitOpen)

	time.Sleep(40 * time.Millisecond)
	flaky.fail = false
	_, err = b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, StateClosed, b.State())
	require.NoError(t, b.Put(ctx, "k", []byte("v")))
}

func cachedEntity(name, usage, region string, mutable bool) *model.Entity {
	e := model.NewEntity()
	e.Name = name
	e.IsMutable = mutable
	e.CacheConcurrencyStrategy = usage
	e.CacheRegionName = region
	return e
}

func catalogOf(t *testing.T, entities ...*model.Entity) *model.Catalog {
	t.Helper()
	m := model.NewMappings()
	for _, e := range entities {
		e.Table = m.AddTable("", e.ShortName())
		require.NoError(t, m.AddClass(e))
	}
	return m.Freeze()
}

type order struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

func TestBuild(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.NewStdLogger()
	l.SetOutput(buf)

	catalog := catalogOf(t,
		cachedEntity("Shop.Order", "read-write", "", true),
		cachedEntity("Shop.Country", "read-only", "reference", true),
		cachedEntity("Shop.Currency", "read-only", "reference", false),
		cachedEntity("Shop.Audit", "", "", true),
	)
	m, err := Build(catalog, NewMemoryProvider(0), WithLogger(l), WithRegionPrefix("app."), WithBreaker(3, time.Second))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []string{"app.Shop.Order", "app.reference"}, m.Regions())
	_, ok := m.Entity("Shop.Audit")
	assert.False(t, ok)

	country, _ := m.Entity("Shop.Country")
	currency, _ := m.Entity("Shop.Currency")
	assert.Same(t, country.Region(), currency.Region())
	assert.IsType(t, &Breaker{}, country.Region())

	assert.Contains(t, buf.String(), "read-only cache configured for mutable entity Shop.Country")
	assert.NotContains(t, buf.String(), "Shop.Currency")

	ctx := context.Background()
	orders, _ := m.Entity("Shop.Order")
	require.NoError(t, orders.Put(ctx, 7, order{ID: 7, Code: "A-7"}))
	var got order
	hit, err := orders.Get(ctx, 7, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "A-7", got.Code)

	require.NoError(t, orders.Update(ctx, 7, order{ID: 7, Code: "B-7"}))
	require.NoError(t, orders.Evict(ctx, 7))
	hit, err = orders.Get(ctx, 7, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	// Entries of entities sharing a region do not collide.
	require.NoError(t, country.Put(ctx, 1, "NL"))
	hit, _ = currency.Get(ctx, 1, new(string))
	assert.False(t, hit)
	require.ErrorIs(t, country.Update(ctx, 1, "BE"), ErrReadOnly)
}

func TestBuildInvalidUsage(t *testing.T) {
	catalog := catalogOf(t, cachedEntity("Shop.Order", "write-behind", "", true))
	_, err := Build(catalog, NewMemoryProvider(0))
	require.ErrorIs(t, err, model.ErrInvalidAttribute)
	assert.Contains(t, err.Error(), "Shop.Order")
}
