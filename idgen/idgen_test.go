package idgen

import (
	"context"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/jormap/model"
)

func entity(typ *model.ScalarType, strategy string, params map[string]string) *model.Entity {
	e := model.NewEntity()
	e.Name = "Shop.Order"
	e.Table = model.NewTable("", "orders")
	id := model.NewSimpleValue(e.Table)
	id.ScalarType = typ
	id.IdentifierGeneratorStrategy = strategy
	id.IdentifierGeneratorParams = params
	e.Identifier = id
	return e
}

func TestStrategies(t *testing.T) {
	assert.Equal(t, []string{"assigned", "identity", "increment", "native", "sequence", "ulid"}, Strategies())
}

func TestAssignedAndPostInsert(t *testing.T) {
	ctx := context.Background()

	g, err := New(entity(model.Int64, "", nil))
	require.NoError(t, err)
	assert.Equal(t, "assigned", g.Strategy())
	_, err = g.Generate(ctx)
	assert.ErrorIs(t, err, ErrAssigned)

	for _, s := range []string{"native", "identity", "sequence"} {
		g, err := New(entity(model.Int64, s, nil))
		require.NoError(t, err)
		_, err = g.Generate(ctx)
		assert.ErrorIs(t, err, ErrPostInsert, s)
	}

	e := model.NewEntity()
	e.Table = model.NewTable("", "lines")
	e.Identifier = model.NewComponent(e)
	g, err = New(e)
	require.NoError(t, err)
	assert.Equal(t, "assigned", g.Strategy())
}

func TestIncrement(t *testing.T) {
	g, err := New(entity(model.Int64, "increment", map[string]string{"initial_value": "100"}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := g.Generate(context.Background())
			if assert.NoError(t, err) {
				_, dup := seen.LoadOrStore(v, true)
				assert.False(t, dup, "duplicate id %v", v)
			}
		}()
	}
	wg.Wait()

	v, _ := g.Generate(context.Background())
	assert.Equal(t, int64(150), v)

	g.(*Increment).Seed(999)
	v, _ = g.Generate(context.Background())
	assert.Equal(t, int64(1000), v)

	_, err = New(entity(model.String, "increment", nil))
	assert.ErrorIs(t, err, model.ErrInvalidAttribute)
	_, err = New(entity(model.Int64, "increment", map[string]string{"initial_value": "x"}))
	assert.ErrorIs(t, err, model.ErrInvalidAttribute)
}

func TestULID(t *testing.T) {
	g, err := New(entity(model.String, "ulid", nil))
	require.NoError(t, err)

	a, err := g.Generate(context.Background())
	require.NoError(t, err)
	b, _ := g.Generate(context.Background())
	_, err = ulid.ParseStrict(a.(string))
	require.NoError(t, err)
	assert.Less(t, a.(string), b.(string))

	_, err = New(entity(model.Int64, "ulid", nil))
	assert.ErrorIs(t, err, model.ErrInvalidAttribute)
}

func TestUnknownStrategy(t *testing.T) {
	_, err := New(entity(model.Int64, "hilo", nil))
	require.ErrorIs(t, err, model.ErrUnknownGenerator)
	assert.Contains(t, err.Error(), "Shop.Order")
}
