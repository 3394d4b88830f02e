package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/jormap/binder"
	"github.com/shrek82/jormap/cache"
	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
	"github.com/shrek82/jormap/reflection"
)

type Order struct {
	Id      int64
	Code    string
	Version int
}

const orderMapping = `<mapping xmlns="urn:jormap-mapping-1.0" schema="sales">
  <class name="Shop.Order" table="orders" where="deleted = 0">
    <id name="Id" column="order_id"><generator class="increment"/></id>
    <discriminator column="kind"/>
    <version name="Version"/>
    <cache usage="read-write" region="orders"/>
    <property name="Code" length="20"/>
  </class>
</mapping>`

func testCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	root, err := descriptor.ParseString(orderMapping)
	require.NoError(t, err)

	reg := reflection.NewRegistry()
	reg.Register("Shop.Order", Order{})
	m := model.NewMappings()
	require.NoError(t, binder.NewMappingRootBinder(binder.New(m, reflection.NewResolver(reg))).Bind(root))
	return m.Freeze()
}

func get(t *testing.T, r http.Handler, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestMetaEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := testCatalog(t)
	caches, err := cache.Build(catalog, cache.NewMemoryProvider(0))
	require.NoError(t, err)
	defer caches.Close()
	r := NewRouter(catalog, caches)

	t.Run("Entities", func(t *testing.T) {
		var list []entityListItem
		require.Equal(t, http.StatusOK, get(t, r, "/api/meta/entities", &list))
		require.Len(t, list, 1)
		assert.Equal(t, entityListItem{Name: "Shop.Order", Table: "sales.orders", Versioned: true}, list[0])
	})

	t.Run("Entity", func(t *testing.T) {
		var e metaEntity
		require.Equal(t, http.StatusOK, get(t, r, "/api/meta/entities/Shop.Order", &e))
		assert.Equal(t, "deleted = 0", e.Where)
		assert.Equal(t, "Id", e.Identifier.Property)
		assert.Equal(t, "increment", e.Identifier.Generator)
		assert.Equal(t, []string{"order_id"}, e.PrimaryKey)
		assert.Equal(t, "Version", e.Version)
		require.NotNil(t, e.Discriminator)
		assert.Equal(t, "kind", e.Discriminator.Name)
		assert.Equal(t, "String", e.Discriminator.Type)
		require.NotNil(t, e.Cache)
		assert.Equal(t, "orders", e.Cache.Region)
		require.Len(t, e.Properties, 2)
		assert.Equal(t, "Int32", e.Properties[0].Type)
		assert.Equal(t, 20, e.Properties[1].Columns[0].Length)
	})

	t.Run("UnknownEntity", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, r, "/api/meta/entities/Shop.Refund", nil))
	})

	t.Run("Tables", func(t *testing.T) {
		var tables []metaTable
		require.Equal(t, http.StatusOK, get(t, r, "/api/meta/tables", &tables))
		require.Len(t, tables, 1)
		assert.Equal(t, "sales", tables[0].Schema)
		assert.Len(t, tables[0].Columns, 4)
	})

	t.Run("Cache", func(t *testing.T) {
		var out struct {
			Regions  []string          `json:"regions"`
			Entities []metaCacheEntity `json:"entities"`
		}
		require.Equal(t, http.StatusOK, get(t, r, "/api/meta/cache", &out))
		assert.Equal(t, []string{"orders"}, out.Regions)
		assert.Equal(t, []metaCacheEntity{{Entity: "Shop.Order", Usage: "read-write", Region: "orders"}}, out.Entities)

		var empty struct {
			Regions []string `json:"regions"`
		}
		require.Equal(t, http.StatusOK, get(t, NewRouter(catalog, nil), "/api/meta/cache", &empty))
		assert.Empty(t, empty.Regions)
	})
}
