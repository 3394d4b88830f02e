// Package api serves read-only metadata about a bound catalog over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/shrek82/jormap/cache"
	"github.com/shrek82/jormap/model"
)

// NewRouter returns the metadata routes for catalog. caches may be nil.
func NewRouter(catalog *model.Catalog, caches *cache.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	meta := r.Group("/api/meta")
	{
		meta.GET("/entities", EntityListHandler(catalog))
		meta.GET("/entities/:name", EntityHandler(catalog))
		meta.GET("/tables", TableListHandler(catalog))
		meta.GET("/cache", CacheHandler(caches))
	}
	return r
}

// RunServer serves the metadata routes on addr until the server fails.
func RunServer(addr string, catalog *model.Catalog, caches *cache.Manager) error {
	return NewRouter(catalog, caches).Run(addr)
}
