package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shrek82/jormap/cache"
	"github.com/shrek82/jormap/model"
)

type entityListItem struct {
	Name      string `json:"name"`
	Table     string `json:"table"`
	Dynamic   bool   `json:"dynamic,omitempty"`
	Versioned bool   `json:"versioned,omitempty"`
}

func EntityListHandler(catalog *model.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		entities := catalog.Entities()
		out := make([]entityListItem, 0, len(entities))
		for _, e := range entities {
			out = append(out, entityListItem{
				Name:      e.Key(),
				Table:     e.Table.QualifiedName(),
				Dynamic:   e.IsDynamic(),
				Versioned: e.IsVersioned(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

type metaColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Nullable bool   `json:"nullable"`
	Length   int    `json:"length,omitempty"`
}

type metaProperty struct {
	Name       string         `json:"name"`
	Type       string         `json:"type,omitempty"`
	Component  string         `json:"component,omitempty"`
	Columns    []metaColumn   `json:"columns"`
	Generation string         `json:"generation,omitempty"`
	Insertable bool           `json:"insertable"`
	Updateable bool           `json:"updateable"`
	Properties []metaProperty `json:"properties,omitempty"`
}

type metaIdentifier struct {
	Property   string            `json:"property,omitempty"`
	Composite  bool              `json:"composite"`
	Embedded   bool              `json:"embedded,omitempty"`
	Columns    []metaColumn      `json:"columns"`
	Generator  string            `json:"generator,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type metaCache struct {
	Usage  string `json:"usage"`
	Region string `json:"region,omitempty"`
}

type metaEntity struct {
	Name                 string         `json:"name"`
	Table                string         `json:"table"`
	Mutable              bool           `json:"mutable"`
	Lazy                 bool           `json:"lazy"`
	Where                string         `json:"where,omitempty"`
	ExplicitPolymorphism bool           `json:"explicitPolymorphism,omitempty"`
	Identifier           metaIdentifier `json:"identifier"`
	PrimaryKey           []string       `json:"primaryKey"`
	Version              string         `json:"version,omitempty"`
	Discriminator        *metaColumn    `json:"discriminator,omitempty"`
	DiscriminatorValue   string         `json:"discriminatorValue,omitempty"`
	Cache                *metaCache     `json:"cache,omitempty"`
	Properties           []metaProperty `json:"properties"`
	Checks               []string       `json:"checks,omitempty"`
}

func EntityHandler(catalog *model.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := catalog.Entity(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}
		c.JSON(http.StatusOK, describeEntity(e))
	}
}

func describeEntity(e *model.Entity) metaEntity {
	out := metaEntity{
		Name:                 e.Key(),
		Table:                e.Table.QualifiedName(),
		Mutable:              e.IsMutable,
		Lazy:                 e.IsLazy,
		Where:                e.Where,
		ExplicitPolymorphism: e.IsExplicitPolymorphism,
		Properties:           make([]metaProperty, 0, len(e.Properties)),
		Checks:               e.Table.CheckConstraints,
	}

	out.Identifier.Columns = describeColumns(e.Identifier.Columns())
	if e.HasIdentifierProperty() {
		out.Identifier.Property = e.IdentifierProperty.Name
	}
	switch id := e.Identifier.(type) {
	case *model.SimpleValue:
		out.Identifier.Generator = id.IdentifierGeneratorStrategy
		out.Identifier.Parameters = id.IdentifierGeneratorParams
	case *model.Component:
		out.Identifier.Composite = true
		out.Identifier.Embedded = id.IsEmbedded
	}
	if pk := e.Table.PrimaryKey; pk != nil {
		out.PrimaryKey = pk.ColumnNames()
	}

	if e.IsVersioned() {
		out.Version = e.Version.Name
	}
	if e.Discriminator != nil {
		if cols := describeColumns(e.Discriminator.Columns()); len(cols) > 0 {
			out.Discriminator = &cols[0]
		}
		out.DiscriminatorValue = e.DiscriminatorValue
	}
	if e.CacheConcurrencyStrategy != "" {
		out.Cache = &metaCache{Usage: e.CacheConcurrencyStrategy, Region: e.CacheRegionName}
	}
	for _, p := range e.Properties {
		out.Properties = append(out.Properties, describeProperty(p))
	}
	return out
}

func describeProperty(p *model.Property) metaProperty {
	out := metaProperty{
		Name:       p.Name,
		Columns:    describeColumns(p.Value.Columns()),
		Insertable: p.Insertable,
		Updateable: p.Updateable,
	}
	if p.Generation != model.GenerationNever {
		out.Generation = p.Generation.String()
	}
	if t := p.Type(); t != nil {
		out.Type = t.Name
	}
	if comp, ok := p.Value.(*model.Component); ok {
		out.Component = comp.TypeName()
		for _, sub := range comp.Properties {
			out.Properties = append(out.Properties, describeProperty(sub))
		}
	}
	return out
}

func describeColumns(cols []*model.Column) []metaColumn {
	out := make([]metaColumn, 0, len(cols))
	for _, col := range cols {
		mc := metaColumn{Name: col.Name, Nullable: col.Nullable, Length: col.Length}
		if t := col.EffectiveType(); t != nil {
			mc.Type = t.Name
		}
		out = append(out, mc)
	}
	return out
}

type metaTable struct {
	Schema     string       `json:"schema,omitempty"`
	Name       string       `json:"name"`
	PrimaryKey []string     `json:"primaryKey,omitempty"`
	Columns    []metaColumn `json:"columns"`
}

func TableListHandler(catalog *model.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables := catalog.Tables()
		out := make([]metaTable, 0, len(tables))
		for _, t := range tables {
			mt := metaTable{Schema: t.Schema, Name: t.Name, Columns: describeColumns(t.Columns())}
			if t.PrimaryKey != nil {
				mt.PrimaryKey = t.PrimaryKey.ColumnNames()
			}
			out = append(out, mt)
		}
		c.JSON(http.StatusOK, out)
	}
}

type metaCacheEntity struct {
	Entity string `json:"entity"`
	Usage  string `json:"usage"`
	Region string `json:"region"`
}

func CacheHandler(caches *cache.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if caches == nil {
			c.JSON(http.StatusOK, gin.H{"regions": []string{}, "entities": []metaCacheEntity{}})
			return
		}
		entities := make([]metaCacheEntity, 0)
		for _, name := range caches.Entities() {
			ec, _ := caches.Entity(name)
			entities = append(entities, metaCacheEntity{Entity: name, Usage: ec.Usage.String(), Region: ec.Region().Name()})
		}
		c.JSON(http.StatusOK, gin.H{"regions": caches.Regions(), "entities": entities})
	}
}
