package model

import (
	"reflect"
	"slices"
	"strings"
)

const (
	// DefaultIdentifierColumnName names the id column of an unnamed identifier.
	DefaultIdentifierColumnName = "id"
	// DefaultDiscriminatorColumnName names the discriminator column when none is given.
	DefaultDiscriminatorColumnName = "class"
)

// OptimisticLock selects how concurrent updates are detected.
type OptimisticLock int

const (
	OptimisticLockVersion OptimisticLock = iota
	OptimisticLockNone
	OptimisticLockDirty
	OptimisticLockAll
)

// KeyNamer names primary key constraints. Dialects implement it.
type KeyNamer interface {
	PrimaryKeyName(table string) string
}

// Entity is a root persistent class: a mapped type with its own table.
type Entity struct {
	Name           string
	EntityName     string
	MappedType     reflect.Type // nil for dynamic entities
	ProxyInterface string
	IsLazy         bool
	IsAbstract     bool

	DynamicUpdate      bool
	DynamicInsert      bool
	SelectBeforeUpdate bool
	BatchSize          int
	OptimisticLock     OptimisticLock

	Table                  *Table
	IsMutable              bool
	Where                  string
	IsExplicitPolymorphism bool

	Identifier            Value
	IdentifierProperty    *Property
	HasEmbeddedIdentifier bool

	Version *Property

	Discriminator             *SimpleValue
	DiscriminatorValue        string
	IsPolymorphic             bool
	IsForceDiscriminator      bool
	IsDiscriminatorInsertable bool

	CacheConcurrencyStrategy string
	CacheRegionName          string

	Properties []*Property
}

// NewEntity returns an entity with the defaults of an unmapped root class.
func NewEntity() *Entity {
	return &Entity{
		IsLazy:                    true,
		IsMutable:                 true,
		IsDiscriminatorInsertable: true,
		BatchSize:                 1,
	}
}

// ShortName returns the class name without its namespace.
func (e *Entity) ShortName() string {
	if i := strings.LastIndexByte(e.Name, '.'); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

// Key returns the name the entity is registered under.
func (e *Entity) Key() string {
	if e.EntityName != "" {
		return e.EntityName
	}
	return e.Name
}

// IsDynamic reports whether the entity has no Go type behind it.
func (e *Entity) IsDynamic() bool {
	return e.MappedType == nil
}

// HasIdentifierProperty reports whether the identifier is exposed as a property.
func (e *Entity) HasIdentifierProperty() bool {
	return e.IdentifierProperty != nil
}

// IsVersioned reports whether a version or timestamp property is mapped.
func (e *Entity) IsVersioned() bool {
	return e.Version != nil
}

// AddProperty appends p to the entity's properties.
func (e *Entity) AddProperty(p *Property) {
	e.Properties = append(e.Properties, p)
}

// Property returns the property with the given name, the identifier
// property included.
func (e *Entity) Property(name string) (*Property, bool) {
	if e.IdentifierProperty != nil && e.IdentifierProperty.Name == name {
		return e.IdentifierProperty, true
	}
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// CreatePrimaryKey derives the table's primary key from the identifier
// columns, in bind order. Calling it again with an unchanged identifier
// leaves the key untouched. A nil namer falls back to "pk_<table>".
func (e *Entity) CreatePrimaryKey(namer KeyNamer) {
	if e.Identifier == nil || e.Table == nil {
		return
	}
	cols := e.Identifier.Columns()
	if pk := e.Table.PrimaryKey; pk != nil && slices.Equal(pk.Columns, cols) {
		return
	}

	name := "pk_" + e.Table.Name
	if namer != nil {
		name = namer.PrimaryKeyName(e.Table.Name)
	}
	e.Table.PrimaryKey = &PrimaryKey{Name: name, Columns: cols}
}
