package model

import (
	"slices"
)

// AccessProperty is the default property accessor strategy.
const AccessProperty = "property"

type tableKey struct {
	schema string
	name   string
}

// Mappings accumulates tables and entities during one load pass. It is not
// safe for concurrent use; Freeze it into a Catalog once loading is done.
type Mappings struct {
	// Defaults applied by the binders. A mapping document may override the
	// first four for the classes it contains.
	SchemaName       string
	DefaultAccess    string
	DefaultLazy      bool
	DefaultNamespace string
	NamingStrategy   NamingStrategy

	tables     map[tableKey]*Table
	tableOrder []*Table
	classes    map[string]*Entity
	classOrder []*Entity
}

// NewMappings returns an empty registry with default settings.
func NewMappings() *Mappings {
	return &Mappings{
		DefaultAccess:  AccessProperty,
		DefaultLazy:    true,
		NamingStrategy: DefaultNamingStrategy{},
		tables:         make(map[tableKey]*Table),
		classes:        make(map[string]*Entity),
	}
}

// AddTable returns the table registered under (schema, name), creating it on
// first use.
func (m *Mappings) AddTable(schema, name string) *Table {
	key := tableKey{schema: schema, name: name}
	if t, ok := m.tables[key]; ok {
		return t
	}
	t := NewTable(schema, name)
	m.tables[key] = t
	m.tableOrder = append(m.tableOrder, t)
	return t
}

// Savepoint records the tables of m and their columns, check constraints
// and primary keys, so that a class which fails to bind can be undone.
type Savepoint struct {
	m      *Mappings
	tables int
	states []tableState
}

type tableState struct {
	columns int
	checks  int
	pk      *PrimaryKey
}

// Savepoint captures the current table state.
func (m *Mappings) Savepoint() *Savepoint {
	sp := &Savepoint{m: m, tables: len(m.tableOrder), states: make([]tableState, len(m.tableOrder))}
	for i, t := range m.tableOrder {
		sp.states[i] = tableState{columns: len(t.columns), checks: len(t.CheckConstraints), pk: t.PrimaryKey}
	}
	return sp
}

// Rollback drops tables created since the savepoint and restores the
// columns, check constraints and primary key of the others. Tables only
// grow during binding, so truncation is enough.
func (s *Savepoint) Rollback() {
	m := s.m
	for _, t := range m.tableOrder[s.tables:] {
		delete(m.tables, tableKey{schema: t.Schema, name: t.Name})
	}
	m.tableOrder = m.tableOrder[:s.tables]

	for i, t := range m.tableOrder {
		st := s.states[i]
		for _, c := range t.columns[st.columns:] {
			delete(t.columnMap, c.Name)
		}
		t.columns = t.columns[:st.columns]
		t.CheckConstraints = t.CheckConstraints[:st.checks]
		t.PrimaryKey = st.pk
	}
}

// AddClass registers a completely bound entity.
func (m *Mappings) AddClass(e *Entity) error {
	key := e.Key()
	if _, ok := m.classes[key]; ok {
		return Errorf(key, "class", ErrDuplicateMapping, "entity %s is already mapped", key)
	}
	m.classes[key] = e
	m.classOrder = append(m.classOrder, e)
	return nil
}

// Class returns the entity registered under name.
func (m *Mappings) Class(name string) (*Entity, bool) {
	e, ok := m.classes[name]
	return e, ok
}

// Freeze snapshots the registry into a read-only catalog. Later changes to
// the registry are not visible through the catalog.
func (m *Mappings) Freeze() *Catalog {
	c := &Catalog{
		entities: slices.Clone(m.classOrder),
		tables:   slices.Clone(m.tableOrder),
		byName:   make(map[string]*Entity, len(m.classes)),
	}
	for k, e := range m.classes {
		c.byName[k] = e
	}
	return c
}

// Catalog is the immutable result of a load pass. Its methods are safe for
// concurrent use; callers must not mutate the returned entities or tables.
type Catalog struct {
	entities []*Entity
	tables   []*Table
	byName   map[string]*Entity
}

// Entity returns the entity registered under name.
func (c *Catalog) Entity(name string) (*Entity, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Entities returns all entities in registration order.
func (c *Catalog) Entities() []*Entity {
	return slices.Clone(c.entities)
}

// Tables returns all tables in creation order.
func (c *Catalog) Tables() []*Table {
	return slices.Clone(c.tables)
}

// Table returns the table registered under (schema, name).
func (c *Catalog) Table(schema, name string) (*Table, bool) {
	for _, t := range c.tables {
		if t.Schema == schema && t.Name == name {
			return t, true
		}
	}
	return nil, false
}
