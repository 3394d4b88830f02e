package model

import (
	"reflect"
	"slices"
)

// Value is anything a property can hold: a single scalar or a component.
type Value interface {
	Table() *Table
	Columns() []*Column
	Type() *ScalarType
	IsSimple() bool
}

// Generator strategy names understood by the identifier generators.
const (
	GeneratorAssigned = "assigned"
)

// SimpleValue is a scalar value mapped to one or more columns of a table.
type SimpleValue struct {
	ScalarType *ScalarType
	TypeName   string            // Type name as written in the descriptor
	TypeParams map[string]string // <param> children of a <type> element

	IdentifierGeneratorStrategy string
	IdentifierGeneratorParams   map[string]string

	// NullValue is the unsaved-value sentinel: the property value that marks
	// an instance as transient rather than persistent.
	NullValue string

	table   *Table
	columns []*Column
}

// NewSimpleValue creates a value bound to table.
func NewSimpleValue(table *Table) *SimpleValue {
	return &SimpleValue{table: table}
}

func (v *SimpleValue) Table() *Table      { return v.table }
func (v *SimpleValue) Type() *ScalarType  { return v.ScalarType }
func (v *SimpleValue) IsSimple() bool     { return true }
func (v *SimpleValue) Columns() []*Column { return slices.Clone(v.columns) }

// AddColumn registers col with the table and the value. A column already
// present in the table under the same name is reused.
func (v *SimpleValue) AddColumn(col *Column) *Column {
	if col.Value == nil {
		col.Value = v
	}
	if v.table != nil {
		col = v.table.AddColumn(col)
	}
	v.columns = append(v.columns, col)
	return col
}

// Component is a composite value: several properties mapped onto columns of
// the owner's table and materialized as one Go value.
type Component struct {
	ComponentType  reflect.Type // nil for dynamic components
	IsEmbedded     bool         // The owning entity type doubles as the component type
	RoleName       string
	ParentProperty string
	UnsavedValue   string // unsaved-value of a composite identifier
	Properties     []*Property

	owner *Entity
	table *Table
}

// NewComponent creates a component owned by entity and stored in its table.
func NewComponent(owner *Entity) *Component {
	return &Component{owner: owner, table: owner.Table}
}

func (c *Component) Owner() *Entity     { return c.owner }
func (c *Component) Table() *Table      { return c.table }
func (c *Component) Type() *ScalarType  { return nil }
func (c *Component) IsSimple() bool     { return false }

// Columns returns the columns of every property, in property order.
func (c *Component) Columns() []*Column {
	var cols []*Column
	for _, p := range c.Properties {
		cols = append(cols, p.Value.Columns()...)
	}
	return cols
}

// AddProperty appends p to the component.
func (c *Component) AddProperty(p *Property) {
	c.Properties = append(c.Properties, p)
}

// TypeName returns the component type name for messages.
func (c *Component) TypeName() string {
	if c.ComponentType == nil {
		return "<dynamic>"
	}
	if c.ComponentType.PkgPath() == "" {
		return c.ComponentType.String()
	}
	return c.ComponentType.PkgPath() + "." + c.ComponentType.Name()
}
