package model

import "slices"

// Column is a single column of a table.
type Column struct {
	Name     string
	Type     *ScalarType // Explicit column type; nil means "same as the owning value"
	SQLType  string      // Verbatim sql-type override
	Length   int
	Nullable bool
	Unique   bool
	Check    string
	Value    Value // Value the column was first bound to
}

// EffectiveType returns the column type, falling back to the owning value's type.
func (c *Column) EffectiveType() *ScalarType {
	if c.Type != nil {
		return c.Type
	}
	if c.Value != nil {
		return c.Value.Type()
	}
	return nil
}

// PrimaryKey is the primary key constraint of a table.
type PrimaryKey struct {
	Name    string
	Columns []*Column
}

// ColumnNames returns the key column names in key order.
func (pk *PrimaryKey) ColumnNames() []string {
	names := make([]string, len(pk.Columns))
	for i, c := range pk.Columns {
		names[i] = c.Name
	}
	return names
}

// Table is the backing relation of one or more mapped values.
type Table struct {
	Schema           string
	Name             string
	CheckConstraints []string
	PrimaryKey       *PrimaryKey

	columns   []*Column
	columnMap map[string]*Column
}

// NewTable creates an empty table.
func NewTable(schema, name string) *Table {
	return &Table{
		Schema:    schema,
		Name:      name,
		columnMap: make(map[string]*Column),
	}
}

// QualifiedName returns "schema.name", or the bare name without a schema.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// AddColumn adds col unless a column with the same name exists, and returns
// the column the table holds under that name.
func (t *Table) AddColumn(col *Column) *Column {
	if existing, ok := t.columnMap[col.Name]; ok {
		return existing
	}
	t.columns = append(t.columns, col)
	t.columnMap[col.Name] = col
	return col
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columnMap[name]
	return c, ok
}

// Columns returns the columns in the order they were added.
func (t *Table) Columns() []*Column {
	return slices.Clone(t.columns)
}

// AddCheckConstraint appends a verbatim SQL check expression.
func (t *Table) AddCheckConstraint(sql string) {
	t.CheckConstraints = append(t.CheckConstraints, sql)
}
