package dialect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shrek82/jormap/model"
)

// ErrUnsupportedType is returned when a dialect has no column type for a
// scalar type.
var ErrUnsupportedType = errors.New("unsupported column type")

// Dialect represents the database-specific parts of the mapping layer:
// constraint naming, column type names and the catalog queries schema
// validation runs.
type Dialect interface {
	// Name returns the driver name the dialect is registered under
	Name() string
	// Quote wraps a name (table or column) in database-specific quotes
	Quote(name string) string
	// DataTypeOf returns the column type for a bound column
	DataTypeOf(col *model.Column) (string, error)
	// PrimaryKeyName names the primary key constraint of a table
	PrimaryKeyName(table string) string
	// HasTableSQL generates the SQL to check if a table exists
	HasTableSQL(schema, table string) (string, []any)
	// GetColumnsSQL generates the SQL listing the column names of a table
	GetColumnsSQL(schema, table string) (string, []any)
}

var dialects = make(map[string]Dialect)

func init() {
	Register("mysql", &mysql{})
	Register("postgres", &postgres{})
	Register("sqlite3", &sqlite3{})
	Register("sqlserver", &sqlserver{})
}

// Register registers a new dialect for a given driver name
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// Names returns the registered driver names, sorted.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for n := range dialects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// keyName builds "pk_<table>" and cuts it to the dialect's identifier limit.
func keyName(table string, limit int) string {
	name := "pk_" + table
	if limit > 0 && len(name) > limit {
		name = name[:limit]
	}
	return name
}

func unsupported(col *model.Column) error {
	return fmt.Errorf("%w: column %s has type %s", ErrUnsupportedType, col.Name, col.EffectiveType())
}

func varchar(prefix string, col *model.Column) string {
	n := col.Length
	if n <= 0 {
		n = 255
	}
	return fmt.Sprintf("%s(%d)", prefix, n)
}
