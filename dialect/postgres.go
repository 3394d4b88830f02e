package dialect

import (
	"fmt"

	"github.com/shrek82/jormap/model"
)

// PostgreSQL dialect implementation
type postgres struct{}

func (d *postgres) Name() string { return "postgres" }

func (d *postgres) DataTypeOf(col *model.Column) (string, error) {
	if col.SQLType != "" {
		return col.SQLType, nil
	}
	t := col.EffectiveType()
	if t == nil {
		return "", unsupported(col)
	}

	switch t.Kind {
	case model.SQLBoolean:
		return "boolean", nil
	case model.SQLInt16:
		return "smallint", nil
	case model.SQLInt32:
		return "integer", nil
	case model.SQLInt64:
		return "bigint", nil
	case model.SQLFloat:
		return "real", nil
	case model.SQLDouble:
		return "double precision", nil
	case model.SQLDecimal:
		return "numeric(19,5)", nil
	case model.SQLString:
		return varchar("varchar", col), nil
	case model.SQLDate:
		return "date", nil
	case model.SQLDateTime, model.SQLTimestamp:
		return "timestamp with time zone", nil
	case model.SQLBinary:
		return "bytea", nil
	}
	return "", unsupported(col)
}

func (d *postgres) Quote(name string) string {
	// PostgreSQL uses double quotes for identifiers
	return fmt.Sprintf(`"%s"`, name)
}

func (d *postgres) PrimaryKeyName(table string) string {
	return keyName(table, 63)
}

func (d *postgres) HasTableSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "public"
	}
	return "SELECT count(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2", []any{schema, table}
}

func (d *postgres) GetColumnsSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "public"
	}
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2", []any{schema, table}
}
