package dialect

import (
	"fmt"

	"github.com/shrek82/jormap/model"
)

// SQL Server dialect implementation. No driver ships with this module; the
// dialect serves type names and key naming for mappings that target it.
type sqlserver struct{}

func (d *sqlserver) Name() string { return "sqlserver" }

func (d *sqlserver) DataTypeOf(col *model.Column) (string, error) {
	if col.SQLType != "" {
		return col.SQLType, nil
	}
	t := col.EffectiveType()
	if t == nil {
		return "", unsupported(col)
	}

	switch t.Kind {
	case model.SQLBoolean:
		return "bit", nil
	case model.SQLInt16:
		return "smallint", nil
	case model.SQLInt32:
		return "int", nil
	case model.SQLInt64:
		return "bigint", nil
	case model.SQLFloat:
		return "real", nil
	case model.SQLDouble:
		return "float", nil
	case model.SQLDecimal:
		return "decimal(19,5)", nil
	case model.SQLString:
		return varchar("nvarchar", col), nil
	case model.SQLDate:
		return "date", nil
	case model.SQLDateTime:
		return "datetime2", nil
	case model.SQLTimestamp:
		// rowversion is binary; a timestamp version column is a datetime here
		return "datetime2", nil
	case model.SQLBinary:
		return "varbinary(max)", nil
	}
	return "", unsupported(col)
}

func (d *sqlserver) Quote(name string) string {
	return fmt.Sprintf("[%s]", name)
}

func (d *sqlserver) PrimaryKeyName(table string) string {
	return keyName(table, 128)
}

func (d *sqlserver) HasTableSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "dbo"
	}
	return "SELECT count(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2", []any{schema, table}
}

func (d *sqlserver) GetColumnsSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "dbo"
	}
	return "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2", []any{schema, table}
}
