package dialect

import (
	"fmt"

	"github.com/shrek82/jormap/model"
)

// MySQL dialect implementation
type mysql struct{}

func (d *mysql) Name() string { return "mysql" }

func (d *mysql) DataTypeOf(col *model.Column) (string, error) {
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
		return "int", nil
	case model.SQLInt64:
		return "bigint", nil
	case model.SQLFloat:
		return "float", nil
	case model.SQLDouble:
		return "double", nil
	case model.SQLDecimal:
		return "decimal(19,5)", nil
	case model.SQLString:
		return varchar("varchar", col), nil
	case model.SQLDate:
		return "date", nil
	case model.SQLDateTime:
		return "datetime", nil
	case model.SQLTimestamp:
		return "timestamp", nil
	case model.SQLBinary:
		return "longblob", nil
	}
	return "", unsupported(col)
}

func (d *mysql) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

// PrimaryKeyName returns the constraint name. MySQL always calls the key
// PRIMARY in its catalog; the name only matters to tooling.
func (d *mysql) PrimaryKeyName(table string) string {
	return keyName(table, 64)
}

func (d *mysql) HasTableSQL(schema, table string) (string, []any) {
	if schema == "" {
		return "SELECT count(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", []any{table}
	}
	return "SELECT count(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", []any{schema, table}
}

func (d *mysql) GetColumnsSQL(schema, table string) (string, []any) {
	if schema == "" {
		return "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?", []any{table}
	}
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = ? AND table_name = ?", []any{schema, table}
}
