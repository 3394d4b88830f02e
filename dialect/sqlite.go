package dialect

import (
	"fmt"

	"github.com/shrek82/jormap/model"
)

// SQLite dialect implementation. Schemas map to attached databases; the
// main database is used when none is given.
type sqlite3 struct{}

func (d *sqlite3) Name() string { return "sqlite3" }

func (d *sqlite3) DataTypeOf(col *model.Column) (string, error) {
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
	case model.SQLInt16, model.SQLInt32, model.SQLInt64:
		return "integer", nil
	case model.SQLFloat, model.SQLDouble, model.SQLDecimal:
		return "real", nil
	case model.SQLString:
		return "text", nil
	case model.SQLDate, model.SQLDateTime, model.SQLTimestamp:
		return "datetime", nil
	case model.SQLBinary:
		return "blob", nil
	}
	return "", unsupported(col)
}

func (d *sqlite3) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *sqlite3) PrimaryKeyName(table string) string {
	return keyName(table, 0)
}

func (d *sqlite3) HasTableSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "main"
	}
	return fmt.Sprintf("SELECT count(*) FROM %s.sqlite_master WHERE type='table' AND name = ?", d.Quote(schema)), []any{table}
}

func (d *sqlite3) GetColumnsSQL(schema, table string) (string, []any) {
	if schema == "" {
		schema = "main"
	}
	return "SELECT name FROM pragma_table_info(?, ?)", []any{table, schema}
}
