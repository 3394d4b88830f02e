package dialect

import (
	"errors"
	"strings"
	"testing"

	"github.com/shrek82/jormap/model"
)

func TestRegisteredDialects(t *testing.T) {
	want := []string{"mysql", "postgres", "sqlite3", "sqlserver"}
	got := Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected dialects %v, got %v", want, got)
	}
	for _, name := range want {
		d, ok := Get(name)
		if !ok {
			t.Fatalf("%s dialect not registered", name)
		}
		if d.Name() != name {
			t.Errorf("Expected dialect name %s, got %s", name, d.Name())
		}
	}
}

func TestDataTypeOf(t *testing.T) {
	tbl := model.NewTable("", "orders")
	code := model.NewSimpleValue(tbl)
	code.ScalarType = model.String
	codeCol := code.AddColumn(&model.Column{Name: "code", Length: 40})

	version := model.NewSimpleValue(tbl)
	version.ScalarType = model.Timestamp
	versionCol := version.AddColumn(&model.Column{Name: "updated_at"})

	cases := []struct {
		dialect string
		col     *model.Column
		want    string
	}{
		{"postgres", codeCol, "varchar(40)"},
		{"mysql", codeCol, "varchar(40)"},
		{"sqlite3", codeCol, "text"},
		{"sqlserver", codeCol, "nvarchar(40)"},
		{"postgres", versionCol, "timestamp with time zone"},
		{"mysql", versionCol, "timestamp"},
		{"sqlite3", versionCol, "datetime"},
	}
	for _, tc := range cases {
		d, _ := Get(tc.dialect)
		got, err := d.DataTypeOf(tc.col)
		if err != nil {
			t.Errorf("%s %s: %v", tc.dialect, tc.col.Name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s %s: expected %s, got %s", tc.dialect, tc.col.Name, tc.want, got)
		}
	}

	t.Run("ColumnTypeWins", func(t *testing.T) {
		kind := model.NewSimpleValue(tbl)
		col := kind.AddColumn(&model.Column{Name: "kind", Type: model.String})
		d, _ := Get("postgres")
		got, err := d.DataTypeOf(col)
		if err != nil || got != "varchar(255)" {
			t.Errorf("Expected varchar(255), got %q (%v)", got, err)
		}
	})

	t.Run("SQLTypeOverride", func(t *testing.T) {
		col := &model.Column{Name: "raw", SQLType: "citext"}
		d, _ := Get("postgres")
		got, _ := d.DataTypeOf(col)
		if got != "citext" {
			t.Errorf("Expected sql-type override, got %s", got)
		}
	})

	t.Run("Untyped", func(t *testing.T) {
		d, _ := Get("mysql")
		_, err := d.DataTypeOf(&model.Column{Name: "x"})
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Expected ErrUnsupportedType, got %v", err)
		}
	})
}

func TestPrimaryKeyName(t *testing.T) {
	d, _ := Get("postgres")
	long := strings.Repeat("t", 80)
	if n := d.PrimaryKeyName(long); len(n) != 63 {
		t.Errorf("Expected name cut to 63 chars, got %d", len(n))
	}
	s, _ := Get("sqlite3")
	if n := s.PrimaryKeyName("orders"); n != "pk_orders" {
		t.Errorf("Expected pk_orders, got %s", n)
	}
}

func TestCatalogSQL(t *testing.T) {
	d, _ := Get("postgres")
	sql, args := d.HasTableSQL("", "orders")
	if !strings.Contains(sql, "information_schema.tables") || args[0] != "public" || args[1] != "orders" {
		t.Errorf("Unexpected postgres table query: %s %v", sql, args)
	}

	m, _ := Get("mysql")
	sql, args = m.GetColumnsSQL("", "orders")
	if !strings.Contains(sql, "DATABASE()") || len(args) != 1 {
		t.Errorf("Unexpected mysql column query: %s %v", sql, args)
	}
}
