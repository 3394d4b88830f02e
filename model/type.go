package model

import (
	"reflect"
	"time"
)

// SQLKind is the storage family of a scalar type. Dialects map it to a
// concrete column type.
type SQLKind int

const (
	SQLUnknown SQLKind = iota
	SQLBoolean
	SQLInt16
	SQLInt32
	SQLInt64
	SQLFloat
	SQLDouble
	SQLDecimal
	SQLString
	SQLDate
	SQLDateTime
	SQLTimestamp
	SQLBinary
)

// ScalarType is a mapping type: a name, the Go type values are returned as,
// and the storage family.
type ScalarType struct {
	Name         string
	ReturnedType reflect.Type
	Kind         SQLKind
}

// IsArray reports whether values of this type are Go arrays or slices.
// Such values have no usable equality and cannot identify an entity.
func (t *ScalarType) IsArray() bool {
	if t == nil || t.ReturnedType == nil {
		return false
	}
	k := t.ReturnedType.Kind()
	return k == reflect.Array || k == reflect.Slice
}

func (t *ScalarType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

var (
	Boolean   = &ScalarType{Name: "Boolean", ReturnedType: reflect.TypeFor[bool](), Kind: SQLBoolean}
	Int16     = &ScalarType{Name: "Int16", ReturnedType: reflect.TypeFor[int16](), Kind: SQLInt16}
	Int32     = &ScalarType{Name: "Int32", ReturnedType: reflect.TypeFor[int32](), Kind: SQLInt32}
	Int64     = &ScalarType{Name: "Int64", ReturnedType: reflect.TypeFor[int64](), Kind: SQLInt64}
	Single    = &ScalarType{Name: "Single", ReturnedType: reflect.TypeFor[float32](), Kind: SQLFloat}
	Double    = &ScalarType{Name: "Double", ReturnedType: reflect.TypeFor[float64](), Kind: SQLDouble}
	Decimal   = &ScalarType{Name: "Decimal", ReturnedType: reflect.TypeFor[float64](), Kind: SQLDecimal}
	String    = &ScalarType{Name: "String", ReturnedType: reflect.TypeFor[string](), Kind: SQLString}
	Date      = &ScalarType{Name: "Date", ReturnedType: reflect.TypeFor[time.Time](), Kind: SQLDate}
	DateTime  = &ScalarType{Name: "DateTime", ReturnedType: reflect.TypeFor[time.Time](), Kind: SQLDateTime}
	Timestamp = &ScalarType{Name: "Timestamp", ReturnedType: reflect.TypeFor[time.Time](), Kind: SQLTimestamp}
	Binary    = &ScalarType{Name: "Binary", ReturnedType: reflect.TypeFor[[]byte](), Kind: SQLBinary}
)

var typesByName = map[string]*ScalarType{}

func init() {
	aliases := map[*ScalarType][]string{
		Boolean:   {"Boolean", "boolean", "bool"},
		Int16:     {"Int16", "short", "int16"},
		Int32:     {"Int32", "int", "integer", "int32"},
		Int64:     {"Int64", "long", "int64"},
		Single:    {"Single", "float", "float32"},
		Double:    {"Double", "double", "float64"},
		Decimal:   {"Decimal", "decimal", "big_decimal"},
		String:    {"String", "string"},
		Date:      {"Date", "date"},
		DateTime:  {"DateTime", "datetime"},
		Timestamp: {"Timestamp", "timestamp"},
		Binary:    {"Binary", "binary", "[]byte"},
	}
	for t, names := range aliases {
		for _, n := range names {
			typesByName[n] = t
		}
	}
}

// TypeByName looks up a scalar type by the name used in descriptors.
func TypeByName(name string) (*ScalarType, bool) {
	t, ok := typesByName[name]
	return t, ok
}

var timeType = reflect.TypeFor[time.Time]()

// TypeForGo infers the scalar type for a Go type. Pointers are unwrapped.
// Slices and arrays other than []byte yield an ad-hoc array type so the
// identifier checks can reject them. It returns nil when no mapping exists.
func TypeForGo(typ reflect.Type) *ScalarType {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil {
		return nil
	}
	if typ == timeType {
		return DateTime
	}

	switch typ.Kind() {
	case reflect.Bool:
		return Boolean
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16:
		return Int16
	case reflect.Int32, reflect.Uint32:
		return Int32
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return Int64
	case reflect.Float32:
		return Single
	case reflect.Float64:
		return Double
	case reflect.String:
		return String
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 && typ.Kind() == reflect.Slice {
			return Binary
		}
		return &ScalarType{Name: typ.String(), ReturnedType: typ, Kind: SQLBinary}
	}
	return nil
}
