package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/shrek82/jormap/model"
)

// ErrPropertyNotFound is returned when a type has no member for a property.
var ErrPropertyNotFound = errors.New("property not found")

// Equaler is the value-equality capability composite identifier types must
// implement.
type Equaler interface {
	Equals(other any) bool
}

// Hasher is the hash capability composite identifier types must implement.
// Equal values must return equal hash codes.
type Hasher interface {
	HashCode() uint64
}

var (
	equalerType = reflect.TypeFor[Equaler]()
	hasherType  = reflect.TypeFor[Hasher]()
)

// Resolver answers type questions about registered Go types.
type Resolver struct {
	registry *Registry
	structs  sync.Map // reflect.Type -> *structInfo
}

// NewResolver returns a resolver over registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry returns the type registry the resolver reads.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// ClassType returns the Go type registered for a class name. With
// AllowUnregistered an unknown name yields (nil, nil): a dynamic entity.
func (r *Resolver) ClassType(name string) (reflect.Type, error) {
	if t, ok := r.registry.Lookup(name); ok {
		return t, nil
	}
	if r.registry.AllowUnregistered {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownClass, name)
}

// PropertyType returns the Go type of property on owner, pointers unwrapped.
func (r *Resolver) PropertyType(owner reflect.Type, property, access string) (reflect.Type, error) {
	m, err := r.member(owner, property, access)
	if err != nil || m == nil {
		return nil, err
	}
	typ := m.typ
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ, nil
}

// ResolveType returns the scalar type of property on owner. A "type" struct
// tag wins over inference from the Go type. The noop accessor and Go types
// without a scalar mapping yield (nil, nil).
func (r *Resolver) ResolveType(owner reflect.Type, property, access string) (*model.ScalarType, error) {
	m, err := r.member(owner, property, access)
	if err != nil || m == nil {
		return nil, err
	}
	if m.tag != nil && m.tag.Type != "" {
		t, ok := model.TypeByName(m.tag.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s has unknown tag type %q", model.ErrUnresolvableType, owner.Name(), property, m.tag.Type)
		}
		return t, nil
	}
	return model.TypeForGo(m.typ), nil
}

// OverridesEquality reports whether values of t (or *t) implement Equaler.
func (r *Resolver) OverridesEquality(t reflect.Type) bool {
	return implements(t, equalerType)
}

// OverridesHash reports whether values of t (or *t) implement Hasher.
func (r *Resolver) OverridesHash(t reflect.Type) bool {
	return implements(t, hasherType)
}

func implements(t, iface reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(iface)
}

type member struct {
	typ reflect.Type
	tag *Tag // nil for getters
}

type structInfo struct {
	fields map[string]reflect.StructField
}

func (r *Resolver) structOf(t reflect.Type) *structInfo {
	if cached, ok := r.structs.Load(t); ok {
		return cached.(*structInfo)
	}
	info := &structInfo{fields: make(map[string]reflect.StructField)}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous {
			continue
		}
		if _, seen := info.fields[f.Name]; !seen || len(f.Index) == 1 {
			info.fields[f.Name] = f
		}
	}
	actual, _ := r.structs.LoadOrStore(t, info)
	return actual.(*structInfo)
}

func (r *Resolver) member(owner reflect.Type, property, access string) (*member, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: %s on dynamic type", ErrPropertyNotFound, property)
	}
	for owner.Kind() == reflect.Ptr {
		owner = owner.Elem()
	}
	if owner.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrPropertyNotFound, owner)
	}

	switch {
	case access == "" || access == model.AccessProperty:
		return r.propertyMember(owner, property)
	case access == "field" || strings.HasPrefix(access, "field.") || strings.HasPrefix(access, "nosetter."):
		return r.fieldMember(owner, property)
	case access == "noop" || access == "none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown access strategy %q", model.ErrInvalidAttribute, access)
}

func (r *Resolver) propertyMember(owner reflect.Type, property string) (*member, error) {
	info := r.structOf(owner)
	if f, ok := info.fields[property]; ok && f.IsExported() {
		tag := ParseTag(f.Tag.Get(TagName))
		if !tag.Ignore {
			return &member{typ: f.Type, tag: tag}, nil
		}
	}
	for _, name := range []string{property, "Get" + property} {
		for _, t := range []reflect.Type{owner, reflect.PointerTo(owner)} {
			if m, ok := t.MethodByName(name); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
				return &member{typ: m.Type.Out(0)}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, owner.Name(), property)
}

func (r *Resolver) fieldMember(owner reflect.Type, property string) (*member, error) {
	info := r.structOf(owner)
	lower := lowerFirst(property)
	for _, name := range []string{property, lower, "_" + lower} {
		if f, ok := info.fields[name]; ok {
			return &member{typ: f.Type, tag: ParseTag(f.Tag.Get(TagName))}, nil
		}
	}
	return nil, fmt.Errorf("%w: field %s.%s", ErrPropertyNotFound, owner.Name(), property)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
