// Package binder turns parsed mapping documents into the mapping model.
//
// A Binder is created per load pass around one model.Mappings registry. The
// registry is threaded through every binder call and must not be touched by
// anything else until the pass is over. Binding is synchronous; every failure
// is a *model.MappingError and aborts the entity being bound.
package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/dialect"
	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
)

// TypeResolver answers questions about the Go types behind mapped classes.
type TypeResolver interface {
	// ClassType returns the Go type of a class name. (nil, nil) means the
	// class is dynamic: it has no Go type.
	ClassType(name string) (reflect.Type, error)
	// PropertyType returns the Go type of a property of owner.
	PropertyType(owner reflect.Type, property, access string) (reflect.Type, error)
	// ResolveType returns the scalar type of a property of owner, or nil
	// when the property has no scalar mapping.
	ResolveType(owner reflect.Type, property, access string) (*model.ScalarType, error)
	// OverridesEquality reports whether t implements value equality.
	OverridesEquality(t reflect.Type) bool
	// OverridesHash reports whether t implements a hash consistent with equality.
	OverridesHash(t reflect.Type) bool
}

// Option configures a Binder.
type Option func(*Binder)

// WithDialect sets the dialect used to name primary keys.
func WithDialect(d dialect.Dialect) Option {
	return func(b *Binder) {
		b.dialect = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Binder) {
		b.log = l
	}
}

// Binder holds the state shared by all binders of one load pass and the
// value, property and component binding every class binder builds on.
type Binder struct {
	mappings *model.Mappings
	types    TypeResolver
	dialect  dialect.Dialect
	log      logger.Logger
}

// New returns a binder writing into mappings.
func New(mappings *model.Mappings, types TypeResolver, opts ...Option) *Binder {
	b := &Binder{
		mappings: mappings,
		types:    types,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mappings returns the registry the binder writes into.
func (b *Binder) Mappings() *model.Mappings {
	return b.mappings
}

func (b *Binder) keyNamer() model.KeyNamer {
	if b.dialect == nil {
		return nil
	}
	return b.dialect
}

func (b *Binder) access(node *descriptor.Node) string {
	return node.AttributeOr("access", b.mappings.DefaultAccess)
}

// resolveType infers the scalar type of property from owner. A dynamic
// owner or a Go type with no scalar mapping is an unresolvable type.
func (b *Binder) resolveType(owner reflect.Type, element, property, access string) (*model.ScalarType, error) {
	if owner == nil {
		return nil, model.Errorf("", element, model.ErrUnresolvableType,
			"dynamic class needs an explicit type for %s", property)
	}
	t, err := b.types.ResolveType(owner, property, access)
	if err != nil {
		return nil, mappingError(element, err)
	}
	if t == nil {
		return nil, model.Errorf("", element, model.ErrUnresolvableType,
			"no scalar type for %s.%s", owner.Name(), property)
	}
	return t, nil
}

// mappingError turns a resolver error into a MappingError, keeping
// definition errors that already carry a category.
func mappingError(element string, err error) error {
	var me *model.MappingError
	if errors.As(err, &me) {
		return err
	}
	for _, sentinel := range []error{model.ErrInvalidAttribute, model.ErrUnknownClass, model.ErrUnresolvableType} {
		if errors.Is(err, sentinel) {
			return &model.MappingError{Element: element, Err: err}
		}
	}
	return &model.MappingError{Element: element, Err: fmt.Errorf("%w: %w", model.ErrUnresolvableType, err)}
}

// withEntity names the entity on a MappingError raised by a helper binder.
func withEntity(err error, entity string) error {
	var me *model.MappingError
	if errors.As(err, &me) && me.Entity == "" {
		me.Entity = entity
	}
	return err
}

func requireName(node *descriptor.Node) (string, error) {
	name := node.AttributeOr("name", "")
	if name == "" {
		return "", model.Errorf("", node.LocalName, model.ErrInvalidAttribute, "missing name attribute")
	}
	return name, nil
}

func intAttr(node *descriptor.Node, name string) (int, bool, error) {
	v, ok := node.Attribute(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, true, model.Errorf("", node.LocalName, model.ErrInvalidAttribute, "%s=%q is not a non-negative integer", name, v)
	}
	return n, true, nil
}
