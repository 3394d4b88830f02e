package binder

import (
	"errors"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// MappingRootBinder binds a whole <mapping> document.
type MappingRootBinder struct {
	*Binder
	// ContinueOnError keeps binding the remaining classes of a document
	// after one fails. All failures are returned joined.
	ContinueOnError bool
}

// NewMappingRootBinder returns a document binder around b.
func NewMappingRootBinder(b *Binder) *MappingRootBinder {
	return &MappingRootBinder{Binder: b}
}

// Bind applies the document defaults and binds each <class> in order. The
// registry defaults are restored afterwards.
func (b *MappingRootBinder) Bind(root *descriptor.Node) error {
	if root == nil || root.Kind != descriptor.KindMapping {
		name := ""
		if root != nil {
			name = root.LocalName
		}
		return model.Errorf("", name, model.ErrInvalidAttribute, "document root must be <mapping> in %s", descriptor.MappingNamespace)
	}

	m := b.mappings
	schema, access, lazy, ns := m.SchemaName, m.DefaultAccess, m.DefaultLazy, m.DefaultNamespace
	defer func() {
		m.SchemaName, m.DefaultAccess, m.DefaultLazy, m.DefaultNamespace = schema, access, lazy, ns
	}()

	m.SchemaName = root.AttributeOr("schema", m.SchemaName)
	m.DefaultAccess = root.AttributeOr("default-access", m.DefaultAccess)
	switch root.AttributeOr("default-lazy", "") {
	case "true":
		m.DefaultLazy = true
	case "false":
		m.DefaultLazy = false
	}
	m.DefaultNamespace = root.AttributeOr("namespace", m.DefaultNamespace)

	rcb := NewRootClassBinder(b.Binder)
	var errs []error
	for _, class := range root.Elements(descriptor.KindClass) {
		if err := rcb.Bind(class); err != nil {
			if !b.ContinueOnError {
				return err
			}
			b.log.Error("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
