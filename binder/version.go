package binder

import (
	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// bindVersioningProperty binds a <version> or <timestamp> element. Without a
// declared type a version is an Int32 and a timestamp a Timestamp; the Go
// type of the property is not consulted.
func (b *RootClassBinder) bindVersioningProperty(table *model.Table, node *descriptor.Node, entity *model.Entity) error {
	name, err := requireName(node)
	if err != nil {
		return err
	}
	v := model.NewSimpleValue(table)
	if err := b.bindSimpleValue(node, v, false, name); err != nil {
		return err
	}
	if v.ScalarType == nil {
		v.ScalarType = model.Int32
		if node.Kind == descriptor.KindTimestamp {
			v.ScalarType = model.Timestamp
		}
	}

	prop := model.NewProperty(v)
	if err := b.bindProperty(node, prop); err != nil {
		return err
	}
	if prop.Generation == model.GenerationInsert {
		return model.Errorf("", node.LocalName, model.ErrIllegalVersionGeneration,
			"'generated' cannot be 'insert' for versioning property %s", name)
	}
	v.NullValue = node.AttributeOr("unsaved-value", "")

	entity.Version = prop
	entity.AddProperty(prop)
	return nil
}
