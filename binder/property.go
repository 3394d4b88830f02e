package binder

import (
	"reflect"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// bindProperty reads the flags shared by every property element.
func (b *Binder) bindProperty(node *descriptor.Node, prop *model.Property) error {
	prop.Name = node.AttributeOr("name", "")
	prop.Accessor = b.access(node)

	gen, err := model.ParseGeneration(node.AttributeOr("generated", ""))
	if err != nil {
		return model.Errorf("", node.LocalName, model.ErrInvalidAttribute, "property %s: %v", prop.Name, err)
	}
	prop.Generation = gen

	if node.AttributeOr("insert", "") == "false" {
		prop.Insertable = false
	}
	if node.AttributeOr("update", "") == "false" {
		prop.Updateable = false
	}
	if node.AttributeOr("optimistic-lock", "") == "false" {
		prop.OptimisticLock = false
	}
	if node.AttributeOr("lazy", "") == "true" {
		prop.IsLazy = true
	}
	return nil
}

// bindScalarProperty binds a <property> or <key-property> of owner into table.
func (b *Binder) bindScalarProperty(node *descriptor.Node, owner reflect.Type, table *model.Table, nullable bool) (*model.Property, error) {
	name, err := requireName(node)
	if err != nil {
		return nil, err
	}
	value := model.NewSimpleValue(table)
	if err := b.bindSimpleValue(node, value, nullable, name); err != nil {
		return nil, err
	}
	if value.ScalarType == nil {
		t, err := b.resolveType(owner, node.LocalName, name, b.access(node))
		if err != nil {
			return nil, err
		}
		value.ScalarType = t
	}
	prop := model.NewProperty(value)
	if err := b.bindProperty(node, prop); err != nil {
		return nil, err
	}
	return prop, nil
}

// bindComponentProperty binds a named <component> of owner.
func (b *Binder) bindComponentProperty(node *descriptor.Node, entity *model.Entity, owner reflect.Type, path string, nullable bool) (*model.Property, error) {
	name, err := requireName(node)
	if err != nil {
		return nil, err
	}
	var reflected reflect.Type
	if owner != nil && !node.HasAttribute("class") {
		reflected, err = b.types.PropertyType(owner, name, b.access(node))
		if err != nil {
			return nil, mappingError(node.LocalName, err)
		}
	}
	comp := model.NewComponent(entity)
	if err := b.bindComponent(node, comp, reflected, entity.Name, path+name, nullable); err != nil {
		return nil, err
	}
	prop := model.NewProperty(comp)
	if err := b.bindProperty(node, prop); err != nil {
		return nil, err
	}
	return prop, nil
}
