package binder

import (
	"reflect"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// bindComponent fills comp from a <component> or <composite-id> element.
// The component type is the class attribute when present, then reflected;
// with neither, the owning entity type is used and the component is
// embedded.
func (b *Binder) bindComponent(node *descriptor.Node, comp *model.Component, reflected reflect.Type, className, path string, nullable bool) error {
	switch {
	case node.HasAttribute("class"):
		name := node.AttributeOr("class", "")
		t, _, err := b.classType(name)
		if err != nil {
			return mappingError(node.LocalName, err)
		}
		comp.ComponentType = t
	case reflected != nil:
		comp.ComponentType = reflected
	default:
		comp.ComponentType = comp.Owner().MappedType
		comp.IsEmbedded = true
	}
	comp.RoleName = className + "." + path

	for _, child := range node.Children {
		switch child.Kind {
		case descriptor.KindKeyProperty, descriptor.KindProperty:
			prop, err := b.bindScalarProperty(child, comp.ComponentType, comp.Table(), nullable)
			if err != nil {
				return err
			}
			comp.AddProperty(prop)
		case descriptor.KindComponent:
			prop, err := b.bindComponentProperty(child, comp.Owner(), comp.ComponentType, path+".", nullable)
			if err != nil {
				return err
			}
			comp.AddProperty(prop)
		case descriptor.KindParent:
			name, err := requireName(child)
			if err != nil {
				return err
			}
			comp.ParentProperty = name
		}
	}
	return nil
}
