package binder

import (
	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// makeIdentifier reads the generator and unsaved-value of an identifier.
// Without a <generator> element the identifier is assigned by the caller.
func (b *Binder) makeIdentifier(node *descriptor.Node, id *model.SimpleValue) error {
	params := make(map[string]string)
	if schema := id.Table().Schema; schema != "" {
		params["schema"] = schema
	}
	params["target_table"] = id.Table().Name

	id.IdentifierGeneratorStrategy = model.GeneratorAssigned
	if gen := node.First(descriptor.KindGenerator); gen != nil {
		class := gen.AttributeOr("class", "")
		if class == "" {
			return model.Errorf("", "generator", model.ErrInvalidAttribute, "missing class attribute")
		}
		id.IdentifierGeneratorStrategy = class
		for _, p := range gen.Elements(descriptor.KindParam) {
			params[p.AttributeOr("name", "")] = p.Text
		}
	}
	id.IdentifierGeneratorParams = params

	if v, ok := node.Attribute("unsaved-value"); ok {
		id.NullValue = v
	}
	return nil
}
