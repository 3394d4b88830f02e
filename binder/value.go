package binder

import (
	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// bindSimpleValue reads the type and columns of a scalar mapping element.
// Columns come from the column attribute, from nested <column> elements, or
// default to defaultColumn passed through the naming strategy. The value's
// type stays nil when the descriptor declares none.
func (b *Binder) bindSimpleValue(node *descriptor.Node, value *model.SimpleValue, nullable bool, defaultColumn string) error {
	if err := b.bindType(node, value); err != nil {
		return err
	}
	return b.bindColumns(node, value, nullable, defaultColumn)
}

func (b *Binder) bindType(node *descriptor.Node, value *model.SimpleValue) error {
	typeName, ok := node.Attribute("type")
	if !ok {
		if typeNode := node.First(descriptor.KindType); typeNode != nil {
			typeName = typeNode.AttributeOr("name", "")
			for _, p := range typeNode.Elements(descriptor.KindParam) {
				if value.TypeParams == nil {
					value.TypeParams = make(map[string]string)
				}
				value.TypeParams[p.AttributeOr("name", "")] = p.Text
			}
		}
	}
	if typeName == "" {
		return nil
	}

	t, ok := model.TypeByName(typeName)
	if !ok {
		return model.Errorf("", node.LocalName, model.ErrUnresolvableType, "unknown type %q", typeName)
	}
	value.TypeName = typeName
	value.ScalarType = t
	return nil
}

func (b *Binder) bindColumns(node *descriptor.Node, value *model.SimpleValue, nullable bool, defaultColumn string) error {
	if name, ok := node.Attribute("column"); ok {
		col := &model.Column{Name: name, Nullable: nullable}
		if err := applyColumnAttributes(node, col); err != nil {
			return err
		}
		value.AddColumn(col)
		return nil
	}

	nested := node.Elements(descriptor.KindColumn)
	for _, cn := range nested {
		name, err := requireName(cn)
		if err != nil {
			return err
		}
		col := &model.Column{Name: name, Nullable: nullable}
		if err := applyColumnAttributes(cn, col); err != nil {
			return err
		}
		col.SQLType = cn.AttributeOr("sql-type", "")
		col.Check = cn.AttributeOr("check", "")
		value.AddColumn(col)
	}
	if len(nested) > 0 {
		return nil
	}

	if defaultColumn == "" {
		return model.Errorf("", node.LocalName, model.ErrInvalidAttribute, "no column and no name to derive one from")
	}
	col := &model.Column{
		Name:     b.mappings.NamingStrategy.PropertyToColumnName(defaultColumn),
		Nullable: nullable,
	}
	if err := applyColumnAttributes(node, col); err != nil {
		return err
	}
	value.AddColumn(col)
	return nil
}

func applyColumnAttributes(node *descriptor.Node, col *model.Column) error {
	length, ok, err := intAttr(node, "length")
	if err != nil {
		return err
	}
	if ok {
		col.Length = length
	}
	if node.AttributeOr("not-null", "") == "true" {
		col.Nullable = false
	}
	if node.AttributeOr("unique", "") == "true" {
		col.Unique = true
	}
	return nil
}
