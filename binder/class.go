package binder

import (
	"errors"
	"reflect"
	"strings"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// ClassBinder binds the attributes every persistent class element shares.
type ClassBinder struct {
	*Binder
}

// classType resolves a class name, trying the document namespace first for
// unqualified names. It returns the type and the name it resolved under.
func (b *Binder) classType(name string) (reflect.Type, string, error) {
	candidates := []string{name}
	if ns := b.mappings.DefaultNamespace; ns != "" && !strings.Contains(name, ".") {
		candidates = []string{ns + "." + name, name}
	}

	var firstErr error
	for _, c := range candidates {
		t, err := b.types.ClassType(c)
		if err == nil {
			if t == nil {
				return nil, candidates[0], nil
			}
			return t, c, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if !errors.Is(firstErr, model.ErrUnknownClass) {
		return nil, "", firstErr
	}
	return nil, "", model.Errorf("", "class", model.ErrUnknownClass, "%s", name)
}

func (b *ClassBinder) bindClass(node *descriptor.Node, entity *model.Entity) error {
	name := node.AttributeOr("name", "")
	entity.EntityName = node.AttributeOr("entity-name", "")
	switch {
	case name != "":
		t, resolved, err := b.classType(name)
		if err != nil {
			return withEntity(err, name)
		}
		entity.Name = resolved
		entity.MappedType = t
	case entity.EntityName != "":
		entity.Name = entity.EntityName
	default:
		return model.Errorf("", node.LocalName, model.ErrInvalidAttribute, "class needs a name or an entity-name")
	}

	entity.ProxyInterface = node.AttributeOr("proxy", "")
	entity.IsLazy = b.mappings.DefaultLazy
	switch node.AttributeOr("lazy", "") {
	case "true":
		entity.IsLazy = true
	case "false":
		entity.IsLazy = false
	}
	entity.DynamicUpdate = node.AttributeOr("dynamic-update", "") == "true"
	entity.DynamicInsert = node.AttributeOr("dynamic-insert", "") == "true"
	entity.SelectBeforeUpdate = node.AttributeOr("select-before-update", "") == "true"
	entity.IsAbstract = node.AttributeOr("abstract", "") == "true"

	size, ok, err := intAttr(node, "batch-size")
	if err != nil {
		return withEntity(err, entity.Key())
	}
	if ok && size > 0 {
		entity.BatchSize = size
	}

	switch v := node.AttributeOr("optimistic-lock", "version"); v {
	case "version":
		entity.OptimisticLock = model.OptimisticLockVersion
	case "none":
		entity.OptimisticLock = model.OptimisticLockNone
	case "dirty":
		entity.OptimisticLock = model.OptimisticLockDirty
	case "all":
		entity.OptimisticLock = model.OptimisticLockAll
	default:
		return model.Errorf(entity.Key(), node.LocalName, model.ErrInvalidAttribute, "optimistic-lock=%q", v)
	}

	entity.DiscriminatorValue = node.AttributeOr("discriminator-value", entity.Name)
	return nil
}

// classTableName returns the table attribute, or the class name passed
// through the naming strategy.
func (b *ClassBinder) classTableName(entity *model.Entity, node *descriptor.Node) string {
	if table := node.AttributeOr("table", ""); table != "" {
		return table
	}
	short := entity.ShortName()
	if entity.IsDynamic() && entity.EntityName != "" {
		short = entity.EntityName
		if i := strings.LastIndexByte(short, '.'); i >= 0 {
			short = short[i+1:]
		}
	}
	return b.mappings.NamingStrategy.ClassToTableName(short)
}

// propertiesFromXML binds the plain and component properties of a class.
func (b *ClassBinder) propertiesFromXML(node *descriptor.Node, entity *model.Entity) error {
	for _, child := range node.Children {
		var (
			prop *model.Property
			err  error
		)
		switch child.Kind {
		case descriptor.KindProperty:
			prop, err = b.bindScalarProperty(child, entity.MappedType, entity.Table, true)
		case descriptor.KindComponent:
			prop, err = b.bindComponentProperty(child, entity, entity.MappedType, "", true)
		default:
			continue
		}
		if err != nil {
			return err
		}
		entity.AddProperty(prop)
	}
	return nil
}
