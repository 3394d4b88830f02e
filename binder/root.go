package binder

import (
	"reflect"

	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/model"
)

// RootClassBinder binds a <class> element into a root entity.
type RootClassBinder struct {
	ClassBinder
}

// NewRootClassBinder returns a root class binder sharing b's registry.
func NewRootClassBinder(b *Binder) *RootClassBinder {
	return &RootClassBinder{ClassBinder{Binder: b}}
}

// Bind maps node onto a new entity and registers it. When an error is
// returned nothing is registered and every table is left as it was.
func (b *RootClassBinder) Bind(node *descriptor.Node) (err error) {
	entity := model.NewEntity()
	if err := b.bindClass(node, entity); err != nil {
		return err
	}
	sp := b.mappings.Savepoint()
	defer func() {
		if err != nil {
			sp.Rollback()
			err = withEntity(err, entity.Key())
		}
	}()

	schema := node.AttributeOr("schema", b.mappings.SchemaName)
	table := b.mappings.AddTable(schema, b.classTableName(entity, node))
	entity.Table = table
	b.log.Info("Mapping class: %s -> %s", entity.Name, table.Name)

	entity.IsMutable = node.AttributeOr("mutable", "") != "false"
	entity.Where = node.AttributeOr("where", "")
	if check := node.AttributeOr("check", ""); check != "" {
		table.AddCheckConstraint(check)
	}
	entity.IsExplicitPolymorphism = node.AttributeOr("polymorphism", "") == "explicit"

	for _, sub := range node.Children {
		switch sub.Kind {
		case descriptor.KindID:
			err = b.bindID(sub, entity, table)
		case descriptor.KindCompositeID:
			err = b.bindCompositeID(sub, entity)
		case descriptor.KindVersion, descriptor.KindTimestamp:
			err = b.bindVersioningProperty(table, sub, entity)
		case descriptor.KindDiscriminator:
			err = b.bindDiscriminator(sub, entity, table)
		case descriptor.KindCache:
			entity.CacheConcurrencyStrategy = sub.AttributeOr("usage", "")
			entity.CacheRegionName = sub.AttributeOr("region", "")
		}
		if err != nil {
			return err
		}
	}

	if entity.Identifier == nil {
		return model.Errorf("", node.LocalName, model.ErrIllegalIdentifier, "no <id> or <composite-id> mapped")
	}
	entity.CreatePrimaryKey(b.keyNamer())

	if err := b.propertiesFromXML(node, entity); err != nil {
		return err
	}
	b.log.Debug("Bound %s: %d properties, versioned=%t, polymorphic=%t",
		entity.Key(), len(entity.Properties), entity.IsVersioned(), entity.IsPolymorphic)
	return b.mappings.AddClass(entity)
}

func (b *RootClassBinder) bindID(node *descriptor.Node, entity *model.Entity, table *model.Table) error {
	id := model.NewSimpleValue(table)
	entity.Identifier = id

	name := node.AttributeOr("name", "")
	if name == "" {
		if err := b.bindSimpleValue(node, id, false, model.DefaultIdentifierColumnName); err != nil {
			return err
		}
		if id.ScalarType == nil {
			return model.Errorf("", node.LocalName, model.ErrUnresolvableType, "must specify an identifier type: %s", entity.Name)
		}
		entity.IdentifierProperty = nil
	} else {
		if err := b.bindSimpleValue(node, id, false, name); err != nil {
			return err
		}
		if id.ScalarType == nil {
			t, err := b.resolveType(entity.MappedType, node.LocalName, name, b.access(node))
			if err != nil {
				return err
			}
			id.ScalarType = t
		}
		prop := model.NewProperty(id)
		if err := b.bindProperty(node, prop); err != nil {
			return err
		}
		entity.IdentifierProperty = prop
	}

	if id.ScalarType.IsArray() {
		return model.Errorf("", node.LocalName, model.ErrIllegalIdentifier,
			"illegal use of an array as an identifier: %s", id.ScalarType.Name)
	}
	if err := b.makeIdentifier(node, id); err != nil {
		return err
	}
	entity.CreatePrimaryKey(b.keyNamer())
	return nil
}

func (b *RootClassBinder) bindCompositeID(node *descriptor.Node, entity *model.Entity) error {
	comp := model.NewComponent(entity)
	entity.Identifier = comp

	name := node.AttributeOr("name", "")
	if name == "" {
		if err := b.bindComponent(node, comp, nil, entity.Name, "id", false); err != nil {
			return err
		}
		entity.HasEmbeddedIdentifier = comp.IsEmbedded
	} else {
		var reflected reflect.Type
		if !entity.IsDynamic() && !node.HasAttribute("class") {
			t, err := b.types.PropertyType(entity.MappedType, name, b.access(node))
			if err != nil {
				return mappingError(node.LocalName, err)
			}
			reflected = t
		}
		if err := b.bindComponent(node, comp, reflected, entity.Name, name, false); err != nil {
			return err
		}
		prop := model.NewProperty(comp)
		if err := b.bindProperty(node, prop); err != nil {
			return err
		}
		entity.IdentifierProperty = prop
	}

	if comp.ComponentType != nil {
		if !b.types.OverridesEquality(comp.ComponentType) {
			return model.Errorf("", node.LocalName, model.ErrIllegalIdentifier,
				"composite-id class must implement Equals(other any) bool: %s", comp.TypeName())
		}
		if !b.types.OverridesHash(comp.ComponentType) {
			return model.Errorf("", node.LocalName, model.ErrIllegalIdentifier,
				"composite-id class must implement HashCode() uint64: %s", comp.TypeName())
		}
	}
	comp.UnsavedValue = node.AttributeOr("unsaved-value", "")
	entity.CreatePrimaryKey(b.keyNamer())
	return nil
}

func (b *RootClassBinder) bindDiscriminator(node *descriptor.Node, entity *model.Entity, table *model.Table) error {
	d := model.NewSimpleValue(table)
	entity.Discriminator = d
	if err := b.bindSimpleValue(node, d, false, model.DefaultDiscriminatorColumnName); err != nil {
		return err
	}
	if d.ScalarType == nil {
		d.ScalarType = model.String
		if cols := d.Columns(); len(cols) > 0 && cols[0].Type == nil {
			cols[0].Type = model.String
		}
	}
	entity.IsPolymorphic = true
	entity.IsForceDiscriminator = node.AttributeOr("force", "") == "true"
	entity.IsDiscriminatorInsertable = node.AttributeOr("insert", "") != "false"
	return nil
}
