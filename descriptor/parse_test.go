package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDoc = `<?xml version="1.0"?>
<mapping xmlns="urn:jormap-mapping-1.0" xmlns:x="urn:vendor-extension" schema="sales">
  <!-- orders -->
  <class name="Order" table="orders">
    <id name="Id"><generator class="sequence"><param name="sequence">order_seq</param></generator></id>
    <x:audit enabled="true"/>
    <jcs-cache usage="read-write"/>
    <future-element/>
  </class>
</mapping>`

func TestParse(t *testing.T) {
	root, err := ParseString(orderDoc)
	require.NoError(t, err)

	assert.Equal(t, KindMapping, root.Kind)
	assert.Equal(t, "sales", root.AttributeOr("schema", ""))
	require.Len(t, root.Children, 1)

	class := root.Children[0]
	assert.Equal(t, KindClass, class.Kind)
	require.Len(t, class.Children, 4)

	t.Run("Kinds", func(t *testing.T) {
		kinds := []Kind{}
		for _, c := range class.Children {
			kinds = append(kinds, c.Kind)
		}
		assert.Equal(t, []Kind{KindID, KindForeign, KindCache, KindOther}, kinds)
	})

	t.Run("ForeignNamespace", func(t *testing.T) {
		audit := class.Children[1]
		assert.Equal(t, "urn:vendor-extension", audit.NamespaceURI)
		assert.False(t, audit.IsMapping())
	})

	t.Run("ParamText", func(t *testing.T) {
		gen := class.Children[0].First(KindGenerator)
		require.NotNil(t, gen)
		params := gen.Elements(KindParam)
		require.Len(t, params, 1)
		assert.Equal(t, "order_seq", params[0].Text)
	})

	t.Run("MissingAttribute", func(t *testing.T) {
		_, ok := class.Attribute("schema")
		assert.False(t, ok)
		assert.Equal(t, "dflt", class.AttributeOr("schema", "dflt"))
	})
}

func TestParseNestedText(t *testing.T) {
	const doc = `<mapping xmlns="urn:jormap-mapping-1.0">
  <class name="Order">
    <id name="Id">
      <generator class="hilo">
        <param name="table">
          hi_value
        </param>
        <param name="max_lo">100</param>
      </generator>
    </id>
    <composite-id>
      <key-property name="A">
        <column name="a_col"/>
      </key-property>
    </composite-id>
  </class>
  <class name="Line">
    <id name="Id"/>
  </class>
</mapping>`

	root, err := ParseString(doc)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Empty(t, root.Text)

	order := root.Children[0]
	gen := order.First(KindID).First(KindGenerator)
	require.NotNil(t, gen)
	params := gen.Elements(KindParam)
	require.Len(t, params, 2)
	assert.Equal(t, "hi_value", params[0].Text)
	assert.Equal(t, "100", params[1].Text)
	assert.Empty(t, gen.Text)

	key := order.First(KindCompositeID).Children[0]
	assert.Equal(t, "a_col", key.First(KindColumn).AttributeOr("name", ""))
	assert.Equal(t, "Line", root.Children[1].AttributeOr("name", ""))
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString("")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = ParseString("<mapping><class></mapping>")
	assert.Error(t, err)
}

func TestElementBuilder(t *testing.T) {
	n := Element("discriminator", map[string]string{"force": "true", "column": "kind"})
	assert.Equal(t, KindDiscriminator, n.Kind)
	assert.Equal(t, []Attr{{Name: "column", Value: "kind"}, {Name: "force", Value: "true"}}, n.Attrs)
	assert.Equal(t, "discriminator", n.Kind.String())
	assert.Equal(t, "cache", Classify(MappingNamespace, "jcs-cache").String())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hbm.xml"), []byte(orderDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hbm.xml"), []byte(orderDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.hbm.xml", filepath.Base(docs[0].Path))
	assert.Equal(t, KindMapping, docs[1].Root.Kind)
}
