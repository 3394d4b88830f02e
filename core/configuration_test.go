package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/jormap/dialect"
	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
)

type Customer struct {
	ID        int64
	Email     string
	CreatedAt string
	Version   int
}

type Invoice struct {
	Number string
	Amount float64
}

const customerDoc = `<mapping xmlns="urn:jormap-mapping-1.0" namespace="Billing">
  <class name="Customer" table="customers">
    <id name="ID" column="id"><generator class="increment"/></id>
    <version name="Version" column="version"/>
    <property name="Email" column="email" not-null="true"/>
  </class>
</mapping>`

const invoiceDoc = `<mapping xmlns="urn:jormap-mapping-1.0" namespace="Billing">
  <class name="Invoice" table="invoices">
    <id name="Number" column="number"><generator class="ulid"/></id>
    <property name="Amount" column="amount"/>
    <cache usage="read-write"/>
  </class>
</mapping>`

func quietLogger(buf *bytes.Buffer) logger.Logger {
	l := logger.NewStdLogger()
	l.SetOutput(buf)
	return l
}

func newConfiguration(buf *bytes.Buffer, opts ...Option) *Configuration {
	opts = append([]Option{WithLogger(quietLogger(buf))}, opts...)
	c := NewConfiguration(opts...)
	c.RegisterType("Billing.Customer", Customer{}).
		RegisterType("Billing.Invoice", &Invoice{})
	return c
}

func TestConfigurationBuild(t *testing.T) {
	buf := &bytes.Buffer{}
	pg, _ := dialect.Get("postgres")
	c := newConfiguration(buf, WithDialect(pg), WithSchema("billing"))

	require.NoError(t, c.AddXML(strings.NewReader(customerDoc), "customer.hbm.xml"))
	require.NoError(t, c.AddXML(strings.NewReader(invoiceDoc), "invoice.hbm.xml"))

	catalog, err := c.Build()
	require.NoError(t, err)
	require.Len(t, catalog.Entities(), 2)

	customer, ok := catalog.Entity("Billing.Customer")
	require.True(t, ok)
	assert.Equal(t, "billing", customer.Table.Schema)
	assert.Equal(t, pg.PrimaryKeyName("customers"), customer.Table.PrimaryKey.Name)

	_, ok = catalog.Table("billing", "invoices")
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "Mapping class: Billing.Customer -> customers")
	assert.Contains(t, buf.String(), "customer.hbm.xml")
}

func TestConfigurationNaming(t *testing.T) {
	buf := &bytes.Buffer{}
	c := newConfiguration(buf, WithNamingStrategy(model.SnakeCaseNamingStrategy{}))
	require.NoError(t, c.AddXML(strings.NewReader(`<mapping xmlns="urn:jormap-mapping-1.0">
  <class name="Billing.Customer">
    <id name="ID"/>
    <property name="CreatedAt"/>
  </class>
</mapping>`), "naming"))

	catalog, err := c.Build()
	require.NoError(t, err)
	e, _ := catalog.Entity("Billing.Customer")
	assert.Equal(t, "customer", e.Table.Name)
	_, ok := e.Table.Column("created_at")
	assert.True(t, ok)
}

func TestConfigurationErrors(t *testing.T) {
	const broken = `<mapping xmlns="urn:jormap-mapping-1.0" namespace="Billing">
  <class name="Invoice"><id name="Number"><generator class="hilo"/></id></class>
  <class name="Customer"><id name="ID"/><version name="Version" generated="insert"/></class>
</mapping>`

	t.Run("FailFast", func(t *testing.T) {
		c := newConfiguration(&bytes.Buffer{})
		err := c.AddXML(strings.NewReader(broken), "broken.hbm.xml")
		require.ErrorIs(t, err, model.ErrIllegalVersionGeneration)
		assert.Contains(t, err.Error(), "broken.hbm.xml")
	})

	t.Run("ContinueOnError", func(t *testing.T) {
		c := newConfiguration(&bytes.Buffer{}, WithContinueOnError(true))
		require.NoError(t, c.AddXML(strings.NewReader(broken), "broken.hbm.xml"))

		catalog, err := c.Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrIllegalVersionGeneration)
		assert.ErrorIs(t, err, model.ErrUnknownGenerator)
		require.NotNil(t, catalog)
		assert.Len(t, catalog.Entities(), 1)
	})

	t.Run("UnknownGenerator", func(t *testing.T) {
		c := newConfiguration(&bytes.Buffer{})
		require.NoError(t, c.AddXML(strings.NewReader(`<mapping xmlns="urn:jormap-mapping-1.0">
  <class name="Billing.Invoice"><id name="Number"><generator class="hilo"/></id></class>
</mapping>`), "hilo"))
		catalog, err := c.Build()
		require.ErrorIs(t, err, model.ErrUnknownGenerator)
		assert.Nil(t, catalog)
	})

	t.Run("Malformed", func(t *testing.T) {
		c := newConfiguration(&bytes.Buffer{})
		require.Error(t, c.AddXML(strings.NewReader("<mapping"), "bad"))
	})
}

func TestConfigurationAddDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "billing"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing", "customer.hbm.xml"), []byte(customerDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.hbm.xml"), []byte(invoiceDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a mapping"), 0o644))

	c := newConfiguration(&bytes.Buffer{})
	require.NoError(t, c.AddDirectory(dir))
	catalog, err := c.Build()
	require.NoError(t, err)
	assert.Len(t, catalog.Entities(), 2)

	c = newConfiguration(&bytes.Buffer{})
	require.NoError(t, c.AddFile(filepath.Join(dir, "invoice.hbm.xml")))
	require.Error(t, c.AddFile(filepath.Join(dir, "missing.hbm.xml")))
}
