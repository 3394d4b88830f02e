package core

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shrek82/jormap/binder"
	"github.com/shrek82/jormap/descriptor"
	"github.com/shrek82/jormap/dialect"
	"github.com/shrek82/jormap/idgen"
	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
	"github.com/shrek82/jormap/reflection"
)

// Option configures a Configuration.
type Option func(*Configuration)

// WithDialect names primary keys after the dialect's conventions.
func WithDialect(d dialect.Dialect) Option {
	return func(c *Configuration) { c.dialect = d }
}

// WithLogger sets the logger used by the load pass.
func WithLogger(l logger.Logger) Option {
	return func(c *Configuration) { c.log = l }
}

// WithNamingStrategy sets how table and column names are derived.
func WithNamingStrategy(n model.NamingStrategy) Option {
	return func(c *Configuration) { c.mappings.NamingStrategy = n }
}

// WithSchema sets the default schema of every table.
func WithSchema(schema string) Option {
	return func(c *Configuration) { c.mappings.SchemaName = schema }
}

// WithTypeRegistry replaces the type registry.
func WithTypeRegistry(r *reflection.Registry) Option {
	return func(c *Configuration) { c.types = r }
}

// WithContinueOnError keeps loading after a class fails to bind. The
// failures are reported together by Build.
func WithContinueOnError(v bool) Option {
	return func(c *Configuration) { c.continueOnError = v }
}

// Configuration runs one load pass: mapping documents are added one by one
// and Build freezes the result into a Catalog. It is not safe for
// concurrent use.
type Configuration struct {
	types           *reflection.Registry
	mappings        *model.Mappings
	dialect         dialect.Dialect
	log             logger.Logger
	continueOnError bool

	errs      []error
	documents int
}

// NewConfiguration returns an empty configuration.
func NewConfiguration(opts ...Option) *Configuration {
	c := &Configuration{
		types:    reflection.NewRegistry(),
		mappings: model.NewMappings(),
		log:      logger.NewStdLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterType makes sample's type resolvable under the class name used in
// mapping documents.
func (c *Configuration) RegisterType(name string, sample any) *Configuration {
	c.types.Register(name, sample)
	return c
}

// Types returns the type registry.
func (c *Configuration) Types() *reflection.Registry {
	return c.types
}

// Mappings returns the registry being filled.
func (c *Configuration) Mappings() *model.Mappings {
	return c.mappings
}

// AddDocument binds a parsed mapping document. source names it in logs and
// errors.
func (c *Configuration) AddDocument(root *descriptor.Node, source string) error {
	log := c.log.WithFields(map[string]any{"document": source})
	opts := []binder.Option{binder.WithLogger(log)}
	if c.dialect != nil {
		opts = append(opts, binder.WithDialect(c.dialect))
	}
	b := binder.NewMappingRootBinder(binder.New(c.mappings, reflection.NewResolver(c.types), opts...))
	b.ContinueOnError = c.continueOnError

	c.documents++
	if err := b.Bind(root); err != nil {
		err = fmt.Errorf("%s: %w", source, err)
		if !c.continueOnError {
			return err
		}
		c.errs = append(c.errs, err)
	}
	return nil
}

// AddXML parses and binds a mapping document.
func (c *Configuration) AddXML(r io.Reader, source string) error {
	root, err := descriptor.Parse(r)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	return c.AddDocument(root, source)
}

// AddFile parses and binds the mapping document at path.
func (c *Configuration) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.AddXML(f, path)
}

// AddDirectory binds every mapping document under dir in lexical path order.
func (c *Configuration) AddDirectory(dir string) error {
	docs, err := descriptor.LoadDir(dir)
	if err != nil {
		return err
	}
	c.log.Info("Found %d mapping documents in %s", len(docs), dir)
	for _, doc := range docs {
		if err := c.AddDocument(doc.Root, doc.Path); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the registry and checks that every identifier generator can
// be instantiated. With ContinueOnError the catalog of everything that did
// bind is returned together with the joined errors.
func (c *Configuration) Build() (*model.Catalog, error) {
	catalog := c.mappings.Freeze()
	errs := append([]error(nil), c.errs...)
	for _, e := range catalog.Entities() {
		if _, err := idgen.New(e); err != nil {
			errs = append(errs, err)
		}
	}
	c.log.Info("Built catalog: %d documents, %d entities, %d tables",
		c.documents, len(catalog.Entities()), len(catalog.Tables()))

	if err := errors.Join(errs...); err != nil {
		if !c.continueOnError {
			return nil, err
		}
		return catalog, err
	}
	return catalog, nil
}
