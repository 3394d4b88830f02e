// Package jormap binds declarative mapping documents into an immutable
// catalog of entities, tables and identifier strategies.
package jormap

import (
	"github.com/shrek82/jormap/core"
	"github.com/shrek82/jormap/model"
	"github.com/shrek82/jormap/validator"
)

// Re-export core types and functions
type Configuration = core.Configuration
type Option = core.Option
type DB = core.DB

var (
	NewConfiguration    = core.NewConfiguration
	WithDialect         = core.WithDialect
	WithLogger          = core.WithLogger
	WithNamingStrategy  = core.WithNamingStrategy
	WithSchema          = core.WithSchema
	WithTypeRegistry    = core.WithTypeRegistry
	WithContinueOnError = core.WithContinueOnError

	Open = core.Open
)

// Re-export model types and definition errors
type Catalog = model.Catalog
type Entity = model.Entity
type MappingError = model.MappingError

var (
	ErrUnresolvableType         = model.ErrUnresolvableType
	ErrIllegalIdentifier        = model.ErrIllegalIdentifier
	ErrIllegalVersionGeneration = model.ErrIllegalVersionGeneration
	ErrUnknownClass             = model.ErrUnknownClass
	ErrInvalidAttribute         = model.ErrInvalidAttribute
	ErrDuplicateMapping         = model.ErrDuplicateMapping
	ErrUnknownGenerator         = model.ErrUnknownGenerator
)

// Re-export validator types and functions
type ValidationErrors = validator.ValidationErrors
type Rules = validator.Rules
type Rule = validator.Rule

var (
	Required = validator.Required
	HostPort = validator.HostPort
	Range    = validator.Range
	In       = validator.In
)
