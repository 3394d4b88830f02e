package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableType is returned when a scalar type can neither be read
	// from the descriptor nor inferred from the mapped Go type.
	ErrUnresolvableType = errors.New("unresolvable type")
	// ErrIllegalIdentifier is returned for identifiers that cannot provide
	// value equality: arrays, and composite ids whose type lacks Equals or HashCode.
	ErrIllegalIdentifier = errors.New("illegal identifier")
	// ErrIllegalVersionGeneration is returned when a version or timestamp
	// property is generated on insert only.
	ErrIllegalVersionGeneration = errors.New("illegal version generation")
	// ErrUnknownClass is returned when a class name is not in the type registry.
	ErrUnknownClass = errors.New("unknown class")
	// ErrInvalidAttribute is returned for attribute values outside their domain.
	ErrInvalidAttribute = errors.New("invalid attribute")
	// ErrDuplicateMapping is returned when an entity name is mapped twice.
	ErrDuplicateMapping = errors.New("duplicate mapping")
	// ErrUnknownGenerator is returned for identifier generator strategies
	// nothing can instantiate.
	ErrUnknownGenerator = errors.New("unknown identifier generator")
)

// MappingError is a definition error: the descriptor of an entity cannot be
// bound. It is never retryable.
type MappingError struct {
	Entity  string // Class or entity name, when known
	Element string // Descriptor element at fault, e.g. "composite-id"
	Err     error  // One of the Err* sentinels
	Detail  string
}

func (e *MappingError) Error() string {
	msg := "mapping"
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.Element != "" {
		msg += " <" + e.Element + ">"
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// Errorf builds a MappingError with a formatted detail message.
func Errorf(entity, element string, err error, format string, args ...any) *MappingError {
	return &MappingError{
		Entity:  entity,
		Element: element,
		Err:     err,
		Detail:  fmt.Sprintf(format, args...),
	}
}
