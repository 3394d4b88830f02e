package model

import "fmt"

// PropertyGeneration tells when the database generates a property value.
type PropertyGeneration int

const (
	GenerationNever PropertyGeneration = iota
	GenerationInsert
	GenerationAlways
)

// ParseGeneration parses the "generated" attribute.
func ParseGeneration(s string) (PropertyGeneration, error) {
	switch s {
	case "", "never":
		return GenerationNever, nil
	case "insert":
		return GenerationInsert, nil
	case "always":
		return GenerationAlways, nil
	}
	return GenerationNever, fmt.Errorf("unknown generation %q", s)
}

func (g PropertyGeneration) String() string {
	switch g {
	case GenerationInsert:
		return "insert"
	case GenerationAlways:
		return "always"
	}
	return "never"
}

// Property is a named member of an entity or component.
type Property struct {
	Name           string
	Value          Value
	Accessor       string
	Generation     PropertyGeneration
	Insertable     bool
	Updateable     bool
	OptimisticLock bool
	IsLazy         bool
}

// NewProperty wraps v with default flags.
func NewProperty(v Value) *Property {
	return &Property{
		Value:          v,
		Insertable:     true,
		Updateable:     true,
		OptimisticLock: true,
	}
}

// Type returns the scalar type of a simple property, or nil for components.
func (p *Property) Type() *ScalarType {
	return p.Value.Type()
}
