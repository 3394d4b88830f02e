package reflection

import (
	"reflect"
	"strings"
	"sync"
)

// Registry maps class names used in descriptors to Go types. Go cannot load
// a type by name, so every mapped type is registered before the load pass.
type Registry struct {
	// AllowUnregistered turns unknown class names into dynamic entities
	// instead of definition errors.
	AllowUnregistered bool

	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register records the type of sample under name. Pointers are unwrapped, so
// Register("Order", &Order{}) and Register("Order", Order{}) are equivalent.
func (r *Registry) Register(name string, sample any) {
	r.RegisterType(name, reflect.TypeOf(sample))
}

// RegisterType records typ under name.
func (r *Registry) RegisterType(name string, typ reflect.Type) {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = typ
}

// Lookup returns the type registered under name. An unqualified name also
// matches a single registration whose last dotted segment equals it.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.types[name]; ok {
		return t, true
	}
	if strings.Contains(name, ".") {
		return nil, false
	}

	var found reflect.Type
	for key, t := range r.types {
		i := strings.LastIndexByte(key, '.')
		if i >= 0 && key[i+1:] == name {
			if found != nil {
				return nil, false // ambiguous
			}
			found = t
		}
	}
	return found, found != nil
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
