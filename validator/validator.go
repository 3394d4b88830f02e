package validator

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ValidationErrors is a map of field names to their validation errors.
type ValidationErrors map[string][]error

func (v ValidationErrors) Error() string {
	var sb strings.Builder
	for _, field := range slices.Sorted(maps.Keys(v)) {
		for _, err := range v[field] {
			if sb.Len() > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", field, err))
		}
	}
	return sb.String()
}

// Rule is the interface for a single validation rule.
type Rule interface {
	Validate(value any) error
	Msg(msg string) Rule
	Optional() Rule
	When(fn func(value any) bool) Rule
}

// BaseRule provides common functionality for all rules.
type BaseRule struct {
	msg      string
	optional bool
	when     func(value any) bool
}

func (r *BaseRule) SetMsg(msg string) {
	r.msg = msg
}

func (r *BaseRule) SetOptional() {
	r.optional = true
}

func (r *BaseRule) SetWhen(fn func(value any) bool) {
	r.when = fn
}

// ShouldValidate checks if the rule should be executed based on optional and when conditions.
func (r *BaseRule) ShouldValidate(value any) bool {
	if r.when != nil && !r.when(value) {
		return false
	}
	if r.optional {
		return !isZeroValue(value)
	}
	return true
}

// FormatError returns the custom message if set, otherwise returns the default error.
func (r *BaseRule) FormatError(defaultErr error) error {
	if r.msg != "" {
		return fmt.Errorf("%s", r.msg)
	}
	return defaultErr
}

func isZeroValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// Rules maps field paths to validation rules. A path may name a nested
// struct field with dots: "Cache.Provider".
type Rules map[string][]Rule

// Validate runs every rule against its field of value.
func (r Rules) Validate(value any) error {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validator: value must be a struct or pointer to struct")
	}

	errs := make(ValidationErrors)
	for path, rules := range r {
		field, ok := fieldByPath(rv, path)
		if !ok {
			continue
		}
		val := field.Interface()
		for _, rule := range rules {
			if err := rule.Validate(val); err != nil {
				errs[path] = append(errs[path], err)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldByPath(rv reflect.Value, path string) (reflect.Value, bool) {
	for _, name := range strings.Split(path, ".") {
		for rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		rv = rv.FieldByName(name)
		if !rv.IsValid() {
			return reflect.Value{}, false
		}
	}
	return rv, true
}
