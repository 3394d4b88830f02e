package validator

import (
	"fmt"
	"net"
	"reflect"
	"slices"
)

// --- Required ---

type requiredRule struct {
	BaseRule
}

func (r *requiredRule) Validate(v any) error {
	if !r.ShouldValidate(v) {
		return nil
	}
	if isZeroValue(v) {
		return r.FormatError(fmt.Errorf("is required"))
	}
	return nil
}

func (r *requiredRule) Msg(msg string) Rule         { nr := *r; nr.SetMsg(msg); return &nr }
func (r *requiredRule) Optional() Rule              { nr := *r; nr.SetOptional(); return &nr }
func (r *requiredRule) When(fn func(any) bool) Rule { nr := *r; nr.SetWhen(fn); return &nr }

var Required Rule = &requiredRule{}

// --- Range ---

type rangeRule struct {
	BaseRule
	min, max float64
}

func (r *rangeRule) Validate(v any) error {
	if !r.ShouldValidate(v) {
		return nil
	}
	val := reflectToFloat(v)
	if val < r.min || val > r.max {
		return r.FormatError(fmt.Errorf("value must be between %v and %v", r.min, r.max))
	}
	return nil
}

func (r *rangeRule) Msg(msg string) Rule         { nr := *r; nr.SetMsg(msg); return &nr }
func (r *rangeRule) Optional() Rule              { nr := *r; nr.SetOptional(); return &nr }
func (r *rangeRule) When(fn func(any) bool) Rule { nr := *r; nr.SetWhen(fn); return &nr }

func Range(min, max float64) Rule {
	return &rangeRule{min: min, max: max}
}

func reflectToFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

// --- In ---

type inRule struct {
	BaseRule
	values []any
}

func (r *inRule) Validate(v any) error {
	if !r.ShouldValidate(v) {
		return nil
	}
	if slices.Contains(r.values, v) {
		return nil
	}
	return r.FormatError(fmt.Errorf("must be one of %v", r.values))
}

func (r *inRule) Msg(msg string) Rule         { nr := *r; nr.SetMsg(msg); return &nr }
func (r *inRule) Optional() Rule              { nr := *r; nr.SetOptional(); return &nr }
func (r *inRule) When(fn func(any) bool) Rule { nr := *r; nr.SetWhen(fn); return &nr }

func In(values ...any) Rule {
	return &inRule{values: values}
}

// --- HostPort ---

type hostPortRule struct {
	BaseRule
}

func (r *hostPortRule) Validate(v any) error {
	if !r.ShouldValidate(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return r.FormatError(fmt.Errorf("must be a host:port address"))
	}
	return nil
}

func (r *hostPortRule) Msg(msg string) Rule         { nr := *r; nr.SetMsg(msg); return &nr }
func (r *hostPortRule) Optional() Rule              { nr := *r; nr.SetOptional(); return &nr }
func (r *hostPortRule) When(fn func(any) bool) Rule { nr := *r; nr.SetWhen(fn); return &nr }

var HostPort Rule = &hostPortRule{}
