package config

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/matzehuels/syntree/pkg/errors"
)

// Type decides whether a supplied value is usable for a field.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "number").
	Name() string
	// Match reports whether value has this type.
	Match(value any) bool
}

type kindType struct {
	name  string
	match func(any) bool
}

func (t kindType) Name() string         { return t.name }
func (t kindType) Match(value any) bool { return value != nil && t.match(value) }

// Number matches every Go integer and floating point kind except NaN.
func Number() Type {
	return kindType{name: "number", match: func(v any) bool {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Float32, reflect.Float64:
			return !math.IsNaN(rv.Float())
		}
		return false
	}}
}

// String matches string values.
func String() Type {
	return kindType{name: "string", match: func(v any) bool {
		_, ok := v.(string)
		return ok
	}}
}

// Bool matches boolean values.
func Bool() Type {
	return kindType{name: "boolean", match: func(v any) bool {
		_, ok := v.(bool)
		return ok
	}}
}

// Map matches string-keyed maps, the shape of a nested property bag.
func Map() Type {
	return kindType{name: "object", match: func(v any) bool {
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
	}}
}

// Slice matches slices and arrays of any element type.
func Slice() Type {
	return kindType{name: "array", match: func(v any) bool {
		k := reflect.ValueOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}}
}

// Func matches non-nil function values.
func Func() Type {
	return kindType{name: "function", match: func(v any) bool {
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Func && !rv.IsNil()
	}}
}

// Custom creates a named type from a match function.
func Custom(name string, match func(any) bool) Type {
	return kindType{name: name, match: match}
}

// noValue is the sentinel default meaning "leave the property unset".
type noValue struct{}

// NoValue as a field default leaves the property unset instead of failing.
var NoValue any = noValue{}

// Field describes one property of a schema.
type Field struct {
	Name string
	// Types lists the accepted types; a value matching any of them is usable.
	Types []Type
	// Predicate, when set, replaces Types as the usability check.
	Predicate func(value any) bool
	// Default is assigned when no usable value is supplied. It is only
	// consulted when HasDefault is true.
	Default    any
	HasDefault bool
}

// Required declares a field with no default.
func Required(name string, types ...Type) Field {
	return Field{Name: name, Types: types}
}

// Default declares a field that falls back to def.
func Default(name string, def any, types ...Type) Field {
	return Field{Name: name, Types: types, Default: def, HasDefault: true}
}

// Optional declares a field that is left unset when absent.
func Optional(name string, types ...Type) Field {
	return Field{Name: name, Types: types, Default: NoValue, HasDefault: true}
}

// Satisfies declares a required field checked by a predicate.
func Satisfies(name string, pred func(any) bool) Field {
	return Field{Name: name, Predicate: pred}
}

// check verifies the descriptor itself is well-formed.
func (f Field) check() error {
	if f.Name == "" {
		return errors.New(errors.ErrCodeUsage, "schema field has no name")
	}
	if len(f.Types) == 0 && f.Predicate == nil {
		return errors.New(errors.ErrCodeUsage, "field %q declares neither a type nor a predicate", f.Name)
	}
	return nil
}

// usable reports whether value satisfies the field.
func (f Field) usable(value any) bool {
	if f.Predicate != nil {
		return value != nil && f.Predicate(value)
	}
	return matchAny(value, f.Types)
}

func (f Field) typeNames() string {
	if f.Predicate != nil {
		return "predicate"
	}
	return typeNames(f.Types)
}

// Schema is an ordered set of field descriptors.
type Schema struct {
	Fields []Field
	// AcceptUnmapped copies supplied properties absent from Fields verbatim.
	// When false they are silently dropped.
	AcceptUnmapped bool
}

// Has reports whether the schema declares name.
func (s Schema) Has(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Apply validates supplied against the schema and assigns the result to
// target. Nothing is written to target unless every field passes.
func (s Schema) Apply(supplied, target map[string]any) error {
	out, err := s.resolve(supplied)
	if err != nil {
		return err
	}
	for k, v := range out {
		target[k] = v
	}
	return nil
}

// Apply is shorthand for schema.Apply(supplied, target).
func Apply(schema Schema, supplied, target map[string]any) error {
	return schema.Apply(supplied, target)
}

func (s Schema) resolve(supplied map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if err := f.check(); err != nil {
			return nil, err
		}

		value, present := supplied[f.Name]
		if present && f.usable(value) {
			out[f.Name] = value
			continue
		}

		if !f.HasDefault {
			reason := "required"
			code := errors.ErrCodeMissingRequired
			if present && value != nil {
				reason = fmt.Sprintf("expected %s", f.typeNames())
				code = errors.ErrCodeTypeMismatch
			}
			return nil, errors.Wrap(code, &FieldError{Field: f.Name, Reason: reason, Value: value},
				"you must provide a value for %q", f.Name)
		}
		if _, unset := f.Default.(noValue); !unset {
			out[f.Name] = f.Default
		}
	}

	if s.AcceptUnmapped {
		for k, v := range supplied {
			if !s.Has(k) {
				out[k] = v
			}
		}
	}
	return out, nil
}

// CheckArg returns value when it matches one of types. Otherwise it returns
// the first element of def if given (nil for NoValue), and fails with
// TYPE_MISMATCH when no default is given.
func CheckArg(value any, types []Type, def ...any) (any, error) {
	if len(types) == 0 {
		return nil, errors.New(errors.ErrCodeUsage, "CheckArg requires at least one type")
	}
	if matchAny(value, types) {
		return value, nil
	}
	if len(def) > 0 {
		if _, unset := def[0].(noValue); unset {
			return nil, nil
		}
		return def[0], nil
	}
	return nil, errors.New(errors.ErrCodeTypeMismatch,
		"argument is required to be type %s, was %s", typeNames(types), describe(value))
}

// FieldError carries the detail of a single field failure.
type FieldError struct {
	Field  string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Field, e.Reason, e.Value)
}

func matchAny(value any, types []Type) bool {
	for _, t := range types {
		if t.Match(value) {
			return true
		}
	}
	return false
}

func typeNames(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, " or ")
}

func describe(value any) string {
	if value == nil {
		return "undefined"
	}
	return fmt.Sprintf("%T", value)
}
