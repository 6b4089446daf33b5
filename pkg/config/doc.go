// Package config checks property bags against declared schemas at construction
// time and decodes them into typed configuration structs.
//
// # Schemas
//
// A [Schema] is an ordered list of [Field] descriptors. Each field names the
// type(s) a supplied value must have (or a predicate it must satisfy) and what
// happens when no usable value is supplied:
//
//   - [Required]: construction fails with MISSING_REQUIRED_PROPERTY
//   - [Default]: the default value is assigned
//   - [Optional]: the property is left unset
//
// Usable values are assigned verbatim; there is no coercion, so {"x": "5"}
// does not satisfy a [Number] field.
//
// # Typed configs
//
// [Decode] applies a schema to a bag and then decodes the result into a struct
// using mapstructure with the "config" tag:
//
//	type NodeConfig struct {
//	    X     float64 `config:"x"`
//	    Y     float64 `config:"y"`
//	    Label string  `config:"labelContent"`
//	}
//
//	var nodeSchema = config.Schema{Fields: []config.Field{
//	    config.Default("x", 0.0, config.Number()),
//	    config.Default("y", 0.0, config.Number()),
//	    config.Default("labelContent", "", config.String()),
//	}}
//
//	cfg, err := config.Decode[NodeConfig](nodeSchema, bag)
//
// # Argument checks
//
// [CheckArg] is the call-site counterpart: it returns the value when it
// matches, a default when one is given, and TYPE_MISMATCH otherwise.
package config
