package config

import (
	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/syntree/pkg/errors"
)

// TagName is the struct tag read by Decode.
const TagName = "config"

// Decode applies schema to supplied and decodes the result into a new T.
// A failed validation returns the zero T, so no partially configured value
// escapes.
func Decode[T any](schema Schema, supplied map[string]any) (T, error) {
	var zero T
	bag, err := schema.resolve(supplied)
	if err != nil {
		return zero, err
	}

	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: TagName,
	})
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeUsage, err, "cannot decode into %T", out)
	}
	if err := dec.Decode(bag); err != nil {
		return zero, errors.Wrap(errors.ErrCodeTypeMismatch, err, "decode %T", out)
	}
	return out, nil
}
