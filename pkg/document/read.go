package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/syntree/pkg/config"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/tree"
)

var documentSchema = config.Schema{
	Fields: []config.Field{
		config.Default("id", "", config.String()),
		config.Default("title", "", config.String()),
		config.Optional("root", config.Map()),
		config.Optional("connectors", config.Slice()),
	},
}

var connectionSchema = config.Schema{
	Fields: []config.Field{
		config.Required("from", config.Number()),
		config.Required("to", config.Number()),
	},
}

// Import reads a document from path, inferring the format from its extension.
func Import(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes and validates a document.
func Read(r io.Reader, format Format) (*Document, error) {
	raw, err := decodeRaw(r, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", format)
	}
	return FromMap(raw)
}

func decodeRaw(r io.Reader, format Format) (map[string]any, error) {
	raw := map[string]any{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		return normalizeJSON(raw).(map[string]any), nil
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	return raw, nil
}

// normalizeJSON turns json.Number into int64 where the number is whole, so
// IDs round-trip without passing through float64.
func normalizeJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeJSON(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalizeJSON(e)
		}
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	}
	return v
}

// FromMap validates a decoded property tree and converts it to a Document.
// Node objects are checked with tree.NodeSchema.
func FromMap(raw map[string]any) (*Document, error) {
	top := map[string]any{}
	if err := documentSchema.Apply(raw, top); err != nil {
		return nil, invalid(err, "document")
	}
	doc := &Document{ID: top["id"].(string), Title: top["title"].(string)}

	if v, ok := raw["root"]; ok && v != nil {
		if _, err := config.CheckArg(v, []config.Type{config.Map()}); err != nil {
			return nil, invalid(err, "root")
		}
		root, err := nodeFromMap(toStringMap(v), "root")
		if err != nil {
			return nil, err
		}
		doc.Root = root
	}

	if v, ok := top["connectors"]; ok {
		items, err := mapList(v, "connectors")
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			c, err := config.Decode[Connection](connectionSchema, item)
			if err != nil {
				return nil, invalid(err, fmt.Sprintf("connectors[%d]", i))
			}
			doc.Connectors = append(doc.Connectors, c)
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func nodeFromMap(bag map[string]any, path string) (*NodeSpec, error) {
	cfg, err := config.Decode[tree.NodeConfig](tree.NodeSchema, bag)
	if err != nil {
		return nil, invalid(err, path)
	}
	if err := errors.ValidateLabel(cfg.Label); err != nil {
		return nil, invalid(err, path)
	}
	spec := &NodeSpec{ID: cfg.ID, X: cfg.X, Y: cfg.Y, Label: cfg.Label}

	v, err := config.CheckArg(bag["children"], []config.Type{config.Slice()}, config.NoValue)
	if err != nil || v == nil {
		return spec, nil
	}
	items, err := mapList(v, path+".children")
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		child, err := nodeFromMap(item, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		spec.Children = append(spec.Children, child)
	}
	return spec, nil
}

// mapList converts a decoded array of objects. TOML yields []map[string]any
// for arrays of tables while JSON and YAML yield []any.
func mapList(v any, path string) ([]map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "%s: expected array", path)
	}
	out := make([]map[string]any, 0, rv.Len())
	for i := range rv.Len() {
		item := rv.Index(i).Interface()
		if !config.Map().Match(item) {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "%s[%d]: expected object", path, i)
		}
		out = append(out, toStringMap(item))
	}
	return out, nil
}

func toStringMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

func invalid(err error, path string) error {
	return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s", path)
}

// ReadBytes is Read over an in-memory buffer.
func ReadBytes(data []byte, format Format) (*Document, error) {
	return Read(bytes.NewReader(data), format)
}
