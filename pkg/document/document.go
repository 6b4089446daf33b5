package document

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
)

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Document is the persistent form of a tree diagram.
type Document struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty" msgpack:"id,omitempty" bson:"_id,omitempty"`
	Title      string       `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty" msgpack:"title,omitempty" bson:"title,omitempty"`
	Root       *NodeSpec    `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty" msgpack:"root,omitempty" bson:"root,omitempty"`
	Connectors []Connection `json:"connectors,omitempty" yaml:"connectors,omitempty" toml:"connectors,omitempty" msgpack:"connectors,omitempty" bson:"connectors,omitempty"`
}

// NodeSpec is one node and its subtree.
type NodeSpec struct {
	ID       ident.ID    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty" msgpack:"id,omitempty" bson:"id,omitempty"`
	X        float64     `json:"x" yaml:"x" toml:"x" msgpack:"x" bson:"x"`
	Y        float64     `json:"y" yaml:"y" toml:"y" msgpack:"y" bson:"y"`
	Label    string      `json:"label" yaml:"label" toml:"label" msgpack:"label" bson:"label"`
	Children []*NodeSpec `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" msgpack:"children,omitempty" bson:"children,omitempty"`
}

// Connection is a movement connector between two nodes.
type Connection struct {
	From ident.ID `json:"from" yaml:"from" toml:"from" msgpack:"from" bson:"from" config:"from"`
	To   ident.ID `json:"to" yaml:"to" toml:"to" msgpack:"to" bson:"to" config:"to"`
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	if d == nil || d.Root == nil {
		return 0
	}
	n := 0
	d.Root.Walk(func(*NodeSpec) { n++ })
	return n
}

// Walk visits s and its descendants in pre-order.
func (s *NodeSpec) Walk(fn func(*NodeSpec)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// Validate checks the document ID and that node IDs are unique and
// connectors reference nodes of the document.
func (d *Document) Validate() error {
	if d.ID != "" {
		if err := errors.ValidateDocumentID(d.ID); err != nil {
			return err
		}
	}
	seen := make(map[ident.ID]bool)
	var dup ident.ID
	d.Root.Walk(func(s *NodeSpec) {
		if !s.ID.Valid() {
			return
		}
		if seen[s.ID] && !dup.Valid() {
			dup = s.ID
		}
		seen[s.ID] = true
	})
	if dup.Valid() {
		return errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %s", dup)
	}
	for _, c := range d.Connectors {
		if !seen[c.From] || !seen[c.To] {
			return errors.New(errors.ErrCodeInvalidDocument, "connector %s->%s references an unknown node", c.From, c.To)
		}
	}
	return nil
}
