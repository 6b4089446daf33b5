package document

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render/svg"
	"github.com/matzehuels/syntree/pkg/tree"
)

const sentenceJSON = `{
  "title": "The cat sat",
  "root": {
    "id": 1, "x": 100, "y": 20, "label": "S",
    "children": [
      {"id": 2, "x": 50, "y": 80, "label": "NP", "children": [{"id": 4, "x": 50, "y": 140, "label": "N"}]},
      {"id": 3, "x": 150, "y": 80, "label": "VP"}
    ]
  },
  "connectors": [{"from": 4, "to": 3}]
}`

const sentenceYAML = `title: The cat sat
root:
  id: 1
  x: 100
  y: 20
  label: S
  children:
    - id: 2
      x: 50
      y: 80
      label: NP
      children:
        - {id: 4, x: 50, y: 140, label: N}
    - {id: 3, x: 150, y: 80, label: VP}
connectors:
  - {from: 4, to: 3}
`

const sentenceTOML = `title = "The cat sat"

[root]
id = 1
x = 100
y = 20
label = "S"

[[root.children]]
id = 2
x = 50
y = 80
label = "NP"

[[root.children.children]]
id = 4
x = 50
y = 140
label = "N"

[[root.children]]
id = 3
x = 150
y = 80
label = "VP"

[[connectors]]
from = 4
to = 3
`

func sentence() *Document {
	return &Document{
		Title: "The cat sat",
		Root: &NodeSpec{ID: 1, X: 100, Y: 20, Label: "S", Children: []*NodeSpec{
			{ID: 2, X: 50, Y: 80, Label: "NP", Children: []*NodeSpec{{ID: 4, X: 50, Y: 140, Label: "N"}}},
			{ID: 3, X: 150, Y: 80, Label: "VP"},
		}},
		Connectors: []Connection{{From: 4, To: 3}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{".yaml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %s, want INVALID_FORMAT", tt.in, errors.GetCode(err))
		}
	}
}

func TestReadFormats(t *testing.T) {
	inputs := map[Format]string{
		FormatJSON: sentenceJSON,
		FormatYAML: sentenceYAML,
		FormatTOML: sentenceTOML,
	}
	want := sentence()
	for format, in := range inputs {
		got, err := Read(strings.NewReader(in), format)
		if err != nil {
			t.Fatalf("Read(%s) error: %v", format, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Read(%s) = %+v, want %+v", format, got, want)
		}
	}
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `{"root": `},
		{"root not object", `{"root": [1, 2]}`},
		{"child not object", `{"root": {"label": "S", "children": ["NP"]}}`},
		{"duplicate id", `{"root": {"id": 1, "label": "S", "children": [{"id": 1, "label": "NP"}]}}`},
		{"unknown connector end", `{"root": {"id": 1, "label": "S"}, "connectors": [{"from": 1, "to": 9}]}`},
		{"connector missing end", `{"root": {"id": 1, "label": "S"}, "connectors": [{"from": 1}]}`},
		{"negative connector end", `{"root": {"id": 1, "label": "S"}, "connectors": [{"from": 1, "to": -2}]}`},
		{"control character label", `{"root": {"label": "S\u0007"}}`},
		{"bad document id", `{"id": "../etc", "root": {"label": "S"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), FormatJSON)
			if err == nil {
				t.Fatal("Read() expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) && !errors.IsValidation(err) {
				t.Errorf("Read() code = %s, want a validation error", errors.GetCode(err))
			}
		})
	}
}

func TestReadUnusableValuesFallBack(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"title": 7, "root": {"x": "far", "label": ["S"], "id": 1.5}}`), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if doc.Title != "" {
		t.Errorf("Title = %q, want empty", doc.Title)
	}
	want := &NodeSpec{}
	if !reflect.DeepEqual(doc.Root, want) {
		t.Errorf("Root = %+v, want %+v", doc.Root, want)
	}
}

func TestReadEmpty(t *testing.T) {
	for _, format := range Formats {
		in := "{}"
		if format != FormatJSON {
			in = ""
		}
		doc, err := Read(strings.NewReader(in), format)
		if err != nil {
			t.Fatalf("Read(%s) error: %v", format, err)
		}
		if doc.Root != nil || doc.Len() != 0 {
			t.Errorf("Read(%s) root = %+v, want none", format, doc.Root)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	want := sentence()
	want.ID = "doc-1"
	for _, format := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, want, format); err != nil {
			t.Fatalf("Write(%s) error: %v", format, err)
		}
		got, err := Read(&buf, format)
		if err != nil {
			t.Fatalf("Read(%s) error: %v\n%s", format, err, buf.String())
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s round trip = %+v, want %+v", format, got, want)
		}
	}
}

func TestWriteIndentsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sentence(), FormatJSON); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"title\": \"The cat sat\"") {
		t.Errorf("Write() output not indented:\n%s", buf.String())
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"s.json", "s.yaml", "s.toml"} {
		path := filepath.Join(dir, name)
		if err := Export(sentence(), path); err != nil {
			t.Fatalf("Export(%s) error: %v", name, err)
		}
		got, err := Import(path)
		if err != nil {
			t.Fatalf("Import(%s) error: %v", name, err)
		}
		if got.Len() != 4 {
			t.Errorf("Import(%s).Len() = %d, want 4", name, got.Len())
		}
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Import(missing) code = %s, want INVALID_PATH", errors.GetCode(err))
	}
	bad := filepath.Join(dir, "s.txt")
	if err := os.WriteFile(bad, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Import(.txt) code = %s, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestBuild(t *testing.T) {
	tr, err := Build(sentence(), svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tr.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tr.Len())
	}
	root := tr.Root()
	if root == nil || root.ID() != 1 || root.Label() != "S" {
		t.Fatalf("Root() = %v, want S#1", root)
	}
	if got, want := root.ChildIDs(), []ident.ID{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("root.ChildIDs() = %v, want %v", got, want)
	}
	tr.Walk(func(n *tree.Node, _ int) bool {
		if !n.Real() {
			t.Errorf("node %v is not real", n)
		}
		return true
	})
	if len(tr.Edges()) != 3 {
		t.Errorf("len(Edges()) = %d, want 3", len(tr.Edges()))
	}
	n4, err := tr.Node(4)
	if err != nil {
		t.Fatalf("Node(4) error: %v", err)
	}
	if c := n4.Outgoing(); c == nil || c.To().ID() != 3 {
		t.Errorf("Node(4).Outgoing() = %v, want connector to 3", c)
	}
	for _, e := range tr.Edges() {
		from, to := e.From(), e.To()
		start, end := e.Line()
		if start != from.Position() || end != to.Position() {
			t.Errorf("edge %d line = %v-%v, want %v-%v", e.ID(), start, end, from.Position(), to.Position())
		}
	}
}

func TestBuildAllocatesAroundPinnedIDs(t *testing.T) {
	doc := &Document{Root: &NodeSpec{Label: "S", Children: []*NodeSpec{
		{ID: 1, Label: "NP"},
		{Label: "VP"},
		{ID: 2, Label: "PP"},
	}}}
	tr, err := Build(doc, svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	seen := make(map[ident.ID]string)
	for _, n := range tr.Nodes() {
		if prev, ok := seen[n.ID()]; ok {
			t.Errorf("ID %v shared by %s and %s", n.ID(), prev, n.Label())
		}
		seen[n.ID()] = n.Label()
	}
	if seen[1] != "NP" || seen[2] != "PP" {
		t.Errorf("pinned IDs = %v, want 1:NP 2:PP", seen)
	}
	if tr.Root().Label() != "S" {
		t.Errorf("Root() = %v, want S", tr.Root())
	}
	if next := tr.Allocator().Next(); next != 5 {
		t.Errorf("Allocator().Next() = %v, want 5", next)
	}
}

func TestBuildEmpty(t *testing.T) {
	tr, err := Build(&Document{Title: "empty"}, svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tr.Len() != 0 || tr.Root() != nil {
		t.Errorf("Build(empty) has %d nodes", tr.Len())
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	doc := sentence()
	doc.Connectors = append(doc.Connectors, Connection{From: 3, To: 3})
	if _, err := Build(doc, svg.New()); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Build(self connector) code = %s, want INVALID_DOCUMENT", errors.GetCode(err))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sentence()
	tr, err := Build(want, svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	got := Snapshot(tr, "", want.Title)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestSnapshotSkipsProvisional(t *testing.T) {
	tr, err := Build(sentence(), svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	vp, _ := tr.Node(3)
	draft, err := tr.NewNode(map[string]any{"label": "V"})
	if err != nil {
		t.Fatalf("NewNode() error: %v", err)
	}
	if err := vp.AddChild(draft); err != nil {
		t.Fatalf("AddChild() error: %v", err)
	}
	if _, err := tr.Connect(draft, tr.Root()); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	doc := Snapshot(tr, "doc-1", "draft")
	if doc.Len() != 4 {
		t.Errorf("Snapshot().Len() = %d, want 4", doc.Len())
	}
	if len(doc.Connectors) != 1 {
		t.Errorf("Snapshot().Connectors = %v, want only the saved connector", doc.Connectors)
	}
	if doc.ID != "doc-1" || doc.Title != "draft" {
		t.Errorf("Snapshot() header = %q %q", doc.ID, doc.Title)
	}
}

func TestSVG(t *testing.T) {
	tr, err := Build(sentence(), svg.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	out := string(SVG(tr, "Cats & dogs"))
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox=`,
		`<marker id="arrowhead"`,
		`<title>Cats &amp; dogs</title>`,
		`>NP</text>`,
		`class="branch"`,
		`marker-end="url(#arrowhead)"`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG() missing %q", want)
		}
	}
	if strings.Contains(out, "delete_button") {
		t.Errorf("SVG() exports editor chrome")
	}
}
