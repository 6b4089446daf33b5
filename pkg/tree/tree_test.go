package tree

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/svg"
)

type recordingLayout struct {
	calls []ident.ID
}

func (l *recordingLayout) Redistribute(root *Node) { l.calls = append(l.calls, root.ID()) }

func newTestTree(t *testing.T, opts ...Option) (*Tree, *svg.Document, *recordingLayout) {
	t.Helper()
	doc := svg.New()
	l := &recordingLayout{}
	tr := New(doc, append([]Option{WithLayout(l)}, opts...)...)
	return tr, doc, l
}

func mustNode(t *testing.T, tr *Tree, props map[string]any) *Node {
	t.Helper()
	n, err := tr.NewNode(props)
	if err != nil {
		t.Fatalf("NewNode(%v) error: %v", props, err)
	}
	return n
}

// buildTree creates root(S) -> [a(NP) -> [c(N)], b(VP)].
func buildTree(t *testing.T, tr *Tree) (root, a, b, c *Node) {
	t.Helper()
	root = mustNode(t, tr, map[string]any{"label": "S", "x": 100, "y": 20, "real": true})
	a = mustNode(t, tr, map[string]any{"label": "NP", "x": 50, "y": 80, "real": true})
	b = mustNode(t, tr, map[string]any{"label": "VP", "x": 150, "y": 80, "real": true})
	c = mustNode(t, tr, map[string]any{"label": "N", "x": 50, "y": 140, "real": true})
	for _, step := range []struct{ p, c *Node }{{root, a}, {root, b}, {a, c}} {
		if err := step.p.AddChild(step.c); err != nil {
			t.Fatalf("AddChild error: %v", err)
		}
	}
	root.UpdateGraphics(true)
	return root, a, b, c
}

func TestNewNodeDefaults(t *testing.T) {
	tr, _, _ := newTestTree(t)
	n := mustNode(t, tr, map[string]any{})
	if n.ID() != 1 {
		t.Errorf("ID() = %v, want 1", n.ID())
	}
	if p := n.Position(); p != (render.Point{}) {
		t.Errorf("Position() = %+v, want origin", p)
	}
	if n.Real() || n.Editing() || n.Selected() {
		t.Errorf("State() = %+v, want all false", n.State())
	}
	if tr.Root() != n {
		t.Error("first node should become the root")
	}
	if len(n.Graphic().Dirty()) != 0 {
		t.Errorf("new node should be drawn, dirty = %v", n.Graphic().Dirty())
	}
}

func TestNewNodeValidation(t *testing.T) {
	tr, doc, _ := newTestTree(t)
	_, err := tr.NewNode(map[string]any{"label": "a\x00b"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("NewNode() error = %v, want INVALID_INPUT", err)
	}
	if !errors.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false", err)
	}
	if tr.Len() != 0 || doc.Len() != 0 {
		t.Errorf("failed construction left %d nodes and %d elements", tr.Len(), doc.Len())
	}
	if tr.Allocator().Peek() != 1 {
		t.Errorf("failed construction consumed an id, next = %v", tr.Allocator().Peek())
	}
}

func TestNewNodeUnusableValuesFallBack(t *testing.T) {
	tr, _, _ := newTestTree(t)
	n := mustNode(t, tr, map[string]any{"x": "5", "y": 3, "id": 1.5, "label": 42})
	if n.Position() != (render.Point{X: 0, Y: 3}) {
		t.Errorf("Position() = %+v, want (0, 3)", n.Position())
	}
	if n.ID() != 1 {
		t.Errorf("ID() = %v, want allocated 1", n.ID())
	}
	if n.Label() != "" {
		t.Errorf("Label() = %q, want default", n.Label())
	}
}

func TestNewNodeExplicitID(t *testing.T) {
	tr, _, _ := newTestTree(t)
	n := mustNode(t, tr, map[string]any{"id": 7})
	if n.ID() != 7 {
		t.Errorf("ID() = %v, want 7", n.ID())
	}
	if _, err := tr.NewNode(map[string]any{"id": 7}); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("second id 7 error = %v, want DUPLICATE_ID", err)
	}
	other := mustNode(t, tr, nil)
	if other.ID() == 7 {
		t.Error("allocator handed out a reserved id")
	}
}

func TestNodeLookup(t *testing.T) {
	tr, _, _ := newTestTree(t)
	n := mustNode(t, tr, nil)
	got, err := tr.Node(n.ID())
	if err != nil || got != n {
		t.Errorf("Node(%v) = %v, %v", n.ID(), got, err)
	}
	_, err = tr.Node(99)
	if !stderrors.Is(err, ErrNodeNotFound) || !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Node(99) error = %v, want ErrNodeNotFound", err)
	}
}

func TestSelectSwitchesSelection(t *testing.T) {
	tr, doc, _ := newTestTree(t)
	root, a, _, _ := buildTree(t, tr)

	if err := tr.Select(root); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if tr.Selected() != root {
		t.Fatal("root should be selected")
	}
	if got := doc.Attrs(root.Graphic().Handle(elemHighlight))["fill"]; got != "rgba(0,0,0,0.2)" {
		t.Errorf("highlight fill = %v", got)
	}

	a.Select()
	if root.Selected() {
		t.Error("selecting a should deselect root")
	}
	if tr.Selected() != a {
		t.Error("a should be selected")
	}
	if got := doc.Attrs(root.Graphic().Handle(elemDeleteButton))["width"]; got != 0 {
		t.Errorf("delete button width = %v, want 0", got)
	}

	tr.ClearSelection()
	if tr.Selected() != nil || a.Selected() {
		t.Error("ClearSelection should deselect")
	}
	if a.Deleted() {
		t.Error("deselecting a real node must not delete it")
	}
}

func TestExportMarkup(t *testing.T) {
	tr, _, _ := newTestTree(t)
	buildTree(t, tr)
	got := tr.ExportMarkup()
	for _, want := range []string{">S</text>", ">NP</text>", ">VP</text>", ">N</text>", `class="branch"`} {
		if !strings.Contains(got, want) {
			t.Errorf("ExportMarkup() missing %s", want)
		}
	}
	if strings.Contains(got, "<rect") || strings.Contains(got, "<input") {
		t.Error("ExportMarkup() should include only labels and lines")
	}
}

func TestWalkOrder(t *testing.T) {
	tr, _, _ := newTestTree(t)
	buildTree(t, tr)
	var labels []string
	var depths []int
	tr.Walk(func(n *Node, depth int) bool {
		labels = append(labels, n.Label())
		depths = append(depths, depth)
		return true
	})
	want := []string{"S", "NP", "N", "VP"}
	if len(labels) != len(want) {
		t.Fatalf("Walk visited %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Walk[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
	if depths[2] != 2 {
		t.Errorf("depth of N = %d, want 2", depths[2])
	}
}

func TestBounds(t *testing.T) {
	tr, _, _ := newTestTree(t)
	buildTree(t, tr)
	b := tr.Bounds()
	if b.X > 50 || b.X2 < 150 || b.Y > 20 || b.Y2 < 140 {
		t.Errorf("Bounds() = %+v does not enclose all nodes", b)
	}
}
