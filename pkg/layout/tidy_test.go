package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/syntree/pkg/render/svg"
	"github.com/matzehuels/syntree/pkg/tree"
)

func newTree(t *testing.T) *tree.Tree {
	t.Helper()
	return tree.New(svg.New(), tree.WithLayout(NewTidy()))
}

func node(t *testing.T, tr *tree.Tree, label string) *tree.Node {
	t.Helper()
	n, err := tr.NewNode(map[string]any{"label": label, "real": true})
	if err != nil {
		t.Fatalf("NewNode(%q) error: %v", label, err)
	}
	return n
}

func TestRedistributeRows(t *testing.T) {
	tr := newTree(t)
	root := node(t, tr, "S")
	root.Move(200, 20, false)
	a, b := node(t, tr, "NP"), node(t, tr, "VP")
	_ = root.AddChild(a)
	_ = root.AddChild(b)

	NewTidy().Redistribute(root)

	if a.Position().Y != 80 || b.Position().Y != 80 {
		t.Errorf("children y = %v, %v, want 80", a.Position().Y, b.Position().Y)
	}
	if a.Position().X >= b.Position().X {
		t.Error("children should keep their order left to right")
	}
	mid := (a.Position().X + b.Position().X) / 2
	if math.Abs(mid-200) > 1e-9 {
		t.Errorf("children centered at %v, want 200", mid)
	}
	if root.Position().X != 200 || root.Position().Y != 20 {
		t.Error("root must not move")
	}
	if !a.Graphic().Synced("position") {
		t.Error("Redistribute should redraw the subtree")
	}
}

func TestRedistributeSeparatesSubtrees(t *testing.T) {
	tr := newTree(t)
	root := node(t, tr, "S")
	a, b := node(t, tr, "NP"), node(t, tr, "VP")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	for _, l := range []string{"Det", "Adj", "N"} {
		_ = a.AddChild(node(t, tr, l))
	}

	l := NewTidy()
	l.Redistribute(root)

	widths := SubtreeWidths(root, l.SiblingGap)
	gap := b.Position().X - a.Position().X
	want := widths[a.ID()]/2 + l.SiblingGap + widths[b.ID()]/2
	if math.Abs(gap-want) > 1e-9 {
		t.Errorf("distance NP-VP = %v, want %v", gap, want)
	}

	kids := a.Children()
	for i := 1; i < len(kids); i++ {
		prev, cur := kids[i-1].LabelBBox(), kids[i].LabelBBox()
		if cur.X < prev.X2 {
			t.Errorf("labels %s and %s overlap", kids[i-1].Label(), kids[i].Label())
		}
	}
	if kids[0].Position().Y != 120 {
		t.Errorf("grandchildren y = %v, want 120", kids[0].Position().Y)
	}
}

func TestSubtreeWidths(t *testing.T) {
	tr := newTree(t)
	root := node(t, tr, "Sentence")
	leaf := node(t, tr, "a")
	_ = root.AddChild(leaf)

	w := SubtreeWidths(root, 20)
	if w[leaf.ID()] != leaf.LabelBBox().W {
		t.Errorf("leaf width = %v, want label width %v", w[leaf.ID()], leaf.LabelBBox().W)
	}
	if w[root.ID()] != root.LabelBBox().W {
		t.Errorf("root width = %v, want its wider label %v", w[root.ID()], root.LabelBBox().W)
	}
}

func TestDeleteRedistributes(t *testing.T) {
	tr := newTree(t)
	root := node(t, tr, "S")
	a, b, c := node(t, tr, "A"), node(t, tr, "B"), node(t, tr, "C")
	for _, n := range []*tree.Node{a, b, c} {
		_ = root.AddChild(n)
	}
	tr.Redistribute()
	before := a.Position().X

	b.Delete()
	if a.Position().X <= before {
		t.Errorf("remaining children should close the gap, x %v -> %v", before, a.Position().X)
	}
	mid := (a.Position().X + c.Position().X) / 2
	if math.Abs(mid-root.Position().X) > 1e-9 {
		t.Errorf("children centered at %v, want %v", mid, root.Position().X)
	}
}

func TestZeroValueUsesDefaults(t *testing.T) {
	tr := newTree(t)
	root := node(t, tr, "S")
	a := node(t, tr, "A")
	_ = root.AddChild(a)
	Tidy{}.Redistribute(root)
	if a.Position().Y != DefaultLevelGap {
		t.Errorf("child y = %v, want %v", a.Position().Y, DefaultLevelGap)
	}
	Tidy{}.Redistribute(nil)
}
