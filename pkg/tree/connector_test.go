package tree

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/syntree/pkg/render"
)

func TestConnectPath(t *testing.T) {
	tr, _, _ := newTestTree(t)
	a := mustNode(t, tr, map[string]any{"x": 0, "y": 0})
	b := mustNode(t, tr, map[string]any{"x": 100, "y": 0})

	c, err := tr.Connect(a, b)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	// Fallback boxes are 10 wide, padded by 10 on each side.
	if got, want := c.Path(), "M 15 0 L 85 0"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if a.Outgoing() != c || b.Incoming() != c {
		t.Error("endpoints should reference the connector")
	}
	if !strings.Contains(c.ExportMarkup(), `d="M 15 0 L 85 0"`) {
		t.Errorf("ExportMarkup() = %s", c.ExportMarkup())
	}
}

func TestConnectFollowsMoves(t *testing.T) {
	tr, _, _ := newTestTree(t)
	a := mustNode(t, tr, nil)
	b := mustNode(t, tr, map[string]any{"x": 100})
	c, _ := tr.Connect(a, b)

	b.Move(0, 100, false)
	b.UpdateGraphics(false)
	attrs := tr.Renderer().Serialize(c.Graphic().Handle(elemPath))
	if !strings.Contains(attrs, `d="M 0 17.5 L 0 82.5"`) {
		t.Errorf("path after move = %s", attrs)
	}
}

func TestConnectReplaces(t *testing.T) {
	tr, _, _ := newTestTree(t)
	a := mustNode(t, tr, nil)
	b := mustNode(t, tr, map[string]any{"x": 50})
	d := mustNode(t, tr, map[string]any{"x": 90})

	first, _ := tr.Connect(a, b)
	second, _ := tr.Connect(a, d)
	if !first.Deleted() {
		t.Error("a new outgoing connector replaces the old one")
	}
	if b.Incoming() != nil {
		t.Error("old target should be released")
	}
	if len(tr.Connectors()) != 1 || tr.Connectors()[0] != second {
		t.Errorf("Connectors() = %v", tr.Connectors())
	}
}

func TestConnectErrors(t *testing.T) {
	tr, _, _ := newTestTree(t)
	a := mustNode(t, tr, nil)
	if _, err := tr.Connect(a, a); !stderrors.Is(err, ErrSelfConnect) {
		t.Errorf("Connect(a, a) error = %v", err)
	}
	other := New(tr.Renderer())
	foreign := mustNode(t, other, nil)
	if _, err := tr.Connect(a, foreign); !stderrors.Is(err, ErrNodeNotFound) {
		t.Errorf("Connect to foreign node error = %v", err)
	}
}

func TestExitPoint(t *testing.T) {
	box := render.NewBox(-10, -5, 20, 10)
	tests := []struct {
		target render.Point
		want   render.Point
	}{
		{render.Point{X: 100, Y: 0}, render.Point{X: 10, Y: 0}},
		{render.Point{X: 0, Y: -100}, render.Point{X: 0, Y: -5}},
		{render.Point{X: 0, Y: 0}, render.Point{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		if got := exitPoint(box, render.Point{}, tt.target); got != tt.want {
			t.Errorf("exitPoint(%+v) = %+v, want %+v", tt.target, got, tt.want)
		}
	}
}
