// Package layout positions the nodes of a tree diagram.
//
// [Tidy] places each row of children a fixed gap below its parent and
// spreads siblings left to right, giving every subtree as much horizontal
// room as its widest row needs. The parent stays where it is and its
// children are centered beneath it.
package layout

import (
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/tree"
)

const (
	DefaultLevelGap   = 60.0
	DefaultSiblingGap = 20.0
)

// Tidy is a top-down tree layout. The zero value uses the defaults.
type Tidy struct {
	// LevelGap is the vertical distance between a parent and its children.
	LevelGap float64
	// SiblingGap is the horizontal space between adjacent subtrees.
	SiblingGap float64
}

var _ tree.Layout = Tidy{}

// NewTidy returns a Tidy with the default gaps.
func NewTidy() Tidy {
	return Tidy{LevelGap: DefaultLevelGap, SiblingGap: DefaultSiblingGap}
}

// Redistribute repositions every descendant of root and redraws the
// subtree. root itself does not move.
func (l Tidy) Redistribute(root *tree.Node) {
	if root == nil || root.Deleted() {
		return
	}
	l = l.withDefaults()
	widths := SubtreeWidths(root, l.SiblingGap)
	l.place(root, widths)
	root.UpdateGraphics(true)
}

func (l Tidy) place(n *tree.Node, widths map[ident.ID]float64) {
	children := n.Children()
	if len(children) == 0 {
		return
	}
	total := l.SiblingGap * float64(len(children)-1)
	for _, c := range children {
		total += widths[c.ID()]
	}

	pos := n.Position()
	left := pos.X - total/2
	y := pos.Y + l.LevelGap
	for _, c := range children {
		w := widths[c.ID()]
		c.Move(left+w/2, y, false)
		l.place(c, widths)
		left += w + l.SiblingGap
	}
}

func (l Tidy) withDefaults() Tidy {
	if l.LevelGap <= 0 {
		l.LevelGap = DefaultLevelGap
	}
	if l.SiblingGap < 0 {
		l.SiblingGap = DefaultSiblingGap
	}
	return l
}

// SubtreeWidths returns the horizontal room each node of the subtree needs:
// the wider of its own label and its children laid side by side.
func SubtreeWidths(root *tree.Node, gap float64) map[ident.ID]float64 {
	widths := make(map[ident.ID]float64)
	var visit func(n *tree.Node) float64
	visit = func(n *tree.Node) float64 {
		children := n.Children()
		row := 0.0
		for i, c := range children {
			if i > 0 {
				row += gap
			}
			row += visit(c)
		}
		w := max(n.LabelBBox().W, row)
		widths[n.ID()] = w
		return w
	}
	visit(root)
	return widths
}
