package tree

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/graphic"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/render"
)

// Fallback label box used while a label is empty or not drawn.
const (
	fallbackWidth  = 10.0
	fallbackHeight = 15.0
)

// EditAction is a step of the in-place label editor.
type EditAction int

const (
	// EditInit opens the editor on the current label.
	EditInit EditAction = iota
	// EditUpdate copies the editor's value to the label while editing.
	EditUpdate
	// EditSave commits the editor's value and makes the node real.
	EditSave
	// EditCancel restores the label from before EditInit.
	EditCancel
)

var editActionNames = [...]string{"init", "update", "save", "cancel"}

func (a EditAction) String() string {
	if int(a) < len(editActionNames) {
		return editActionNames[a]
	}
	return "EditAction(" + strconv.Itoa(int(a)) + ")"
}

// ParseEditAction maps "init", "update", "save" and "cancel" to actions.
func ParseEditAction(s string) (EditAction, error) {
	for i, name := range editActionNames {
		if s == name {
			return EditAction(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edit action %q", s)
}

// State is a snapshot of a node's flags.
type State struct {
	Selected bool `json:"selected"`
	Editing  bool `json:"editing"`
	Real     bool `json:"real"`
	Deleted  bool `json:"deleted"`
}

// Node is a labeled, positioned tree entity.
type Node struct {
	t  *Tree
	id ident.ID
	g  *graphic.Engine[*Node]

	x, y  float64
	label string

	parent     ident.ID
	children   []ident.ID
	parentEdge EdgeID
	childEdges []EdgeID
	outgoing   ConnectorID
	incoming   ConnectorID

	editing  bool
	real     bool
	selected bool
	deleted  bool

	beforeEdit       string
	lastSynced       *render.Point
	bbox             *render.Box
	positionUnsynced bool
}

var (
	_ Positioned = (*Node)(nil)
	_ Labeled    = (*Node)(nil)
	_ Selectable = (*Node)(nil)
	_ Exporter   = (*Node)(nil)
)

// ID returns the node's identity.
func (n *Node) ID() ident.ID { return n.id }

// Tree returns the arena that owns n.
func (n *Node) Tree() *Tree { return n.t }

// Graphic returns the node's graphic engine.
func (n *Node) Graphic() *graphic.Engine[*Node] { return n.g }

// Position returns the node's coordinates.
func (n *Node) Position() render.Point { return render.Point{X: n.x, Y: n.y} }

// LastSyncedPosition returns the position last drawn, if any.
func (n *Node) LastSyncedPosition() (render.Point, bool) {
	if n.lastSynced == nil {
		return render.Point{}, false
	}
	return *n.lastSynced, true
}

// Label returns the label text.
func (n *Node) Label() string { return n.label }

// Selected reports whether the node is selected.
func (n *Node) Selected() bool { return n.selected }

// Editing reports whether the label editor is open.
func (n *Node) Editing() bool { return n.editing }

// Real reports whether the node has been saved.
func (n *Node) Real() bool { return n.real }

// Deleted reports whether the node was deleted.
func (n *Node) Deleted() bool { return n.deleted }

// State returns all flags at once.
func (n *Node) State() State {
	return State{Selected: n.selected, Editing: n.editing, Real: n.real, Deleted: n.deleted}
}

// ParentID returns the parent's ID. A deleted node keeps the ID of the
// parent it had.
func (n *Node) ParentID() ident.ID { return n.parent }

// Parent returns the live parent, or nil.
func (n *Node) Parent() *Node { return n.t.lookup(n.parent) }

// ChildIDs returns the children's IDs in order.
func (n *Node) ChildIDs() []ident.ID { return slices.Clone(n.children) }

// Children returns the live children in order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if c := n.t.lookup(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	return slices.Index(p.children, n.id)
}

// ParentEdge returns the edge to the parent, or nil.
func (n *Node) ParentEdge() *Edge { return n.t.edges[n.parentEdge] }

// ChildEdges returns the edges to the children, index-aligned with Children.
func (n *Node) ChildEdges() []*Edge {
	out := make([]*Edge, 0, len(n.childEdges))
	for _, id := range n.childEdges {
		if e := n.t.edges[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the connector starting at n, or nil.
func (n *Node) Outgoing() *Connector { return n.t.connectors[n.outgoing] }

// Incoming returns the connector ending at n, or nil.
func (n *Node) Incoming() *Connector { return n.t.connectors[n.incoming] }

// Walk visits n and its descendants depth-first in child order. fn
// returning false skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		c.walk(fn, depth+1)
	}
}

// Move sets the node's position and returns it. With propagate, every
// descendant moves by the same delta, depth-first in child order. A deleted
// node stays where it was.
func (n *Node) Move(x, y float64, propagate bool) render.Point {
	if n.deleted {
		return n.Position()
	}
	moved := n.move(x, y, propagate)
	observability.Tree().OnMove(moved)
	return n.Position()
}

func (n *Node) move(x, y float64, propagate bool) int {
	oldX, oldY := n.x, n.y
	n.x, n.y = x, y

	if e := n.ParentEdge(); e != nil {
		e.g.MarkDirty(stateChildPosition)
	}
	if n.lastSynced == nil || *n.lastSynced != n.Position() {
		n.g.MarkDirty(statePosition)
		for _, e := range n.ChildEdges() {
			e.g.MarkDirty(stateParentPosition)
		}
	} else {
		n.g.MarkClean(statePosition)
	}
	n.bbox = nil

	moved := 1
	if propagate {
		dx, dy := n.x-oldX, n.y-oldY
		for _, c := range n.Children() {
			moved += c.move(c.x+dx, c.y+dy, true)
		}
	}
	return moved
}

// SetLabel replaces the label text.
func (n *Node) SetLabel(label string) {
	if n.deleted {
		return
	}
	n.label = label
	n.t.r.Apply(n.g.Handle(elemLabel), render.Attrs{render.AttrText: displayText(label)})
	n.g.MarkDirty(stateLabelContent)
	n.g.MarkDirty(statePosition)
	n.bbox = nil
}

// EditingAction drives the label editor.
//
// EditInit opens the editor. EditUpdate and EditCancel do nothing unless the
// editor is open. EditSave always makes the node real and commits the
// editor's value when it is open.
func (n *Node) EditingAction(action EditAction) error {
	if n.deleted {
		return ErrNodeDeleted
	}
	switch action {
	case EditInit:
		n.editing = true
		n.beforeEdit = n.label
		n.UpdateGraphics(false)
		n.g.Apply(elemEditor, render.Attrs{
			render.AttrValue:   n.label,
			render.AttrDisplay: "block",
			render.AttrFocus:   render.FocusPreventScroll,
		})
	case EditUpdate:
		if n.editing {
			n.g.MarkDirty(statePosition)
			n.bbox = nil
			n.SetLabel(n.EditorValue())
			n.UpdateGraphics(false)
		}
	case EditSave:
		n.bbox = nil
		n.real = true
		if n.editing {
			n.g.MarkDirty(statePosition)
			n.editing = false
			n.SetLabel(n.EditorValue())
			n.g.Apply(elemEditor, render.Attrs{render.AttrDisplay: "none", render.AttrFocus: nil})
			n.beforeEdit = ""
			n.bbox = nil
			n.positionUnsynced = true
			n.UpdateGraphics(false)
		}
	case EditCancel:
		if n.editing {
			n.g.MarkDirty(statePosition)
			n.editing = false
			n.g.Apply(elemEditor, render.Attrs{render.AttrDisplay: "none", render.AttrFocus: nil})
			n.SetLabel(n.beforeEdit)
			n.beforeEdit = ""
			n.bbox = nil
			n.UpdateGraphics(false)
		}
	default:
		return errors.New(errors.ErrCodeUsage, "unknown edit action %d", int(action))
	}
	return nil
}

// EditorValue returns the current content of the label editor.
func (n *Node) EditorValue() string {
	if n.deleted {
		return ""
	}
	return n.t.r.Value(n.g.Handle(elemEditor))
}

// SetEditorValue replaces the content of the label editor, as typing does.
// It does nothing on a deleted node.
func (n *Node) SetEditorValue(v string) {
	if n.deleted {
		return
	}
	n.g.Apply(elemEditor, render.Attrs{render.AttrValue: v})
}

// AddChild appends child. See InsertChild.
func (n *Node) AddChild(child *Node) error {
	return n.InsertChild(child, len(n.children))
}

// InsertChild attaches child at index, clamped to the valid range, and
// connects it with a new edge. It does nothing on a provisional node. A
// child that already has a parent is detached from it first. Inserting an
// ancestor of n panics.
func (n *Node) InsertChild(child *Node, index int) error {
	if n.deleted {
		return ErrNodeDeleted
	}
	if err := n.t.owns(child); err != nil {
		return err
	}
	if !n.real {
		return nil
	}
	for a := n; a != nil; a = a.Parent() {
		if a == child {
			panic(fmt.Sprintf("tree: node %s is an ancestor of %s", child.id, n.id))
		}
	}

	if old := child.Parent(); old != nil {
		if old == n && child.Index() < index {
			index--
		}
		old.detach(child)
	}

	index = max(0, min(index, len(n.children)))
	n.children = slices.Insert(n.children, index, child.id)
	child.parent = n.id
	n.t.newEdge(n, child, index)

	if n.t.root == child.id {
		top := n
		for p := top.Parent(); p != nil; p = top.Parent() {
			top = p
		}
		n.t.root = top.id
	}
	return nil
}

// detach removes child from n's children and deletes the edge between them.
func (n *Node) detach(child *Node) {
	if e := child.ParentEdge(); e != nil {
		e.Delete()
	}
	if i := slices.Index(n.children, child.id); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = ident.None
}

// Delete removes the node from the diagram. Its parent edge and connectors
// are deleted and its descendants are torn down with it. The former parent
// is redistributed once.
func (n *Node) Delete() {
	if n.deleted {
		return
	}
	n.real = false
	if e := n.ParentEdge(); e != nil {
		e.Delete()
	}
	n.deleteConnectors()

	removed := 1
	for _, c := range n.Children() {
		removed += c.teardown()
	}
	n.dispose()

	parent := n.Parent()
	if parent != nil {
		if i := slices.Index(parent.children, n.id); i >= 0 {
			parent.children = slices.Delete(parent.children, i, i+1)
		}
	}
	if n.t.root == n.id {
		n.t.root = ident.None
	}
	observability.Tree().OnDelete(removed)
	n.t.logger.Debug("node deleted", "id", n.id, "removed", removed)

	if parent != nil {
		n.t.redistribute(parent)
	}
}

// teardown deletes a descendant of a deleted node without touching its
// parent link or triggering layout.
func (n *Node) teardown() int {
	removed := 1
	for _, c := range n.Children() {
		removed += c.teardown()
	}
	n.real = false
	if e := n.ParentEdge(); e != nil {
		e.Delete()
	}
	n.deleteConnectors()
	n.dispose()
	return removed
}

func (n *Node) deleteConnectors() {
	if c := n.Outgoing(); c != nil {
		c.Delete()
	}
	if c := n.Incoming(); c != nil {
		c.Delete()
	}
}

func (n *Node) dispose() {
	n.g.Dispose()
	n.deleted = true
	n.selected = false
	n.editing = false
	n.bbox = nil
	delete(n.t.nodes, n.id)
	if n.t.selected == n.id {
		n.t.selected = ident.None
	}
}

func (t *Tree) redistribute(root *Node) {
	start := time.Now()
	t.layout.Redistribute(root)
	count := 0
	root.Walk(func(*Node, int) bool { count++; return true })
	observability.Tree().OnRedistribute(count, time.Since(start))
}

// Select makes n the tree's selected node, deselecting the previous one.
func (n *Node) Select() {
	if n.deleted || n.selected {
		return
	}
	if prev := n.t.Selected(); prev != nil && prev != n {
		prev.Deselect()
	}
	if n.deleted {
		return
	}
	n.selected = true
	n.t.selected = n.id
	n.g.MarkDirty(stateSelected)
	n.UpdateGraphics(false)
}

// Deselect clears the selection, cancels an open edit and deletes the node
// if it was never saved.
func (n *Node) Deselect() {
	if n.deleted {
		return
	}
	if n.selected {
		n.selected = false
		if n.t.selected == n.id {
			n.t.selected = ident.None
		}
		n.g.MarkDirty(stateSelected)
		n.UpdateGraphics(false)
	}
	_ = n.EditingAction(EditCancel)
	if !n.real {
		n.Delete()
	}
}

// LabelBBox returns the label's bounding box. While the label is empty or
// not drawn a 10x15 box centered on the node is returned; otherwise the
// measured box is cached until the label or position changes.
func (n *Node) LabelBBox() render.Box {
	h := n.g.Handle(elemLabel)
	if n.label == "" || !n.t.r.Attached(h) {
		return render.NewBox(n.x-fallbackWidth/2, n.y-fallbackHeight/2, fallbackWidth, fallbackHeight)
	}
	if n.bbox == nil {
		b := n.t.r.Measure(h)
		n.bbox = &b
	}
	return *n.bbox
}

// BorderPath returns a closed path around the label box grown by pad.
func (n *Node) BorderPath(pad float64) string {
	b := n.LabelBBox().Pad(pad)
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("M %s %s, H %s, V %s, H %s, V %s, ",
		f(b.X), f(b.Y), f(b.X2), f(b.Y2), f(b.X), f(b.Y))
}

// UpdateGraphics flushes the node's engine and refreshes its edges and
// connectors. With propagate, or after a save raised the position flag,
// every descendant is refreshed too.
func (n *Node) UpdateGraphics(propagate bool) {
	if n.deleted {
		return
	}
	if n.positionUnsynced {
		propagate = true
		n.positionUnsynced = false
	}

	n.g.Update()
	if e := n.ParentEdge(); e != nil {
		e.UpdateGraphics(n.t.animation)
	}
	for _, e := range n.ChildEdges() {
		e.UpdateGraphics(n.t.animation)
	}
	if c := n.Outgoing(); c != nil {
		c.UpdateGraphics()
	}
	if c := n.Incoming(); c != nil {
		c.UpdateGraphics()
	}

	if propagate {
		for _, c := range n.Children() {
			c.UpdateGraphics(true)
		}
	}
}

// ExportMarkup returns the markup of the node's exported elements.
func (n *Node) ExportMarkup() string {
	if n.deleted {
		return ""
	}
	return n.g.ExportMarkup()
}

func (n *Node) String() string {
	return fmt.Sprintf("node %s %q", n.id, n.label)
}
