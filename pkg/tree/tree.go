package tree

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/syntree/pkg/config"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
)

var (
	// ErrNodeNotFound is returned when an ID does not name a live node.
	ErrNodeNotFound = errors.New(errors.ErrCodeNodeNotFound, "node not found")

	// ErrNodeDeleted is returned by operations on a node that was deleted.
	ErrNodeDeleted = errors.New(errors.ErrCodeNodeNotFound, "node has been deleted")

	// ErrSelfConnect is returned by Tree.Connect when both ends are the same node.
	ErrSelfConnect = errors.New(errors.ErrCodeInvalidInput, "connector endpoints must differ")
)

// Tree owns the nodes, edges and connectors of one diagram.
type Tree struct {
	r         render.Renderer
	alloc     *ident.Allocator
	layout    Layout
	logger    *log.Logger
	animation float32
	ease      ease.TweenFunc

	nodes     map[ident.ID]*Node
	nodeOrder []ident.ID

	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID
	nextEdge  EdgeID

	connectors map[ConnectorID]*Connector
	connOrder  []ConnectorID
	nextConn   ConnectorID

	root     ident.ID
	selected ident.ID
}

// New creates an empty tree drawing on r.
func New(r render.Renderer, opts ...Option) *Tree {
	t := &Tree{
		r:          r,
		layout:     nopLayout{},
		ease:       ease.OutQuad,
		nodes:      make(map[ident.ID]*Node),
		edges:      make(map[EdgeID]*Edge),
		connectors: make(map[ConnectorID]*Connector),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.alloc == nil {
		t.alloc = ident.New()
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	return t
}

// NewNode validates props against NodeSchema and creates a node.
func (t *Tree) NewNode(props map[string]any) (*Node, error) {
	cfg, err := config.Decode[NodeConfig](NodeSchema, props)
	if err != nil {
		return nil, err
	}
	return t.Create(cfg)
}

// Create builds a node from cfg, draws it and adds it to the arena. The
// first node created becomes the root. On error nothing is added.
func (t *Tree) Create(cfg NodeConfig) (*Node, error) {
	if err := errors.ValidateLabel(cfg.Label); err != nil {
		return nil, err
	}
	id := cfg.ID
	if id.Valid() {
		if err := t.alloc.Reserve(id); err != nil {
			return nil, err
		}
	} else {
		id = t.alloc.Next()
	}

	n := &Node{
		t:     t,
		id:    id,
		x:     cfg.X,
		y:     cfg.Y,
		label: cfg.Label,
		real:  cfg.Real,
	}
	g, err := newNodeGraphic(n)
	if err != nil {
		return nil, err
	}
	n.g = g

	t.nodes[id] = n
	t.nodeOrder = append(t.nodeOrder, id)
	if !t.root.Valid() {
		t.root = id
	}
	n.UpdateGraphics(false)
	t.logger.Debug("node created", "id", id, "label", cfg.Label)
	return n, nil
}

// Node returns the live node with id.
func (t *Tree) Node(id ident.ID) (*Node, error) {
	if n, ok := t.nodes[id]; ok {
		return n, nil
	}
	return nil, errors.Wrap(errors.ErrCodeNodeNotFound, ErrNodeNotFound, "node %s", id)
}

func (t *Tree) lookup(id ident.ID) *Node {
	if !id.Valid() {
		return nil
	}
	return t.nodes[id]
}

// Nodes returns the live nodes in creation order.
func (t *Tree) Nodes() []*Node {
	t.nodeOrder = slices.DeleteFunc(t.nodeOrder, func(id ident.ID) bool { return t.nodes[id] == nil })
	out := make([]*Node, len(t.nodeOrder))
	for i, id := range t.nodeOrder {
		out[i] = t.nodes[id]
	}
	return out
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Edges returns the live edges in creation order.
func (t *Tree) Edges() []*Edge {
	t.edgeOrder = slices.DeleteFunc(t.edgeOrder, func(id EdgeID) bool { return t.edges[id] == nil })
	out := make([]*Edge, len(t.edgeOrder))
	for i, id := range t.edgeOrder {
		out[i] = t.edges[id]
	}
	return out
}

// Connectors returns the live connectors in creation order.
func (t *Tree) Connectors() []*Connector {
	t.connOrder = slices.DeleteFunc(t.connOrder, func(id ConnectorID) bool { return t.connectors[id] == nil })
	out := make([]*Connector, len(t.connOrder))
	for i, id := range t.connOrder {
		out[i] = t.connectors[id]
	}
	return out
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.lookup(t.root) }

// SetRoot makes n the root. The root is the node layouts start from and the
// node documents are exported from.
func (t *Tree) SetRoot(n *Node) error {
	if err := t.owns(n); err != nil {
		return err
	}
	t.root = n.id
	return nil
}

// Select selects n and deselects the previous selection.
func (t *Tree) Select(n *Node) error {
	if err := t.owns(n); err != nil {
		return err
	}
	n.Select()
	return nil
}

// Selected returns the selected node, or nil.
func (t *Tree) Selected() *Node { return t.lookup(t.selected) }

// ClearSelection deselects the selected node, if any.
func (t *Tree) ClearSelection() {
	if n := t.Selected(); n != nil {
		n.Deselect()
	}
}

// Walk visits the subtree of the root depth-first in child order. fn
// returning false skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if root := t.Root(); root != nil {
		root.Walk(fn)
	}
}

// Redistribute lays out the whole tree from the root.
func (t *Tree) Redistribute() {
	if root := t.Root(); root != nil {
		t.redistribute(root)
	}
}

// Advance moves edge animations forward by dt seconds and reports whether
// any animation is still running.
func (t *Tree) Advance(dt float32) bool {
	running := false
	for _, e := range t.Edges() {
		if e.Advance(dt) {
			running = true
		}
	}
	return running
}

// ExportMarkup concatenates the exported markup of every edge, node and
// connector. Edges come first so labels are drawn above them.
func (t *Tree) ExportMarkup() string {
	var b strings.Builder
	for _, e := range t.Edges() {
		b.WriteString(e.ExportMarkup())
	}
	for _, n := range t.Nodes() {
		b.WriteString(n.ExportMarkup())
	}
	for _, c := range t.Connectors() {
		b.WriteString(c.ExportMarkup())
	}
	return b.String()
}

// Bounds returns the box enclosing every label.
func (t *Tree) Bounds() render.Box {
	var box render.Box
	for _, n := range t.Nodes() {
		box = box.Union(n.LabelBBox())
	}
	return box
}

// Allocator returns the tree's ID allocator.
func (t *Tree) Allocator() *ident.Allocator { return t.alloc }

// Renderer returns the drawing surface.
func (t *Tree) Renderer() render.Renderer { return t.r }

// Logger returns the tree's logger.
func (t *Tree) Logger() *log.Logger { return t.logger }

func (t *Tree) owns(n *Node) error {
	if n == nil || n.t != t {
		return ErrNodeNotFound
	}
	if n.deleted {
		return ErrNodeDeleted
	}
	return nil
}
