package document

import (
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Snapshot captures the real nodes and connectors of t. Provisional nodes
// and their subtrees are left out.
func Snapshot(t *tree.Tree, id, title string) *Document {
	doc := &Document{ID: id, Title: title}
	root := t.Root()
	if root == nil || !root.Real() {
		return doc
	}
	doc.Root = snapshotNode(root)

	kept := make(map[ident.ID]bool)
	doc.Root.Walk(func(s *NodeSpec) { kept[s.ID] = true })
	for _, c := range t.Connectors() {
		from, to := c.From(), c.To()
		if from == nil || to == nil || !kept[from.ID()] || !kept[to.ID()] {
			continue
		}
		doc.Connectors = append(doc.Connectors, Connection{From: from.ID(), To: to.ID()})
	}
	return doc
}

func snapshotNode(n *tree.Node) *NodeSpec {
	p := n.Position()
	s := &NodeSpec{ID: n.ID(), X: p.X, Y: p.Y, Label: n.Label()}
	for _, c := range n.Children() {
		if c.Real() {
			s.Children = append(s.Children, snapshotNode(c))
		}
	}
	return s
}

// Build creates a tree drawing on r from doc. Every node is real, keeps the
// document's position and keeps its ID when one is given. Nodes without an
// ID receive fresh ones that do not collide with the pinned IDs.
func Build(doc *Document, r render.Renderer, opts ...tree.Option) (*tree.Tree, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	t := tree.New(r, opts...)
	if doc.Root == nil {
		return t, nil
	}

	created := make(map[*NodeSpec]*tree.Node, doc.Len())
	create := func(s *NodeSpec) error {
		n, err := t.Create(tree.NodeConfig{ID: s.ID, X: s.X, Y: s.Y, Label: s.Label, Real: true})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "node %q", s.Label)
		}
		created[s] = n
		return nil
	}

	var err error
	doc.Root.Walk(func(s *NodeSpec) {
		if err == nil && s.ID.Valid() {
			err = create(s)
		}
	})
	doc.Root.Walk(func(s *NodeSpec) {
		if err == nil && !s.ID.Valid() {
			err = create(s)
		}
	})
	if err != nil {
		return nil, err
	}

	doc.Root.Walk(func(s *NodeSpec) {
		parent := created[s]
		for _, c := range s.Children {
			if err == nil {
				err = parent.AddChild(created[c])
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "link nodes")
	}

	for _, c := range doc.Connectors {
		from, _ := t.Node(c.From)
		to, _ := t.Node(c.To)
		if _, err := t.Connect(from, to); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "connector %s->%s", c.From, c.To)
		}
	}

	root := created[doc.Root]
	if err := t.SetRoot(root); err != nil {
		return nil, err
	}
	root.UpdateGraphics(true)
	return t, nil
}
