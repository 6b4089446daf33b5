package tree

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/syntree/pkg/graphic"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
)

// ConnectorPad is the gap between a connector's ends and the labels it joins.
const ConnectorPad = 10.0

const elemPath = "path"

// ConnectorID identifies a connector within its tree.
type ConnectorID uint64

// Connector is a movement arrow between two nodes outside of the parent and
// child relation. A node has at most one outgoing and one incoming
// connector.
type Connector struct {
	t        *Tree
	id       ConnectorID
	from, to ident.ID
	g        *graphic.Engine[*Connector]
	deleted  bool
}

var _ Exporter = (*Connector)(nil)

// Connect draws a connector from one node to another, replacing the
// existing outgoing connector of from and incoming connector of to.
func (t *Tree) Connect(from, to *Node) (*Connector, error) {
	if err := t.owns(from); err != nil {
		return nil, err
	}
	if err := t.owns(to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, ErrSelfConnect
	}
	if c := from.Outgoing(); c != nil {
		c.Delete()
	}
	if c := to.Incoming(); c != nil {
		c.Delete()
	}

	t.nextConn++
	c := &Connector{t: t, id: t.nextConn, from: from.id, to: to.id}
	path := t.r.Create(render.KindPath, render.Attrs{
		"class":      "movement-arrow",
		"fill":       "none",
		"stroke":     "black",
		"marker-end": "url(#arrowhead)",
	})
	c.g = graphic.New(t.r, c, graphic.WithKind("connector"), graphic.WithLogger(t.logger))
	if err := c.g.Register(elemPath, path, graphic.Exported()); err != nil {
		t.r.Remove(path)
		return nil, err
	}
	c.g.SetAlways(syncConnectorPath)

	from.outgoing = c.id
	to.incoming = c.id
	t.connectors[c.id] = c
	t.connOrder = append(t.connOrder, c.id)
	c.UpdateGraphics()
	return c, nil
}

// ID returns the connector's identity within its tree.
func (c *Connector) ID() ConnectorID { return c.id }

// From returns the start node, or nil once it is gone.
func (c *Connector) From() *Node { return c.t.lookup(c.from) }

// To returns the end node, or nil once it is gone.
func (c *Connector) To() *Node { return c.t.lookup(c.to) }

// Deleted reports whether the connector was deleted.
func (c *Connector) Deleted() bool { return c.deleted }

// Graphic returns the connector's synchronization engine.
func (c *Connector) Graphic() *graphic.Engine[*Connector] { return c.g }

// UpdateGraphics recomputes the path from the current label boxes.
func (c *Connector) UpdateGraphics() {
	if !c.deleted {
		c.g.Update()
	}
}

// Path returns the current path data.
func (c *Connector) Path() string {
	from, to := c.From(), c.To()
	if from == nil || to == nil {
		return ""
	}
	return connectorPath(from, to)
}

func syncConnectorPath(c *Connector, g *graphic.Engine[*Connector]) {
	if d := c.Path(); d != "" {
		g.Apply(elemPath, render.Attrs{"d": d})
	}
}

// connectorPath runs between the border boxes of two labels along the line
// joining their centers.
func connectorPath(from, to Labeled) string {
	a := from.LabelBBox().Pad(ConnectorPad)
	b := to.LabelBBox().Pad(ConnectorPad)
	ac, bc := a.Center(), b.Center()
	p1 := exitPoint(a, ac, bc)
	p2 := exitPoint(b, bc, ac)
	f := func(v float64) string { return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) }
	return fmt.Sprintf("M %s %s L %s %s", f(p1.X), f(p1.Y), f(p2.X), f(p2.Y))
}

// exitPoint returns where the ray from center toward target leaves box.
func exitPoint(box render.Box, center, target render.Point) render.Point {
	dx, dy := target.X-center.X, target.Y-center.Y
	if dx == 0 && dy == 0 {
		return center
	}
	s := math.Inf(1)
	if dx != 0 {
		s = math.Min(s, (box.W/2)/math.Abs(dx))
	}
	if dy != 0 {
		s = math.Min(s, (box.H/2)/math.Abs(dy))
	}
	return render.Point{X: center.X + dx*s, Y: center.Y + dy*s}
}

// Delete detaches the connector from both nodes and removes its path.
func (c *Connector) Delete() {
	if c.deleted {
		return
	}
	if n := c.t.nodes[c.from]; n != nil && n.outgoing == c.id {
		n.outgoing = 0
	}
	if n := c.t.nodes[c.to]; n != nil && n.incoming == c.id {
		n.incoming = 0
	}
	c.g.Dispose()
	c.deleted = true
	delete(c.t.connectors, c.id)
}

// ExportMarkup returns the path's markup.
func (c *Connector) ExportMarkup() string {
	if c.deleted {
		return ""
	}
	return c.g.ExportMarkup()
}
