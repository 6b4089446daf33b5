package tree

import (
	"fmt"
	"slices"

	"github.com/tanema/gween"

	"github.com/matzehuels/syntree/pkg/graphic"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
)

// Edge states.
const (
	stateParentPosition = "parentPosition"
	stateChildPosition  = "childPosition"
)

const elemLine = "line"

// EdgeID identifies an edge within its tree.
type EdgeID uint64

// Edge is the line between a parent node and one of its children.
type Edge struct {
	t        *Tree
	id       EdgeID
	from, to ident.ID
	g        *graphic.Engine[*Edge]
	deleted  bool

	start, end render.Point
	// drawn holds the line's current x1, y1, x2, y2 and target the values it
	// is heading to.
	drawn, target [4]float64
	tweens        [4]*gween.Tween
	duration      float32
}

var _ Exporter = (*Edge)(nil)

// newEdge connects from to to and registers the edge at index of from's
// child edges.
func (t *Tree) newEdge(from, to *Node, index int) *Edge {
	t.nextEdge++
	e := &Edge{t: t, id: t.nextEdge, from: from.id, to: to.id}
	e.start, e.end = from.Position(), to.Position()
	e.drawn = [4]float64{e.start.X, e.start.Y, e.end.X, e.end.Y}
	e.target = e.drawn

	line := t.r.Create(render.KindLine, render.Attrs{
		"x1": e.start.X, "y1": e.start.Y, "x2": e.end.X, "y2": e.end.Y,
		"class":  "branch",
		"stroke": "black",
	})
	g, err := newEdgeGraphic(e, line)
	if err != nil {
		panic(fmt.Sprintf("tree: edge graphic: %v", err))
	}
	e.g = g

	to.parentEdge = e.id
	index = max(0, min(index, len(from.childEdges)))
	from.childEdges = slices.Insert(from.childEdges, index, e.id)

	t.edges[e.id] = e
	t.edgeOrder = append(t.edgeOrder, e.id)
	return e
}

// ID returns the edge's identity within its tree.
func (e *Edge) ID() EdgeID { return e.id }

// From returns the parent end, or nil once it is gone.
func (e *Edge) From() *Node { return e.t.lookup(e.from) }

// To returns the child end, or nil once it is gone.
func (e *Edge) To() *Node { return e.t.lookup(e.to) }

// Endpoints returns the IDs of both ends.
func (e *Edge) Endpoints() (from, to ident.ID) { return e.from, e.to }

// Deleted reports whether the edge was deleted.
func (e *Edge) Deleted() bool { return e.deleted }

// Graphic returns the edge's graphic engine.
func (e *Edge) Graphic() *graphic.Engine[*Edge] { return e.g }

// Line returns the line's current endpoints as drawn.
func (e *Edge) Line() (start, end render.Point) {
	return render.Point{X: e.drawn[0], Y: e.drawn[1]}, render.Point{X: e.drawn[2], Y: e.drawn[3]}
}

// Animating reports whether a geometry animation is in progress.
func (e *Edge) Animating() bool { return e.tweens[0] != nil }

// UpdateGraphics recomputes dirty endpoints from the nodes and applies them
// to the line. A duration of 0 applies immediately; otherwise the line
// animates there over duration seconds as the tree advances.
func (e *Edge) UpdateGraphics(duration float32) {
	if e.deleted {
		return
	}
	e.duration = duration
	e.g.Update()
	e.duration = 0
}

func applyEdgeGeometry(e *Edge, g *graphic.Engine[*Edge]) {
	target := [4]float64{e.start.X, e.start.Y, e.end.X, e.end.Y}
	if target == e.target {
		return
	}
	e.target = target
	if e.duration <= 0 {
		e.tweens = [4]*gween.Tween{}
		e.drawn = target
		e.draw(g)
		return
	}
	for i := range e.tweens {
		e.tweens[i] = gween.New(float32(e.drawn[i]), float32(target[i]), e.duration, e.t.ease)
	}
}

// Advance moves the animation forward by dt seconds and reports whether it
// is still running.
func (e *Edge) Advance(dt float32) bool {
	if e.deleted || !e.Animating() {
		return false
	}
	done := true
	for i, tw := range e.tweens {
		v, finished := tw.Update(dt)
		e.drawn[i] = float64(v)
		if !finished {
			done = false
		}
	}
	if done {
		e.tweens = [4]*gween.Tween{}
		e.drawn = e.target
	}
	e.draw(e.g)
	return !done
}

func (e *Edge) draw(g *graphic.Engine[*Edge]) {
	g.Apply(elemLine, render.Attrs{"x1": e.drawn[0], "y1": e.drawn[1], "x2": e.drawn[2], "y2": e.drawn[3]})
}

// Delete detaches the edge from both nodes and removes its line.
func (e *Edge) Delete() {
	if e.deleted {
		return
	}
	if c := e.t.nodes[e.to]; c != nil && c.parentEdge == e.id {
		c.parentEdge = 0
	}
	if p := e.t.nodes[e.from]; p != nil {
		if i := slices.Index(p.childEdges, e.id); i >= 0 {
			p.childEdges = slices.Delete(p.childEdges, i, i+1)
		}
	}
	e.g.Dispose()
	e.tweens = [4]*gween.Tween{}
	e.deleted = true
	delete(e.t.edges, e.id)
}

// ExportMarkup returns the line's markup.
func (e *Edge) ExportMarkup() string {
	if e.deleted {
		return ""
	}
	return e.g.ExportMarkup()
}
