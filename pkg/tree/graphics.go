package tree

import (
	"math"

	"github.com/matzehuels/syntree/pkg/graphic"
	"github.com/matzehuels/syntree/pkg/render"
)

// Node element names.
const (
	elemLabel        = "label"
	elemHighlight    = "highlight"
	elemDeleteButton = "deleteButton"
	elemEditor       = "editor"
)

// Node states, flushed in this order.
const (
	stateSelected     = "selected"
	stateLabelContent = "labelContent"
	statePosition     = "position"
)

// DeleteButtonHref is the image drawn as a selected node's delete button.
const DeleteButtonHref = "/resources/delete_button.svg"

func newNodeGraphic(n *Node) (*graphic.Engine[*Node], error) {
	r := n.t.r
	id := n.id.String()
	g := graphic.New(r, n, graphic.WithKind("node"), graphic.WithLogger(n.t.logger))

	editor := r.Create(render.KindInput, render.Attrs{
		"id":               "editor-" + id,
		"class":            "editor",
		render.AttrDisplay: "none",
	})
	highlight := r.Create(render.KindRect, render.Attrs{
		"x": n.x, "y": n.y, "width": 0, "height": 0,
		"class": "highlight highlight-" + id,
	})
	deleteButton := r.Create(render.KindImage, render.Attrs{
		"href": DeleteButtonHref,
		"x":    n.x, "y": n.y, "width": 10, "height": 10,
		"class": "delete_button delete_button-" + id,
	})
	label := r.Create(render.KindText, render.Attrs{
		"x": n.x, "y": n.y,
		"id":            "label-" + id,
		"class":         "node-label",
		render.AttrText: displayText(n.label),
	})

	registrations := []struct {
		name string
		h    render.Handle
		opts []graphic.ElementOption
	}{
		{elemLabel, label, []graphic.ElementOption{graphic.Exported()}},
		{elemHighlight, highlight, nil},
		{elemDeleteButton, deleteButton, nil},
		{elemEditor, editor, []graphic.ElementOption{graphic.WithAttrFunc(editorAttr)}},
	}
	for _, reg := range registrations {
		if err := g.Register(reg.name, reg.h, reg.opts...); err != nil {
			g.Dispose()
			for _, other := range registrations {
				r.Remove(other.h)
			}
			return nil, err
		}
	}

	rules := []struct {
		state string
		rule  graphic.Rule[*Node]
	}{
		{stateSelected, graphic.BooleanRule[*Node]{
			Source: (*Node).Selected,
			Targets: []graphic.Target{
				{Element: elemHighlight, True: render.Attrs{"fill": "rgba(0,0,0,0.2)"}, False: render.Attrs{"fill": "none"}},
				{Element: elemDeleteButton, True: render.Attrs{"width": 10}, False: render.Attrs{"width": 0}},
			},
		}},
		{stateLabelContent, graphic.CustomRule[*Node](syncLabelContent)},
		{statePosition, graphic.CustomRule[*Node](syncPosition)},
	}
	for _, rl := range rules {
		if err := g.Declare(rl.state, rl.rule); err != nil {
			g.Dispose()
			return nil, err
		}
	}
	return g, nil
}

// newEdgeGraphic builds the engine of e drawing line.
func newEdgeGraphic(e *Edge, line render.Handle) (*graphic.Engine[*Edge], error) {
	g := graphic.New(e.t.r, e, graphic.WithKind("edge"), graphic.WithLogger(e.t.logger))
	if err := g.Register(elemLine, line, graphic.Exported()); err != nil {
		g.Dispose()
		return nil, err
	}
	rules := []struct {
		state string
		rule  graphic.CustomRule[*Edge]
	}{
		{stateParentPosition, func(e *Edge, _ *graphic.Engine[*Edge]) {
			if p := e.From(); p != nil {
				e.start = p.Position()
			}
		}},
		{stateChildPosition, func(e *Edge, _ *graphic.Engine[*Edge]) {
			if c := e.To(); c != nil {
				e.end = c.Position()
			}
		}},
	}
	for _, rl := range rules {
		if err := g.Declare(rl.state, rl.rule); err != nil {
			g.Dispose()
			return nil, err
		}
	}
	g.SetAlways(applyEdgeGeometry)
	return g, nil
}

// displayText keeps an empty label measurable and clickable.
func displayText(label string) string {
	if label == "" {
		return "   "
	}
	return label
}

func syncLabelContent(n *Node, g *graphic.Engine[*Node]) {
	g.Apply(elemLabel, render.Attrs{render.AttrText: displayText(n.label)})
	n.bbox = nil
	bbox := n.LabelBBox()
	g.Apply(elemHighlight, render.Attrs{"width": bbox.W + 10, "height": bbox.H + 10})
	g.Apply(elemEditor, render.Attrs{"width": bbox.W, "height": bbox.H})
}

func syncPosition(n *Node, g *graphic.Engine[*Node]) {
	bbox := n.LabelBBox()
	g.Apply(elemLabel, render.Attrs{"x": n.x - bbox.W/2, "y": n.y + bbox.H/2})
	n.bbox = nil
	bbox = n.LabelBBox()
	g.Apply(elemHighlight, render.Attrs{"x": bbox.X - 5, "y": bbox.Y - 5})
	g.Apply(elemDeleteButton, render.Attrs{"x": bbox.X2, "y": bbox.Y - 10})
	g.Apply(elemEditor, render.Attrs{"left": bbox.X, "top": bbox.Y})
	p := n.Position()
	n.lastSynced = &p
}

// editorAttr positions the editor in whole pixels, as an HTML input would be.
func editorAttr(r render.Renderer, h render.Handle, attrs render.Attrs) {
	out := make(render.Attrs, len(attrs))
	for k, v := range attrs {
		switch k {
		case "left", "top", "width", "height":
			out[k] = math.Round(attrs.Float(k))
		default:
			out[k] = v
		}
	}
	r.Apply(h, out)
}
