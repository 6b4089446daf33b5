// Package graphic keeps a set of visual elements consistent with the model
// object that owns them.
//
// # Overview
//
// An [Engine] holds named elements created on a [render.Renderer], an
// ordered set of named states with a synced flag each, and a rule per
// state. Model operations call [Engine.MarkDirty] when a field changes; a
// later [Engine.Update] reconciles every dirty state by dispatching its
// rule and marks it clean again:
//
//	e := graphic.New[*Node](r, n, graphic.WithKind("node"))
//	e.Register("highlight", r.Create(render.KindRect, nil))
//	e.Declare("selected", graphic.BooleanRule[*Node]{
//	    Source: (*Node).Selected,
//	    Targets: []graphic.Target{
//	        {Element: "highlight", True: render.Attrs{"fill": "rgba(0,0,0,0.2)"}, False: render.Attrs{"fill": "none"}},
//	    },
//	})
//	n.selected = true
//	e.MarkDirty("selected")
//	e.Update()
//
// # Rules
//
// A [Rule] is either a [BooleanRule], which reads a boolean from the owner
// and applies one of two attribute sets to each target element, or a
// [CustomRule], which receives the owner and the engine and may do any
// reconciliation. An optional catch-all rule set with [Engine.SetAlways]
// runs after the per-state rules on every pass.
//
// States are flushed in declaration order. A rule may dirty a state that
// comes later in the order and it is flushed in the same pass. Dirtying a
// state that was already flushed in the current pass panics, as does any
// MarkDirty from the catch-all rule: after Update returns every state is
// synced.
//
// [render.Renderer]: github.com/matzehuels/syntree/pkg/render.Renderer
package graphic
