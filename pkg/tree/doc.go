// Package tree implements the entity model of a syntax tree diagram.
//
// # Overview
//
// A [Tree] is an arena that owns every [Node], [Edge] and [Connector] of
// one diagram. Entities refer to each other only by ID; the arena resolves
// them. Each entity carries a [graphic.Engine] that keeps its visual
// elements on a [render.Renderer] in step with the model fields.
//
//	t := tree.New(svg.New(), tree.WithLayout(layout.NewTidy()))
//	root, _ := t.NewNode(map[string]any{"label": "S", "real": true})
//	np, _ := t.NewNode(map[string]any{"label": "NP"})
//	root.AddChild(np)
//	root.Move(200, 40, true) // np follows by the same delta
//	root.UpdateGraphics(true)
//
// # Mutation and Synchronization
//
// Operations such as [Node.Move] and [Node.SetLabel] change fields and mark
// graphic states dirty. Nothing is drawn until [Node.UpdateGraphics] flushes
// the node's engine together with its edges and connectors. A move that
// lands on the last drawn position marks the position state clean again, so
// cascaded moves that cancel out never redraw.
//
// # Provisional Nodes
//
// A node is provisional until it is saved through [Node.EditingAction] with
// [EditSave] or created with Real set. Provisional nodes cannot take
// children, and deselecting one deletes it.
//
// # Concurrency
//
// A Tree and its entities are not safe for concurrent use. Callers that
// share a tree between goroutines serialize access themselves.
//
// [graphic.Engine]: github.com/matzehuels/syntree/pkg/graphic.Engine
// [render.Renderer]: github.com/matzehuels/syntree/pkg/render.Renderer
package tree
