// Package render defines the drawing surface consumed by the editor core.
//
// # Overview
//
// The tree model never talks to a concrete canvas. Every visual element is
// created, mutated and removed through the [Renderer] interface, identified
// by an opaque [Handle]:
//
//	h := r.Create(render.KindText, render.Attrs{"x": 10, "y": 20, render.AttrText: "NP"})
//	r.Apply(h, render.Attrs{"class": "node-label"})
//	box := r.Measure(h)
//	markup := r.Serialize(h)
//	r.Remove(h)
//
// The [svg] subpackage provides an in-memory retained SVG document that
// implements [Renderer] with approximate text metrics. It backs the CLI,
// the HTTP server and all tests.
//
// The [nodelink] subpackage exports a tree as a Graphviz DOT graph and
// renders it to SVG through go-graphviz.
//
// [svg]: github.com/matzehuels/syntree/pkg/render/svg
// [nodelink]: github.com/matzehuels/syntree/pkg/render/nodelink
package render
