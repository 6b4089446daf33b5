// Package svg implements [render.Renderer] as an in-memory SVG document.
//
// Elements are retained in creation order with their attribute sets, so the
// editor can be driven headless by the CLI, the HTTP server and tests.
// Text is measured with fixed per-character metrics derived from the font
// size; no font files are read.
//
//	doc := svg.New(svg.WithFontSize(16))
//	h := doc.Create(render.KindText, render.Attrs{"x": 0, "y": 16, render.AttrText: "VP"})
//	box := doc.Measure(h) // 2 characters wide, one line high
//
// [render.Renderer]: github.com/matzehuels/syntree/pkg/render.Renderer
package svg
