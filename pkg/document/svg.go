package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/syntree/pkg/render/svg"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Margin is the space kept around the tree in exported SVG.
const Margin = 20.0

const svgDefs = `  <defs>
    <marker id="arrowhead" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="black"/>
    </marker>
  </defs>
  <style>
    text { font-family: sans-serif; }
  </style>
`

// SVG renders the exported markup of t as a standalone SVG document.
func SVG(t *tree.Tree, title string) []byte {
	box := t.Bounds().Pad(Margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		box.X, box.Y, box.W, box.H, box.W, box.H)
	if title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", svg.EscapeXML(title))
	}
	buf.WriteString(svgDefs)
	buf.WriteString(t.ExportMarkup())
	buf.WriteString("\n</svg>\n")
	return buf.Bytes()
}

// WriteSVG writes SVG(t, title) to w.
func WriteSVG(w io.Writer, t *tree.Tree, title string) error {
	_, err := w.Write(SVG(t, title))
	return err
}
