package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/syntree/pkg/document"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node IDs and editor positions to labels.
	Detailed bool
	// HideConnectors omits movement connectors.
	HideConnectors bool
}

// ToDOT converts a document to Graphviz DOT format.
// Nodes without an ID are numbered in pre-order after the largest ID.
func ToDOT(doc *document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, fontsize=24, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", doc.Title)
	}
	buf.WriteString("\n")

	names := nodeNames(doc)
	doc.Root.Walk(func(s *document.NodeSpec) {
		fmt.Fprintf(&buf, "  %q [%s];\n", names[s], strings.Join(fmtAttrs(s, opts.Detailed), ", "))
	})

	buf.WriteString("\n")
	doc.Root.Walk(func(s *document.NodeSpec) {
		for _, c := range s.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", names[s], names[c])
		}
	})

	if !opts.HideConnectors && len(doc.Connectors) > 0 {
		buf.WriteString("\n")
		for _, c := range doc.Connectors {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=normal, constraint=false];\n",
				"n"+c.From.String(), "n"+c.To.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeNames(doc *document.Document) map[*document.NodeSpec]string {
	var top uint64
	doc.Root.Walk(func(s *document.NodeSpec) { top = max(top, uint64(s.ID)) })

	names := make(map[*document.NodeSpec]string, doc.Len())
	doc.Root.Walk(func(s *document.NodeSpec) {
		id := uint64(s.ID)
		if id == 0 {
			top++
			id = top
		}
		names[s] = "n" + strconv.FormatUint(id, 10)
	})
	return names
}

func fmtLabel(s *document.NodeSpec, detailed bool) string {
	if !detailed {
		return s.Label
	}
	return fmt.Sprintf("%s\n#%s (%.0f, %.0f)", s.Label, s.ID, s.X, s.Y)
}

func fmtAttrs(s *document.NodeSpec, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s, detailed))}
	if s.Label == "" {
		attrs = append(attrs, "shape=box", "style=dashed", "width=0.3", "height=0.3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is RenderSVG with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
