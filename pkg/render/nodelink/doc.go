// Package nodelink renders tree documents as Graphviz node-link diagrams.
//
// # Overview
//
// The editor draws trees at the positions users give them. This package
// ignores those positions and lets Graphviz lay the tree out instead, which
// is useful for quick previews of large documents and for tools that
// consume DOT.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # DOT Format
//
// Branches are solid arrows from parent to child, ranked top to bottom.
// Movement connectors are dashed arrows that do not constrain ranking, so
// they never distort the tree shape. Nodes keep their child order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
