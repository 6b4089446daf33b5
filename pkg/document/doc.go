// Package document provides import and export of tree diagrams.
//
// # Overview
//
// A [Document] is the persistent form of a [tree.Tree]: a title, a nested
// root [NodeSpec] and the movement connectors between nodes. Documents are
// read from and written to JSON, YAML or TOML:
//
//	{
//	  "title": "The cat sat",
//	  "root": {
//	    "id": 1, "x": 200, "y": 40, "label": "S",
//	    "children": [
//	      {"id": 2, "label": "NP"},
//	      {"id": 3, "label": "VP"}
//	    ]
//	  },
//	  "connectors": [{"from": 2, "to": 3}]
//	}
//
// # Validation
//
// Every node object is checked with [tree.NodeSchema] before the document
// is accepted, so values that the editor would reject at construction are
// rejected at load time too. Unusable optional values fall back to their
// defaults exactly as they do for [tree.Tree.NewNode].
//
// # Building Trees
//
// [Build] turns a document into a live tree with every node marked real and
// IDs preserved. [Snapshot] captures a tree as a document. [WriteSVG] wraps
// the tree's exported markup in a standalone SVG file.
//
//	doc, err := document.Import("sentence.toml")
//	t, err := document.Build(doc, svg.New(), tree.WithLayout(layout.NewTidy()))
//	err = document.WriteSVG(os.Stdout, t)
//
// [tree.Tree]: github.com/matzehuels/syntree/pkg/tree.Tree
// [tree.NodeSchema]: github.com/matzehuels/syntree/pkg/tree#NodeSchema
// [tree.Tree.NewNode]: github.com/matzehuels/syntree/pkg/tree#Tree.NewNode
package document
