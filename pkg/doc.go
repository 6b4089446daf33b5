// Package pkg provides the core libraries of the syntree diagram editor.
//
// # Overview
//
// Syntree edits syntax tree diagrams: labelled nodes joined by branches,
// plus dashed movement connectors between arbitrary nodes. The pkg
// directory is organized into four main areas:
//
//  1. Editor core - [tree], [graphic], [ident] and [config]
//  2. Drawing - [render], [render/svg] and [render/nodelink]
//  3. Documents - [document], [layout] and [store]
//  4. Editing sessions - [workspace] and [observability]
//
// # Architecture
//
// The typical data flow through syntree:
//
//	Document file or store (JSON, YAML, TOML, msgpack, BSON)
//	         ↓
//	    [document] package (validate + build tree)
//	         ↓
//	    [tree] package (nodes, branches, connectors over a Renderer)
//	         ↓
//	    [workspace] package (selection, keyboard actions, saving)
//	         ↓
//	    SVG / DOT output
//
// # Quick Start
//
// Draw a two-node tree and export it:
//
//	import (
//	    "github.com/matzehuels/syntree/pkg/document"
//	    "github.com/matzehuels/syntree/pkg/workspace"
//	)
//
//	ws, _ := workspace.New(workspace.WithTitle("sentence"))
//	_ = ws.Do(workspace.ActionType, "S")
//	_ = ws.Do(workspace.ActionEnter, "")
//	_ = ws.Do(workspace.ActionDown, "") // new child, editor open
//	_ = ws.Do(workspace.ActionType, "NP")
//	_ = ws.Do(workspace.ActionEnter, "")
//	_ = document.Export(ws.Snapshot(), "sentence.yaml")
//	svg := ws.SVG()
//
// # Main Packages
//
// ## Editor Core
//
// [tree] - Nodes, branches and connectors. Every entity owns a [graphic]
// engine that keeps its visual elements in step with its model through
// dirty states and rules.
//
// [graphic] - The synchronization engine: named elements, declared states,
// rules mapping states to element updates, and transactional flushes.
//
// [ident] - Sequential entity IDs with reservation for loaded documents.
//
// [config] - Property bag validation and typed decoding for entity
// construction.
//
// ## Drawing
//
// [render] - The Renderer interface the core draws through.
// [render/svg] is an in-memory SVG implementation and [render/nodelink]
// exports documents to Graphviz.
//
// ## Documents
//
// [document] - Document model, format codecs and conversion to and from
// trees. [layout] positions children under their parents. [store] keeps
// documents on disk, in Redis or in MongoDB.
//
// ## Editing Sessions
//
// [workspace] - One open diagram with a selection, keyboard-style actions
// and saving. [observability] reports flushes, moves, store calls and HTTP
// requests to pluggable hooks, with a Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/tree/...               # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/tree
// [graphic]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/graphic
// [ident]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/ident
// [config]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render/nodelink
// [document]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/document
// [layout]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/layout
// [store]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/store
// [workspace]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/workspace
// [observability]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/observability
package pkg
