// Package workspace is the editing session around one tree diagram.
//
// A [Workspace] owns a tree drawn on an in-memory SVG document, lays it out
// with [layout.Tidy] and maps keyboard-style [Action] values onto tree
// operations:
//
//	Up      select the parent
//	Down    select the first child, or add a provisional child and edit it
//	Left    select the previous sibling, or add a provisional one before
//	Right   select the next sibling, or add a provisional one after
//	Enter   open the label editor, or save it when open
//	Escape  cancel the edit; a provisional node is abandoned
//	Delete  delete the selected node and select its parent
//	Type    replace the editor content
//
// Provisional nodes exist only until they are saved: navigating away from
// one removes it again.
//
// All methods are safe for concurrent use. A workspace persists itself
// through a [store.Store] under its document ID.
//
// [layout.Tidy]: github.com/matzehuels/syntree/pkg/layout#Tidy
// [store.Store]: github.com/matzehuels/syntree/pkg/store#Store
package workspace
