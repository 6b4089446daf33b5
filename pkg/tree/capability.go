package tree

import "github.com/matzehuels/syntree/pkg/render"

// Positioned is an entity with a movable position.
type Positioned interface {
	Position() render.Point
	Move(x, y float64, propagate bool) render.Point
}

// Labeled is an entity with a measurable text label.
type Labeled interface {
	Label() string
	SetLabel(label string)
	LabelBBox() render.Box
}

// Selectable is an entity that can hold the selection.
type Selectable interface {
	Select()
	Deselect()
	Selected() bool
}

// Exporter is an entity that contributes markup to a document export.
type Exporter interface {
	ExportMarkup() string
}
