package render

import "fmt"

// Kind names the shape of a visual element.
type Kind string

const (
	KindText  Kind = "text"
	KindRect  Kind = "rect"
	KindLine  Kind = "line"
	KindImage Kind = "image"
	KindPath  Kind = "path"
	// KindInput is the editable text surface used while a label is edited.
	KindInput Kind = "input"
)

// Reserved attribute keys with meaning beyond plain markup attributes.
const (
	// AttrText is the character content of a text element.
	AttrText = "text"
	// AttrValue is the current value of an input element.
	AttrValue = "value"
	// AttrDisplay hides an element when set to "none".
	AttrDisplay = "display"
	// AttrFocus gives an input element keyboard focus. Its value is
	// FocusPreventScroll or FocusScroll; nil takes focus away.
	AttrFocus = "focus"
)

// Focus modes for AttrFocus.
const (
	FocusPreventScroll = "preventScroll"
	FocusScroll        = "scroll"
)

// Attrs is a set of attributes applied to an element. Values are strings,
// numbers or booleans.
type Attrs map[string]any

// Merge returns a copy of a overlaid with b.
func (a Attrs) Merge(b Attrs) Attrs {
	out := make(Attrs, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Float returns the numeric value of key, or 0 when absent or non-numeric.
func (a Attrs) Float(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// String returns the string form of key, or "" when absent.
func (a Attrs) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Point is a coordinate pair.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box. X2 and Y2 are the far corners and
// W and H the extents, so X2 == X+W and Y2 == Y+H.
type Box struct {
	X, Y, X2, Y2, W, H float64
}

// NewBox builds a Box from its origin and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, X2: x + w, Y2: y + h, W: w, H: h}
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Pad grows the box by p on every side.
func (b Box) Pad(p float64) Box {
	return NewBox(b.X-p, b.Y-p, b.W+2*p, b.H+2*p)
}

// Union returns the smallest box enclosing both b and o. A zero box is
// treated as empty.
func (b Box) Union(o Box) Box {
	if b == (Box{}) {
		return o
	}
	if o == (Box{}) {
		return b
	}
	x, y := min(b.X, o.X), min(b.Y, o.Y)
	x2, y2 := max(b.X2, o.X2), max(b.Y2, o.Y2)
	return NewBox(x, y, x2-x, y2-y)
}

// Handle identifies an element created by a Renderer. The zero Handle never
// refers to an element.
type Handle uint64

// Renderer is the drawing surface. Operations on a removed or unknown
// handle are no-ops returning zero values.
type Renderer interface {
	// Create adds a new element of the given kind with initial attributes.
	Create(kind Kind, attrs Attrs) Handle
	// Apply sets attributes on an element.
	Apply(h Handle, attrs Attrs)
	// Measure returns the element's bounding box.
	Measure(h Handle) Box
	// Remove detaches the element. Removing twice is allowed.
	Remove(h Handle)
	// Serialize returns the element's markup.
	Serialize(h Handle) string
	// Attached reports whether the element is currently part of the surface.
	Attached(h Handle) bool
	// Value returns the current value of an editable element.
	Value(h Handle) string
}
