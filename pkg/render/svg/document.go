package svg

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/syntree/pkg/render"
)

// Option configures a Document.
type Option func(*Document)

// WithFontSize sets the font size used for text metrics and markup.
func WithFontSize(size float64) Option {
	return func(d *Document) {
		if size > 0 {
			d.fontSize = size
		}
	}
}

type element struct {
	kind     render.Kind
	attrs    render.Attrs
	attached bool
}

// Document is a retained set of SVG elements. It is not safe for
// concurrent use.
type Document struct {
	fontSize float64
	next     render.Handle
	elems    map[render.Handle]*element
	order    []render.Handle
	focused  render.Handle
	scroll   bool
}

var _ render.Renderer = (*Document)(nil)

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		fontSize: defaultFontSize,
		elems:    make(map[render.Handle]*element),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FontSize returns the font size used for text metrics.
func (d *Document) FontSize() float64 { return d.fontSize }

// Create implements render.Renderer.
func (d *Document) Create(kind render.Kind, attrs render.Attrs) render.Handle {
	d.next++
	h := d.next
	d.elems[h] = &element{kind: kind, attrs: render.Attrs{}.Merge(attrs), attached: true}
	d.order = append(d.order, h)
	return h
}

// Apply implements render.Renderer.
func (d *Document) Apply(h render.Handle, attrs render.Attrs) {
	el := d.live(h)
	if el == nil {
		return
	}
	for k, v := range attrs {
		if k == render.AttrFocus {
			d.focus(h, v)
			continue
		}
		if v == nil {
			delete(el.attrs, k)
			continue
		}
		el.attrs[k] = v
	}
}

// Measure implements render.Renderer. Text boxes sit on the baseline at
// (x, y); every other kind reads its geometry attributes.
func (d *Document) Measure(h render.Handle) render.Box {
	el := d.live(h)
	if el == nil {
		return render.Box{}
	}
	a := el.attrs
	switch el.kind {
	case render.KindText:
		w, th := TextSize(a.String(render.AttrText), d.fontSize)
		return render.NewBox(a.Float("x"), a.Float("y")-th, w, th)
	case render.KindLine:
		x1, y1, x2, y2 := a.Float("x1"), a.Float("y1"), a.Float("x2"), a.Float("y2")
		return render.NewBox(math.Min(x1, x2), math.Min(y1, y2), math.Abs(x2-x1), math.Abs(y2-y1))
	case render.KindInput:
		return render.NewBox(a.Float("left"), a.Float("top"), a.Float("width"), a.Float("height"))
	case render.KindPath:
		return pathBox(a.String("d"))
	default:
		return render.NewBox(a.Float("x"), a.Float("y"), a.Float("width"), a.Float("height"))
	}
}

// Remove implements render.Renderer.
func (d *Document) Remove(h render.Handle) {
	if el := d.live(h); el != nil {
		el.attached = false
		if d.focused == h {
			d.focused, d.scroll = 0, false
		}
	}
}

func (d *Document) focus(h render.Handle, mode any) {
	if mode == nil {
		if d.focused == h {
			d.focused, d.scroll = 0, false
		}
		return
	}
	d.focused = h
	d.scroll = mode != render.FocusPreventScroll
}

// Focused returns the element holding keyboard focus, or 0, and whether
// focusing it scrolled the view.
func (d *Document) Focused() (render.Handle, bool) {
	return d.focused, d.scroll
}

// Attached implements render.Renderer.
func (d *Document) Attached(h render.Handle) bool {
	return d.live(h) != nil
}

// Value implements render.Renderer.
func (d *Document) Value(h render.Handle) string {
	el := d.live(h)
	if el == nil {
		return ""
	}
	return el.attrs.String(render.AttrValue)
}

// Serialize implements render.Renderer.
func (d *Document) Serialize(h render.Handle) string {
	el := d.live(h)
	if el == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(string(el.kind))

	keys := make([]string, 0, len(el.attrs))
	for k := range el.attrs {
		if k == render.AttrText || (k == render.AttrValue && el.kind != render.KindInput) {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, EscapeXML(formatValue(el.attrs[k])))
	}

	if el.kind == render.KindText {
		fmt.Fprintf(&b, ` font-size="%s">%s</text>`, formatValue(d.fontSize), EscapeXML(el.attrs.String(render.AttrText)))
		return b.String()
	}
	b.WriteString("/>")
	return b.String()
}

// Attrs returns a copy of the element's attributes, or nil if h is not attached.
func (d *Document) Attrs(h render.Handle) render.Attrs {
	el := d.live(h)
	if el == nil {
		return nil
	}
	return render.Attrs{}.Merge(el.attrs)
}

// Kind returns the kind of an attached element.
func (d *Document) Kind(h render.Handle) (render.Kind, bool) {
	el := d.live(h)
	if el == nil {
		return "", false
	}
	return el.kind, true
}

// Handles returns the attached elements in creation order.
func (d *Document) Handles() []render.Handle {
	out := make([]render.Handle, 0, len(d.order))
	for _, h := range d.order {
		if d.elems[h].attached {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of attached elements.
func (d *Document) Len() int { return len(d.Handles()) }

// Compact drops removed elements from memory.
func (d *Document) Compact() {
	d.order = slices.DeleteFunc(d.order, func(h render.Handle) bool {
		if !d.elems[h].attached {
			delete(d.elems, h)
			return true
		}
		return false
	})
}

func (d *Document) live(h render.Handle) *element {
	el, ok := d.elems[h]
	if !ok || !el.attached {
		return nil
	}
	return el
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(math.Round(t*100)/100, 'f', -1, 64)
	case float32:
		return formatValue(float64(t))
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// pathBox computes the extent of the absolute M, L, H and V commands in a
// path. Other commands are ignored.
func pathBox(d string) render.Box {
	var (
		cmd            string
		nums           []float64
		x, y           float64
		x0, y0, x1, y1 float64
		seen           bool
	)
	point := func() {
		if !seen {
			x0, y0, x1, y1 = x, y, x, y
			seen = true
			return
		}
		x0, y0 = min(x0, x), min(y0, y)
		x1, y1 = max(x1, x), max(y1, y)
	}

	for _, f := range strings.FieldsFunc(d, func(r rune) bool { return r == ' ' || r == ',' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			cmd = f
			nums = nums[:0]
			continue
		}
		nums = append(nums, v)
		switch cmd {
		case "M", "L":
			if len(nums) == 2 {
				x, y = nums[0], nums[1]
				nums = nums[:0]
				point()
			}
		case "H":
			x = nums[0]
			nums = nums[:0]
			point()
		case "V":
			y = nums[0]
			nums = nums[:0]
			point()
		}
	}
	if !seen {
		return render.Box{}
	}
	return render.NewBox(x0, y0, x1-x0, y1-y0)
}
