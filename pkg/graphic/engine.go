package graphic

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/render"
)

// AttrFunc applies attributes to an element. Elements whose attributes are
// not plain markup attributes (an input surface positioned with CSS-style
// keys, for instance) register their own.
type AttrFunc func(r render.Renderer, h render.Handle, attrs render.Attrs)

// DefaultAttr applies attrs with Renderer.Apply.
func DefaultAttr(r render.Renderer, h render.Handle, attrs render.Attrs) {
	r.Apply(h, attrs)
}

// Element is a registered visual element.
type Element struct {
	Name   string
	Handle render.Handle
	Attr   AttrFunc
	Export bool
}

// ElementOption configures an element at registration.
type ElementOption func(*Element)

// WithAttrFunc replaces DefaultAttr for the element.
func WithAttrFunc(fn AttrFunc) ElementOption {
	return func(el *Element) {
		if fn != nil {
			el.Attr = fn
		}
	}
}

// Exported includes the element in ExportMarkup.
func Exported() ElementOption {
	return func(el *Element) { el.Export = true }
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	kind   string
	logger *log.Logger
}

// WithKind names the owner kind reported to observability hooks and logs.
func WithKind(kind string) Option {
	return func(o *options) { o.kind = kind }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Engine synchronizes the elements of one owner. It is not safe for
// concurrent use.
type Engine[T any] struct {
	owner    T
	r        render.Renderer
	kind     string
	logger   *log.Logger
	elements map[string]*Element
	order    []string
	states   []string
	synced   map[string]bool
	rules    map[string]Rule[T]
	always   CustomRule[T]
	disposed bool

	// cursor is the index of the state being flushed, or len(states) while
	// the catch-all rule runs. -1 outside of Update.
	cursor int
}

// New creates an engine for owner drawing on r.
func New[T any](r render.Renderer, owner T, opts ...Option) *Engine[T] {
	o := options{kind: "graphic"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return &Engine[T]{
		owner:    owner,
		r:        r,
		kind:     o.kind,
		logger:   o.logger,
		elements: make(map[string]*Element),
		synced:   make(map[string]bool),
		rules:    make(map[string]Rule[T]),
		cursor:   -1,
	}
}

// Register adds a named element. Registering a name twice fails with
// DUPLICATE_ELEMENT_NAME and leaves the first registration in place.
func (e *Engine[T]) Register(name string, h render.Handle, opts ...ElementOption) error {
	if e.disposed {
		return errors.New(errors.ErrCodeUsage, "register %q on a disposed %s engine", name, e.kind)
	}
	if err := errors.ValidateElementName(name); err != nil {
		return err
	}
	if _, ok := e.elements[name]; ok {
		return errors.New(errors.ErrCodeDuplicateElement, "element %q is already registered", name)
	}
	el := &Element{Name: name, Handle: h, Attr: DefaultAttr}
	for _, opt := range opts {
		opt(el)
	}
	e.elements[name] = el
	e.order = append(e.order, name)
	return nil
}

// Declare adds a state with its rule. New states start dirty so the first
// Update draws them.
func (e *Engine[T]) Declare(state string, rule Rule[T]) error {
	if rule == nil {
		return errors.New(errors.ErrCodeUsage, "state %q declared without a rule", state)
	}
	if _, ok := e.rules[state]; ok {
		return errors.New(errors.ErrCodeUsage, "state %q is already declared", state)
	}
	if br, ok := rule.(BooleanRule[T]); ok && br.Source == nil {
		return errors.New(errors.ErrCodeUsage, "boolean rule for %q has no source", state)
	}
	if cr, ok := rule.(CustomRule[T]); ok && cr == nil {
		return errors.New(errors.ErrCodeUsage, "custom rule for %q is nil", state)
	}
	e.rules[state] = rule
	if _, ok := e.synced[state]; !ok {
		e.states = append(e.states, state)
	}
	e.synced[state] = false
	return nil
}

// SetAlways sets the catch-all rule run at the end of every Update.
func (e *Engine[T]) SetAlways(fn CustomRule[T]) {
	e.always = fn
}

// MarkDirty flags state as needing reconciliation. A state without a rule
// is tracked like any other and the next Update cleans it, logging at debug
// level.
func (e *Engine[T]) MarkDirty(state string) {
	i := slices.Index(e.states, state)
	if i < 0 {
		e.states = append(e.states, state)
		i = len(e.states) - 1
	}
	if e.cursor >= 0 && i <= e.cursor {
		panic(fmt.Sprintf("graphic: %s state %q dirtied during Update after its turn", e.kind, state))
	}
	e.synced[state] = false
}

// MarkClean flags state as correctly represented.
func (e *Engine[T]) MarkClean(state string) {
	if _, ok := e.synced[state]; !ok {
		e.states = append(e.states, state)
	}
	e.synced[state] = true
}

// Synced reports whether state is clean. Unknown states are clean.
func (e *Engine[T]) Synced(state string) bool {
	v, ok := e.synced[state]
	return !ok || v
}

// Dirty returns the dirty states in declaration order.
func (e *Engine[T]) Dirty() []string {
	var out []string
	for _, s := range e.states {
		if !e.synced[s] {
			out = append(out, s)
		}
	}
	return out
}

// States returns every state in declaration order.
func (e *Engine[T]) States() []string {
	return slices.Clone(e.states)
}

// Update reconciles every dirty state in declaration order and then runs
// the catch-all rule. A nested call from inside a rule returns immediately.
func (e *Engine[T]) Update() {
	if e.disposed || e.cursor >= 0 {
		return
	}
	start := time.Now()
	flushed := 0
	defer func() { e.cursor = -1 }()

	for i := 0; i < len(e.states); i++ {
		state := e.states[i]
		e.cursor = i
		if e.synced[state] {
			continue
		}
		e.dispatch(state)
		e.synced[state] = true
		flushed++
	}

	if e.always != nil {
		e.cursor = len(e.states)
		e.always(e.owner, e)
	}

	observability.Sync().OnFlush(e.kind, flushed, time.Since(start))
	if flushed > 0 {
		e.logger.Debug("graphic flushed", "owner", e.kind, "states", flushed)
	}
}

func (e *Engine[T]) dispatch(state string) {
	switch rule := e.rules[state].(type) {
	case BooleanRule[T]:
		on := rule.Source(e.owner)
		for _, t := range rule.Targets {
			attrs := t.False
			if on {
				attrs = t.True
			}
			e.Apply(t.Element, attrs)
		}
	case CustomRule[T]:
		rule(e.owner, e)
	case nil:
		e.logger.Debug("no rule for dirty state", "owner", e.kind, "state", state)
	default:
		panic(fmt.Sprintf("graphic: unsupported rule type %T", rule))
	}
}

// Apply sets attrs on the named element through its AttrFunc. It panics if
// the element is not registered.
func (e *Engine[T]) Apply(name string, attrs render.Attrs) {
	el, ok := e.elements[name]
	if !ok {
		panic(fmt.Sprintf("graphic: %s has no element %q", e.kind, name))
	}
	if len(attrs) == 0 {
		return
	}
	el.Attr(e.r, el.Handle, attrs)
}

// Element returns the named element.
func (e *Engine[T]) Element(name string) (*Element, bool) {
	el, ok := e.elements[name]
	return el, ok
}

// Handle returns the handle of the named element, or 0.
func (e *Engine[T]) Handle(name string) render.Handle {
	if el, ok := e.elements[name]; ok {
		return el.Handle
	}
	return 0
}

// Elements returns element names in registration order.
func (e *Engine[T]) Elements() []string {
	return slices.Clone(e.order)
}

// Owner returns the model object the engine draws.
func (e *Engine[T]) Owner() T { return e.owner }

// Renderer returns the drawing surface.
func (e *Engine[T]) Renderer() render.Renderer { return e.r }

// ExportMarkup concatenates the markup of exported elements in registration
// order.
func (e *Engine[T]) ExportMarkup() string {
	var b strings.Builder
	for _, name := range e.order {
		el := e.elements[name]
		if el.Export {
			b.WriteString(e.r.Serialize(el.Handle))
		}
	}
	return b.String()
}

// Dispose removes every element from the renderer. Later calls are no-ops.
func (e *Engine[T]) Dispose() {
	if e.disposed {
		return
	}
	for _, name := range e.order {
		e.r.Remove(e.elements[name].Handle)
	}
	e.elements = make(map[string]*Element)
	e.order = nil
	e.disposed = true
}

// Disposed reports whether Dispose was called.
func (e *Engine[T]) Disposed() bool { return e.disposed }
