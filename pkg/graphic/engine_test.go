package graphic

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/svg"
)

type widget struct {
	on    bool
	label string
	calls map[string]int
}

func newWidget() *widget { return &widget{calls: map[string]int{}} }

func highlightRule() BooleanRule[*widget] {
	return BooleanRule[*widget]{
		Source: func(w *widget) bool { return w.on },
		Targets: []Target{{
			Element: "box",
			True:    render.Attrs{"fill": "black"},
			False:   render.Attrs{"fill": "none"},
		}},
	}
}

func newEngine(t *testing.T) (*Engine[*widget], *widget, *svg.Document) {
	t.Helper()
	doc := svg.New()
	w := newWidget()
	e := New(doc, w, WithKind("widget"))
	if err := e.Register("box", doc.Create(render.KindRect, nil)); err != nil {
		t.Fatalf("Register(box) error: %v", err)
	}
	if err := e.Register("text", doc.Create(render.KindText, nil), Exported()); err != nil {
		t.Fatalf("Register(text) error: %v", err)
	}
	if err := e.Declare("on", highlightRule()); err != nil {
		t.Fatalf("Declare(on) error: %v", err)
	}
	err := e.Declare("label", CustomRule[*widget](func(w *widget, e *Engine[*widget]) {
		w.calls["label"]++
		e.Apply("text", render.Attrs{render.AttrText: w.label})
	}))
	if err != nil {
		t.Fatalf("Declare(label) error: %v", err)
	}
	return e, w, doc
}

func TestDeclaredStatesStartDirty(t *testing.T) {
	e, _, _ := newEngine(t)
	got := e.Dirty()
	if len(got) != 2 || got[0] != "on" || got[1] != "label" {
		t.Errorf("Dirty() = %v, want [on label]", got)
	}
	e.Update()
	if d := e.Dirty(); len(d) != 0 {
		t.Errorf("Dirty() after Update = %v, want none", d)
	}
}

func TestBooleanRuleReadsLiveField(t *testing.T) {
	e, w, doc := newEngine(t)
	e.Update()
	box := e.Handle("box")
	if got := doc.Attrs(box)["fill"]; got != "none" {
		t.Errorf("fill = %v, want none", got)
	}

	w.on = true
	e.MarkDirty("on")
	e.Update()
	if got := doc.Attrs(box)["fill"]; got != "black" {
		t.Errorf("fill = %v, want black", got)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	e, w, _ := newEngine(t)
	always := 0
	e.SetAlways(func(*widget, *Engine[*widget]) { always++ })

	e.Update()
	e.Update()
	if w.calls["label"] != 1 {
		t.Errorf("label rule ran %d times, want 1", w.calls["label"])
	}
	if always != 2 {
		t.Errorf("catch-all ran %d times, want 2", always)
	}
}

func TestMarkCleanSkipsRule(t *testing.T) {
	e, w, _ := newEngine(t)
	e.MarkClean("label")
	e.Update()
	if w.calls["label"] != 0 {
		t.Errorf("label rule ran %d times, want 0", w.calls["label"])
	}
	if !e.Synced("label") {
		t.Error("label should be synced")
	}
}

func TestRuleMayDirtyLaterState(t *testing.T) {
	doc := svg.New()
	w := newWidget()
	e := New(doc, w)
	_ = e.Declare("first", CustomRule[*widget](func(w *widget, e *Engine[*widget]) {
		w.calls["first"]++
		e.MarkDirty("second")
	}))
	_ = e.Declare("second", CustomRule[*widget](func(w *widget, _ *Engine[*widget]) {
		w.calls["second"]++
	}))
	e.MarkClean("second")

	e.Update()
	if w.calls["second"] != 1 {
		t.Errorf("second rule ran %d times, want 1", w.calls["second"])
	}
	if len(e.Dirty()) != 0 {
		t.Errorf("Dirty() = %v, want none", e.Dirty())
	}
}

func TestRedirtyFlushedStatePanics(t *testing.T) {
	doc := svg.New()
	e := New(doc, newWidget())
	_ = e.Declare("a", CustomRule[*widget](func(*widget, *Engine[*widget]) {}))
	_ = e.Declare("b", CustomRule[*widget](func(_ *widget, e *Engine[*widget]) {
		e.MarkDirty("a")
	}))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), `"a"`) {
			t.Errorf("panic = %v, want mention of state a", r)
		}
		if e.cursor != -1 {
			t.Error("engine should leave flush mode after a panic")
		}
	}()
	e.Update()
}

func TestAlwaysMayNotDirty(t *testing.T) {
	e, _, _ := newEngine(t)
	e.SetAlways(func(_ *widget, e *Engine[*widget]) { e.MarkDirty("label") })
	defer func() {
		if recover() == nil {
			t.Error("expected panic when catch-all dirties a state")
		}
	}()
	e.Update()
}

func TestNestedUpdateIsNoop(t *testing.T) {
	doc := svg.New()
	w := newWidget()
	e := New(doc, w)
	_ = e.Declare("a", CustomRule[*widget](func(w *widget, e *Engine[*widget]) {
		w.calls["a"]++
		e.Update()
	}))
	e.Update()
	if w.calls["a"] != 1 {
		t.Errorf("rule ran %d times, want 1", w.calls["a"])
	}
}

func TestUnknownStateIsCleanedWithoutRule(t *testing.T) {
	e, _, _ := newEngine(t)
	e.Update()
	e.MarkDirty("mystery")
	if e.Synced("mystery") {
		t.Error("mystery should be dirty")
	}
	if got := e.Dirty(); len(got) != 1 || got[0] != "mystery" {
		t.Errorf("Dirty() = %v, want [mystery]", got)
	}
	if got := e.States(); got[len(got)-1] != "mystery" {
		t.Errorf("States() = %v, want mystery appended", got)
	}
	e.Update()
	if !e.Synced("mystery") {
		t.Error("mystery should be clean after Update")
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	e, _, doc := newEngine(t)
	first := e.Handle("box")
	err := e.Register("box", doc.Create(render.KindRect, nil))
	if !errors.Is(err, errors.ErrCodeDuplicateElement) {
		t.Fatalf("Register() error = %v, want DUPLICATE_ELEMENT_NAME", err)
	}
	if e.Handle("box") != first {
		t.Error("duplicate registration must not replace the element")
	}
}

func TestDeclareErrors(t *testing.T) {
	e, _, _ := newEngine(t)
	tests := []struct {
		name  string
		state string
		rule  Rule[*widget]
	}{
		{"nil rule", "x", nil},
		{"duplicate", "on", highlightRule()},
		{"no source", "y", BooleanRule[*widget]{}},
		{"nil custom", "z", CustomRule[*widget](nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Declare(tt.state, tt.rule); !errors.Is(err, errors.ErrCodeUsage) {
				t.Errorf("Declare() error = %v, want USAGE_ERROR", err)
			}
		})
	}
}

func TestAttrFunc(t *testing.T) {
	doc := svg.New()
	e := New(doc, newWidget())
	var got render.Attrs
	_ = e.Register("editor", doc.Create(render.KindInput, nil), WithAttrFunc(func(r render.Renderer, h render.Handle, a render.Attrs) {
		got = a
		r.Apply(h, render.Attrs{"style": "left:" + a.String("left")})
	}))
	e.Apply("editor", render.Attrs{"left": 4})
	if got.Float("left") != 4 {
		t.Errorf("attr func received %v", got)
	}
	if doc.Attrs(e.Handle("editor"))["style"] != "left:4" {
		t.Errorf("style = %v", doc.Attrs(e.Handle("editor"))["style"])
	}
}

func TestExportMarkup(t *testing.T) {
	e, w, _ := newEngine(t)
	w.label = "NP"
	e.Update()
	got := e.ExportMarkup()
	if !strings.HasPrefix(got, "<text") || !strings.Contains(got, ">NP</text>") {
		t.Errorf("ExportMarkup() = %q", got)
	}
	if strings.Contains(got, "<rect") {
		t.Error("non-exported elements must not appear in markup")
	}
}

func TestDispose(t *testing.T) {
	e, _, doc := newEngine(t)
	e.Dispose()
	e.Dispose()
	if doc.Len() != 0 {
		t.Errorf("renderer still holds %d elements", doc.Len())
	}
	if e.ExportMarkup() != "" {
		t.Error("disposed engine should export nothing")
	}
	e.Update()
	if err := e.Register("again", 1); !errors.Is(err, errors.ErrCodeUsage) {
		t.Errorf("Register after Dispose error = %v, want USAGE_ERROR", err)
	}

	empty := New(doc, newWidget())
	empty.Dispose()
	if !empty.Disposed() {
		t.Error("empty engine should be disposable")
	}
}

type flushRecorder struct {
	observability.NoopSyncHooks
	owner  string
	states int
}

func (f *flushRecorder) OnFlush(owner string, states int, _ time.Duration) {
	f.owner = owner
	f.states += states
}

func TestFlushHooks(t *testing.T) {
	rec := &flushRecorder{}
	observability.SetSyncHooks(rec)
	defer observability.Reset()

	e, _, _ := newEngine(t)
	e.Update()
	if rec.owner != "widget" || rec.states != 2 {
		t.Errorf("hooks saw owner=%q states=%d, want widget/2", rec.owner, rec.states)
	}
}
