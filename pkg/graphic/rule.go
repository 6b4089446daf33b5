package graphic

import "github.com/matzehuels/syntree/pkg/render"

// Rule reconciles one state. It is implemented only by BooleanRule and
// CustomRule.
type Rule[T any] interface {
	isRule()
}

// Target pairs an element with the attributes applied for each value of a
// boolean state.
type Target struct {
	Element string
	True    render.Attrs
	False   render.Attrs
}

// BooleanRule applies True or False attributes of each target depending on
// the live value returned by Source.
type BooleanRule[T any] struct {
	Source  func(owner T) bool
	Targets []Target
}

func (BooleanRule[T]) isRule() {}

// CustomRule performs arbitrary reconciliation for a state.
type CustomRule[T any] func(owner T, e *Engine[T])

func (CustomRule[T]) isRule() {}
