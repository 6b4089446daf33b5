package tree

import (
	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/syntree/pkg/ident"
)

// Layout positions the nodes of a subtree.
type Layout interface {
	// Redistribute repositions the descendants of root.
	Redistribute(root *Node)
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(root *Node)

// Redistribute calls f(root).
func (f LayoutFunc) Redistribute(root *Node) { f(root) }

type nopLayout struct{}

func (nopLayout) Redistribute(*Node) {}

// Option configures a Tree.
type Option func(*Tree)

// WithLayout sets the layout used after deletes. The default leaves nodes
// where they are.
func WithLayout(l Layout) Option {
	return func(t *Tree) {
		if l != nil {
			t.layout = l
		}
	}
}

// WithLogger sets the debug logger shared by the tree and its engines.
func WithLogger(l *log.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithAllocator shares an ID allocator with the tree.
func WithAllocator(a *ident.Allocator) Option {
	return func(t *Tree) {
		if a != nil {
			t.alloc = a
		}
	}
}

// WithEdgeAnimation animates edge geometry changes over seconds. Animated
// edges advance with Tree.Advance.
func WithEdgeAnimation(seconds float32, fn ease.TweenFunc) Option {
	return func(t *Tree) {
		if seconds > 0 {
			t.animation = seconds
		}
		if fn != nil {
			t.ease = fn
		}
	}
}
