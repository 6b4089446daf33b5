package workspace

import (
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Do performs action on the selected node. value is the editor content for
// ActionType and ignored otherwise. Without a selection every action except
// Type selects the root.
func (w *Workspace) Do(action Action, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sel := w.tree.Selected()
	if sel == nil {
		root := w.tree.Root()
		if root == nil || action == ActionType {
			return nil
		}
		root.Select()
		return nil
	}
	w.logger.Debug("action", "action", action, "node", sel.ID())

	switch action {
	case ActionUp:
		if p := sel.Parent(); p != nil {
			p.Select()
		}
	case ActionDown:
		if children := sel.Children(); len(children) > 0 {
			children[0].Select()
			return nil
		}
		return w.addProvisional(sel, 0)
	case ActionLeft, ActionRight:
		return w.sideways(sel, action == ActionRight)
	case ActionEnter:
		if sel.Editing() {
			if err := sel.EditingAction(tree.EditSave); err != nil {
				return err
			}
			w.tree.Redistribute()
			return nil
		}
		return sel.EditingAction(tree.EditInit)
	case ActionEscape:
		if err := sel.EditingAction(tree.EditCancel); err != nil {
			return err
		}
		if !sel.Real() {
			if p := sel.Parent(); p != nil {
				p.Select()
			} else {
				sel.Deselect()
			}
		}
	case ActionDelete:
		if root := w.tree.Root(); root != nil && root.ID() == sel.ID() {
			return errors.New(errors.ErrCodeUsage, "cannot delete the root node")
		}
		p := sel.Parent()
		sel.Delete()
		if p != nil {
			p.Select()
		}
	case ActionType:
		if !sel.Editing() {
			return nil
		}
		if err := errors.ValidateLabel(value); err != nil {
			return err
		}
		sel.SetEditorValue(value)
		if err := sel.EditingAction(tree.EditUpdate); err != nil {
			return err
		}
		w.tree.Redistribute()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %d", int(action))
	}
	return nil
}

func (w *Workspace) sideways(sel *tree.Node, right bool) error {
	p := sel.Parent()
	if p == nil {
		return nil
	}
	siblings := p.Children()
	i := sel.Index()
	if right {
		i++
	} else {
		i--
	}
	if i >= 0 && i < len(siblings) {
		siblings[i].Select()
		return nil
	}
	return w.addProvisional(p, max(i, 0))
}

// addProvisional creates an unsaved child of parent at index, selects it and
// opens its editor. Provisional parents get no children.
func (w *Workspace) addProvisional(parent *tree.Node, index int) error {
	if !parent.Real() {
		return nil
	}
	pos := parent.Position()
	n, err := w.tree.Create(tree.NodeConfig{X: pos.X, Y: pos.Y + w.layout.LevelGap})
	if err != nil {
		return err
	}
	if err := parent.InsertChild(n, index); err != nil {
		return err
	}
	w.tree.Redistribute()
	n.Select()
	return n.EditingAction(tree.EditInit)
}

// Select selects the node id, as clicking its label does.
func (w *Workspace) Select(id ident.ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.withNode(id, func(n *tree.Node) error {
		return w.tree.Select(n)
	})
}

// Move places node id at (x, y). With propagate the subtree follows.
func (w *Workspace) Move(id ident.ID, x, y float64, propagate bool) (render.Point, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var moved render.Point
	err := w.withNode(id, func(n *tree.Node) error {
		moved = n.Move(x, y, propagate)
		n.UpdateGraphics(propagate)
		return nil
	})
	return moved, err
}

// Edit drives the label editor of node id. A non-nil value replaces the
// editor content before action runs, so an empty string clears it.
func (w *Workspace) Edit(id ident.ID, action tree.EditAction, value *string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.withNode(id, func(n *tree.Node) error {
		if value != nil {
			if err := errors.ValidateLabel(*value); err != nil {
				return err
			}
			n.SetEditorValue(*value)
		}
		if err := n.EditingAction(action); err != nil {
			return err
		}
		if action == tree.EditSave || action == tree.EditUpdate {
			w.tree.Redistribute()
		}
		return nil
	})
}

// AddChild creates a saved child labelled label under node parent at index
// and returns its ID. A negative index appends.
func (w *Workspace) AddChild(parent ident.ID, label string, index int) (ident.ID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var id ident.ID
	err := w.withNode(parent, func(p *tree.Node) error {
		if !p.Real() {
			return errors.New(errors.ErrCodeUsage, "node %s is not saved", p.ID())
		}
		n, err := w.tree.Create(tree.NodeConfig{Label: label, Real: true, X: p.Position().X, Y: p.Position().Y})
		if err != nil {
			return err
		}
		if index < 0 {
			index = len(p.ChildIDs())
		}
		if err := p.InsertChild(n, index); err != nil {
			n.Delete()
			return err
		}
		w.tree.Redistribute()
		id = n.ID()
		return nil
	})
	return id, err
}

// Delete deletes node id and its subtree. The root cannot be deleted.
func (w *Workspace) Delete(id ident.ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.withNode(id, func(n *tree.Node) error {
		if root := w.tree.Root(); root != nil && root.ID() == id {
			return errors.New(errors.ErrCodeUsage, "cannot delete the root node")
		}
		n.Delete()
		return nil
	})
}

// Connect draws a movement connector between two nodes.
func (w *Workspace) Connect(from, to ident.ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.withNode(from, func(f *tree.Node) error {
		return w.withNode(to, func(t *tree.Node) error {
			_, err := w.tree.Connect(f, t)
			return err
		})
	})
}

func (w *Workspace) withNode(id ident.ID, fn func(*tree.Node) error) error {
	n, err := w.tree.Node(id)
	if err != nil {
		return err
	}
	return fn(n)
}
