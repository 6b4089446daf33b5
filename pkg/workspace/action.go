package workspace

import (
	"strings"

	"github.com/matzehuels/syntree/pkg/errors"
)

// Action is a navigation or editing command.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionEnter
	ActionDelete
	ActionEscape
	ActionType
)

var actionNames = [...]string{"up", "down", "left", "right", "enter", "delete", "escape", "type"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction converts an action name such as "left" into an Action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range actionNames {
		if s == name {
			return Action(i), nil
		}
	}
	switch s {
	case "del", "backspace":
		return ActionDelete, nil
	case "esc":
		return ActionEscape, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown action %q", s)
}
