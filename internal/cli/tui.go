package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/tree"
	"github.com/matzehuels/syntree/pkg/workspace"
)

// Outline styles
var (
	outlineSelectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	outlineNormalStyle      = lipgloss.NewStyle().Foreground(colorWhite)
	outlineProvisionalStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	outlineDimStyle         = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	emptyLabel   = "·"
	editorCursor = "▌"
)

// =============================================================================
// EditModel - Interactive tree editing
// =============================================================================

// saveFunc persists the workspace for the editor.
type saveFunc func(ctx context.Context, ws *workspace.Workspace) (string, error)

// EditModel is the bubbletea model for editing a diagram. Keys map onto
// workspace actions; printable keys type into the open editor.
type EditModel struct {
	ws     *workspace.Workspace
	save   saveFunc
	ctx    context.Context
	status string
	err    error
	dirty  bool
	Height int
}

// NewEditModel creates an editor over ws. save runs on ctrl+s.
func NewEditModel(ctx context.Context, ws *workspace.Workspace, save saveFunc) EditModel {
	return EditModel{ws: ws, save: save, ctx: ctx, Height: 20}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EditModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editing, value := m.editorState()
	m.err = nil
	m.status = ""

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s":
		where, err := m.save(m.ctx, m.ws)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.dirty = false
		m.status = "saved to " + where
		return m, nil
	case "up":
		return m.do(workspace.ActionUp, "")
	case "down":
		return m.do(workspace.ActionDown, "")
	case "left":
		return m.do(workspace.ActionLeft, "")
	case "right":
		return m.do(workspace.ActionRight, "")
	case "enter":
		return m.do(workspace.ActionEnter, "")
	case "esc":
		return m.do(workspace.ActionEscape, "")
	case "delete":
		return m.do(workspace.ActionDelete, "")
	case "backspace":
		if editing {
			r := []rune(value)
			if len(r) == 0 {
				return m, nil
			}
			return m.do(workspace.ActionType, string(r[:len(r)-1]))
		}
		return m.do(workspace.ActionDelete, "")
	}

	if !editing {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "k":
			return m.do(workspace.ActionUp, "")
		case "j":
			return m.do(workspace.ActionDown, "")
		case "h":
			return m.do(workspace.ActionLeft, "")
		case "l":
			return m.do(workspace.ActionRight, "")
		case "x":
			return m.do(workspace.ActionDelete, "")
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		return m.do(workspace.ActionType, value+string(msg.Runes))
	case tea.KeySpace:
		return m.do(workspace.ActionType, value+" ")
	}
	return m, nil
}

// do applies an action, keeping its error for the status line.
func (m EditModel) do(action workspace.Action, value string) (tea.Model, tea.Cmd) {
	if err := m.ws.Do(action, value); err != nil {
		m.err = err
		return m, nil
	}
	m.dirty = true
	return m, nil
}

// editorState reports whether the selected node is being edited and the
// editor's current text.
func (m EditModel) editorState() (editing bool, value string) {
	_ = m.ws.View(func(t *tree.Tree) error {
		if n := t.Selected(); n != nil && n.Editing() {
			editing, value = true, n.EditorValue()
		}
		return nil
	})
	return editing, value
}

func (m EditModel) View() string {
	var b strings.Builder

	title := m.ws.Title()
	if title == "" {
		title = "Untitled"
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(outlineDimStyle.Render("arrows: navigate  enter: edit/save  esc: cancel  del: delete  ctrl+s: write  q: quit"))
	b.WriteString("\n\n")

	lines := m.outline()
	if len(lines) > m.Height {
		lines = lines[:m.Height]
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.status)
	}
	return b.String()
}

// outline renders the tree one node per line, indented by depth.
func (m EditModel) outline() []string {
	var lines []string
	_ = m.ws.View(func(t *tree.Tree) error {
		t.Walk(func(n *tree.Node, depth int) bool {
			lines = append(lines, outlineLine(n, depth))
			return true
		})
		return nil
	})
	return lines
}

func outlineLine(n *tree.Node, depth int) string {
	cursor := "  "
	if n.Selected() {
		cursor = "▸ "
	}

	label := n.Label()
	if n.Editing() {
		label = n.EditorValue() + editorCursor
	} else if label == "" {
		label = emptyLabel
	}
	text := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", depth), label, outlineDimStyle.Render("#"+n.ID().String()))

	switch {
	case n.Selected():
		return outlineSelectedStyle.Render(text)
	case !n.Real():
		return outlineProvisionalStyle.Render(text)
	default:
		return outlineNormalStyle.Render(text)
	}
}
