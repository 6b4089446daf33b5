package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/workspace"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	id       string // stored document to open instead of a file
	title    string // title for a new document
	location string // store location overriding settings
}

// editCommand creates the interactive edit command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a tree document in the terminal",
		Long: `Edit a tree document in the terminal.

With a file, ctrl+s writes the document back to it; a file that does not
exist yet starts an empty diagram. Without a file, or with --id, ctrl+s
saves to the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "open a stored document by id")
	cmd.Flags().StringVar(&opts.title, "title", "", "title of a new document")
	cmd.Flags().StringVar(&opts.location, "store", "", "store location (default from settings)")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, opts editOpts) error {
	s, err := c.openStore(ctx, opts.location)
	if err != nil {
		return err
	}
	defer s.Close()

	ws, err := c.openWorkspace(ctx, s, path, opts.id)
	if err != nil {
		return err
	}
	if opts.title != "" {
		ws.SetTitle(opts.title)
	}

	m := NewEditModel(ctx, ws, editSaver(path, opts.id))
	if _, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	printInfo("Closed %s", StyleHighlight.Render(ws.ID()))
	return nil
}

// editSaver writes to the document file when editing one, otherwise to the
// workspace's store.
func editSaver(path, id string) saveFunc {
	if path != "" && id == "" {
		return func(_ context.Context, ws *workspace.Workspace) (string, error) {
			return path, document.Export(ws.Snapshot(), path)
		}
	}
	return func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		return ws.ID(), ws.Save(ctx)
	}
}
