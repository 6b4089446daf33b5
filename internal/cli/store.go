package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/store"
)

// storeCommand creates the document store management command.
func (c *CLI) storeCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored documents",
		Long: `Manage documents kept in a store.

The store defaults to the settings file's store, or a directory under the
user data directory. --store accepts a directory, file://, redis:// or
mongodb:// location.`,
	}
	cmd.PersistentFlags().StringVar(&location, "store", "", "store location (default from settings)")

	cmd.AddCommand(c.storeListCommand(&location))
	cmd.AddCommand(c.storeGetCommand(&location))
	cmd.AddCommand(c.storePutCommand(&location))
	cmd.AddCommand(c.storeRemoveCommand(&location))

	return cmd
}

// withStore opens the store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, location string, fn func(store.Store) error) error {
	s, err := c.openStore(ctx, location)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// storeListCommand creates the "store ls" subcommand.
func (c *CLI) storeListCommand(location *string) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored document ids",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), *location, func(s store.Store) error {
				ids, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					printInfo("Store is empty")
					printDetail("Location: %s", c.storeLabel(*location))
					return nil
				}
				out := cmd.OutOrStdout()
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}
}

// storeGetCommand creates the "store get" subcommand.
func (c *CLI) storeGetCommand(location *string) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print or export a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), *location, func(s store.Store) error {
				doc, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output != "" {
					if err := document.Export(doc, output); err != nil {
						return err
					}
					printSuccess("Exported %s", StyleHighlight.Render(doc.ID))
					printFile(output)
					return nil
				}
				f, err := document.ParseFormat(format)
				if err != nil {
					return err
				}
				return document.Write(cmd.OutOrStdout(), doc, f)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file, format chosen by extension")
	cmd.Flags().StringVarP(&format, "format", "f", string(document.FormatJSON), "format for stdout: json, yaml, toml")

	return cmd
}

// storePutCommand creates the "store put" subcommand.
func (c *CLI) storePutCommand(location *string) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a document file",
		Long: `Store a document file.

The document is stored under --id, else its own id, else the file name
without extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Import(args[0])
			if err != nil {
				return err
			}
			doc.ID = documentID(doc, id, args[0])

			return c.withStore(cmd.Context(), *location, func(s store.Store) error {
				if err := s.Put(cmd.Context(), doc); err != nil {
					return err
				}
				printSuccess("Stored %s", StyleHighlight.Render(doc.ID))
				printStats(doc.Len(), len(doc.Connectors))
				printNextStep("Edit it", "syntree edit --id "+doc.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document id")

	return cmd
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand(location *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove stored documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), *location, func(s store.Store) error {
				var failed int
				for _, id := range args {
					if err := s.Delete(cmd.Context(), id); err != nil {
						printError("%s: %v", id, err)
						failed++
						continue
					}
					printSuccess("Removed %s", StyleHighlight.Render(id))
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d documents not removed", failed, len(args))
				}
				return nil
			})
		},
	}
}

// documentID picks the id a document file is stored under.
func documentID(doc *document.Document, flag, path string) string {
	switch {
	case flag != "":
		return flag
	case doc.ID != "":
		return doc.ID
	default:
		base := filepath.Base(path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}
