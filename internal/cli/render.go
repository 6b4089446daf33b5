package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/render/nodelink"
	"github.com/matzehuels/syntree/pkg/render/svg"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Render formats beyond the document formats.
const (
	formatSVG      = "svg"      // the diagram as the editor draws it
	formatDOT      = "dot"      // Graphviz source
	formatGraphviz = "graphviz" // node-link SVG laid out by Graphviz
)

// renderFormats lists every --format value with its default file suffix.
var renderFormats = map[string]string{
	formatSVG:                   ".svg",
	formatDOT:                   ".dot",
	formatGraphviz:              ".nodelink.svg",
	string(document.FormatJSON): ".json",
	string(document.FormatYAML): ".yaml",
	string(document.FormatTOML): ".toml",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string // output file path, "-" for stdout
	format         string // one of renderFormats
	detailed       bool   // show ids and positions in DOT labels
	hideConnectors bool   // omit connectors from DOT output
}

// renderCommand creates the render command for exporting documents.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree document to SVG, DOT or another document format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if err := validateRenderFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or - for stdout (default: input name with the format's suffix)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, graphviz, json, yaml, toml")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and positions (dot, graphviz)")
	cmd.Flags().BoolVar(&opts.hideConnectors, "hide-connectors", false, "omit connectors (dot, graphviz)")

	return cmd
}

// validateRenderFormat rejects formats render cannot produce.
func validateRenderFormat(format string) error {
	if _, ok := renderFormats[format]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q", format)
	}
	return nil
}

// runRender reads path and writes it in opts.format.
func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := document.Import(path)
	if err != nil {
		return err
	}
	logger.Debug("document loaded", "path", path, "nodes", doc.Len(), "connectors", len(doc.Connectors))

	data, err := c.renderDocument(ctx, doc, opts)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = defaultOutputPath(path, opts.format)
		if filepath.Clean(out) == filepath.Clean(path) {
			return errors.New(errors.ErrCodeInvalidPath, "refusing to overwrite %s, pass --output", path)
		}
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	prog.done(fmt.Sprintf("Rendered %d nodes", doc.Len()))
	printSuccess("Rendered %s", StyleHighlight.Render(opts.format))
	printStats(doc.Len(), len(doc.Connectors))
	printFile(out)
	return nil
}

// renderDocument produces the bytes of doc in opts.format.
func (c *CLI) renderDocument(ctx context.Context, doc *document.Document, opts renderOpts) ([]byte, error) {
	dotOpts := nodelink.Options{Detailed: opts.detailed, HideConnectors: opts.hideConnectors}

	switch opts.format {
	case formatSVG:
		t, err := document.Build(doc, svg.New(), tree.WithLayout(c.settings.Layout()), tree.WithLogger(c.Logger))
		if err != nil {
			return nil, err
		}
		return document.SVG(t, doc.Title), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(doc, dotOpts)), nil
	case formatGraphviz:
		return nodelink.RenderSVGContext(ctx, nodelink.ToDOT(doc, dotOpts))
	default:
		format, err := document.ParseFormat(opts.format)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := document.Write(&buf, doc, format); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// defaultOutputPath swaps the extension of path for the format's suffix.
func defaultOutputPath(path, format string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + renderFormats[format]
}
