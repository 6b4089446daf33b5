package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/internal/server"
	"github.com/matzehuels/syntree/pkg/buildinfo"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/store"
)

const defaultAddr = "127.0.0.1:8080"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	id       string // stored document to serve instead of a file
	location string // store location overriding settings
}

// serveCommand creates the serve command exposing one document over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a tree document over HTTP",
		Long: `Serve a tree document over HTTP.

The server exposes the editor actions, SVG and DOT exports and Prometheus
metrics at /metrics. POST /save writes to the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.id, "id", "", "serve a stored document by id")
	cmd.Flags().StringVar(&opts.location, "store", "", "store location (default from settings)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks, err := observability.NewPrometheusHooks(reg)
	if err != nil {
		return err
	}
	hooks.Install()
	defer observability.Reset()

	s, err := c.openStore(ctx, opts.location)
	if err != nil {
		return err
	}
	defer s.Close()

	ws, err := c.openWorkspace(ctx, s, path, opts.id)
	if err != nil {
		return err
	}

	printSuccess("Serving %s", StyleHighlight.Render(ws.ID()))
	printKeyValue("Address", "http://"+opts.addr)
	location := c.storeLabel(opts.location)
	printKeyValue("Store", location)
	if store.Backend(location) == "null" {
		printWarning("POST /save discards documents with the null store")
	}
	printNextStep("Export the diagram", "curl http://"+opts.addr+"/export.svg")

	srv := server.New(ws,
		server.WithLogger(logger),
		server.WithGatherer(reg),
		server.WithVersion(buildinfo.Version),
	)
	if err := srv.Run(ctx, opts.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// storeLabel names the store location in use.
func (c *CLI) storeLabel(location string) string {
	if location == "" {
		location = c.settings.StoreLocation()
	}
	return location
}
