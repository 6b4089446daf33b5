package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/buildinfo"
	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/store"
	"github.com/matzehuels/syntree/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "syntree"

	// settingsFile is the settings file name inside the config directory.
	settingsFile = appName + ".toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	settingsPath string
	settings     Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Settings are loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Syntree draws and edits syntax tree diagrams",
		Long:         `Syntree is an editor for syntax tree diagrams. It renders tree documents to SVG and Graphviz, edits them in the terminal and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := LoadSettings(c.settingsPath)
			if err != nil {
				return err
			}
			c.settings = s
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.Logger.Debug("settings loaded", "store", s.StoreLocation(), "level_gap", s.LevelGap, "sibling_gap", s.SiblingGap)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.settingsPath, "config", "", "settings file (default "+filepath.Join("$XDG_CONFIG_HOME", appName, settingsFile)+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace Factory
// =============================================================================

// workspaceOptions returns the options every command opens workspaces with.
// The workspace logs through the command's context logger.
func (c *CLI) workspaceOptions(ctx context.Context, s store.Store) []workspace.Option {
	return []workspace.Option{
		workspace.WithLogger(loggerFromContext(ctx)),
		workspace.WithLayout(c.settings.Layout()),
		workspace.WithAnimation(float32(c.settings.Animation)),
		workspace.WithStore(s),
	}
}

// openWorkspace opens the stored document id when set, otherwise the
// document file at path. A path that does not exist yet starts an empty
// diagram.
func (c *CLI) openWorkspace(ctx context.Context, s store.Store, path, id string) (*workspace.Workspace, error) {
	opts := c.workspaceOptions(ctx, s)
	if id != "" {
		return workspace.Load(ctx, s, id, opts...)
	}
	if path == "" {
		return workspace.New(opts...)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		loggerFromContext(ctx).Debug("starting new document", "path", path)
		return workspace.New(opts...)
	}
	doc, err := document.Import(path)
	if err != nil {
		return nil, err
	}
	return workspace.Open(doc, opts...)
}

// openStore opens location, falling back to the configured store.
func (c *CLI) openStore(ctx context.Context, location string) (store.Store, error) {
	location = c.storeLabel(location)
	loggerFromContext(ctx).Debug("opening store", "backend", store.Backend(location))
	return store.Open(ctx, location)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the settings directory using XDG standard (~/.config/syntree/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// dataDir returns the default document store directory using XDG standard
// (~/.local/share/syntree/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if home := os.Getenv(env); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
