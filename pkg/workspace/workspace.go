package workspace

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/render/nodelink"
	"github.com/matzehuels/syntree/pkg/render/svg"
	"github.com/matzehuels/syntree/pkg/store"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Workspace is one open diagram.
type Workspace struct {
	mu sync.Mutex

	id     string
	title  string
	canvas *svg.Document
	tree   *tree.Tree

	layout    layout.Tidy
	animation float32
	store     store.Store
	logger    *log.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithID sets the document ID. The default is a random UUID.
func WithID(id string) Option {
	return func(w *Workspace) { w.id = id }
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(w *Workspace) { w.title = title }
}

// WithStore sets where Save writes. The default discards.
func WithStore(s store.Store) Option {
	return func(w *Workspace) {
		if s != nil {
			w.store = s
		}
	}
}

// WithLogger sets the logger shared with the tree.
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithLayout sets the layout gaps.
func WithLayout(l layout.Tidy) Option {
	return func(w *Workspace) { w.layout = l }
}

// WithAnimation animates edges over seconds. See Advance.
func WithAnimation(seconds float32) Option {
	return func(w *Workspace) { w.animation = seconds }
}

func newWorkspace(opts []Option) (*Workspace, error) {
	w := &Workspace{
		layout: layout.NewTidy(),
		store:  store.NewNullStore(),
		logger: log.New(io.Discard),
		canvas: svg.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.id == "" {
		w.id = uuid.NewString()
	}
	if err := errors.ValidateDocumentID(w.id); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workspace) treeOptions() []tree.Option {
	return []tree.Option{
		tree.WithLayout(w.layout),
		tree.WithLogger(w.logger),
		tree.WithEdgeAnimation(w.animation, ease.OutQuad),
	}
}

// New creates a workspace holding a single saved, empty root that is
// selected with its editor open.
func New(opts ...Option) (*Workspace, error) {
	w, err := newWorkspace(opts)
	if err != nil {
		return nil, err
	}
	w.tree = tree.New(w.canvas, w.treeOptions()...)
	root, err := w.tree.Create(tree.NodeConfig{Real: true})
	if err != nil {
		return nil, err
	}
	root.Select()
	if err := root.EditingAction(tree.EditInit); err != nil {
		return nil, err
	}
	return w, nil
}

// Open creates a workspace from a document. The document's ID and title
// win over WithID and WithTitle when set.
func Open(doc *document.Document, opts ...Option) (*Workspace, error) {
	if doc.ID != "" {
		opts = append(opts, WithID(doc.ID))
	}
	if doc.Title != "" {
		opts = append(opts, WithTitle(doc.Title))
	}
	w, err := newWorkspace(opts)
	if err != nil {
		return nil, err
	}
	w.tree, err = document.Build(doc, w.canvas, w.treeOptions()...)
	if err != nil {
		return nil, err
	}
	if root := w.tree.Root(); root != nil {
		root.Select()
	}
	return w, nil
}

// Load reads the document id from s and opens it. The workspace saves back
// to s.
func Load(ctx context.Context, s store.Store, id string, opts ...Option) (*Workspace, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Open(doc, append(opts, WithStore(s))...)
}

// ID returns the document ID.
func (w *Workspace) ID() string { return w.id }

// Title returns the document title.
func (w *Workspace) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SetTitle replaces the document title.
func (w *Workspace) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

// View calls fn with the tree while holding the workspace lock. fn must not
// keep the tree or call back into the workspace.
func (w *Workspace) View(fn func(t *tree.Tree) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.tree)
}

// Update is View for callers that modify the tree directly. The tree is
// laid out again afterwards.
func (w *Workspace) Update(fn func(t *tree.Tree) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer w.tree.Redistribute()
	return fn(w.tree)
}

// Snapshot returns the saved part of the diagram as a document.
func (w *Workspace) Snapshot() *document.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return document.Snapshot(w.tree, w.id, w.title)
}

// SVG renders the diagram as it is drawn, provisional nodes included.
func (w *Workspace) SVG() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return document.SVG(w.tree, w.title)
}

// DOT renders the saved diagram as Graphviz source.
func (w *Workspace) DOT(opts nodelink.Options) string {
	return nodelink.ToDOT(w.Snapshot(), opts)
}

// Save writes the snapshot to the workspace's store.
func (w *Workspace) Save(ctx context.Context) error {
	doc := w.Snapshot()
	if err := w.store.Put(ctx, doc); err != nil {
		return err
	}
	w.logger.Debug("workspace saved", "id", w.id, "nodes", doc.Len())
	return nil
}

// Advance steps edge animations by dt seconds and reports whether any are
// still running.
func (w *Workspace) Advance(dt float32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tree.Advance(dt)
}

// Selected returns the ID of the selected node, or ident.None.
func (w *Workspace) Selected() ident.ID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n := w.tree.Selected(); n != nil {
		return n.ID()
	}
	return ident.None
}
