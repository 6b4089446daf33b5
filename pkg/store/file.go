package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
)

const fileExt = ".json"

// FileStore keeps one JSON file per document in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory documents are stored in.
func (s *FileStore) Dir() string { return s.dir }

// Get reads and validates the document stored under id.
func (s *FileStore) Get(ctx context.Context, id string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, backendFile, start, err) }()

	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr(err, "read", id)
	}
	doc, err = document.ReadBytes(data, document.FormatJSON)
	if err != nil {
		return nil, err
	}
	doc.ID = id
	return doc, nil
}

// Put writes doc through a temporary file so readers never see a partial
// document.
func (s *FileStore) Put(ctx context.Context, doc *document.Document) (err error) {
	start := time.Now()
	size := 0
	defer func() { observeSave(ctx, backendFile, size, start, err) }()

	if err := checkDoc(doc); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := document.Write(&buf, doc, document.FormatJSON); err != nil {
		return storeErr(err, "encode", doc.ID)
	}
	size = buf.Len()

	tmp, err := os.CreateTemp(s.dir, "."+doc.ID+"-*")
	if err != nil {
		return storeErr(err, "write", doc.ID)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return storeErr(err, "write", doc.ID)
	}
	if err := tmp.Close(); err != nil {
		return storeErr(err, "write", doc.ID)
	}
	return storeErr(os.Rename(tmp.Name(), s.path(doc.ID)), "write", doc.ID)
}

// Delete removes the document file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	return storeErr(err, "delete", id)
}

// List returns the IDs of the document files in the directory.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storeErr(err, "list", s.dir)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

var _ Store = (*FileStore)(nil)
