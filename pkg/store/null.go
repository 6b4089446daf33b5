package store

import (
	"context"

	"github.com/matzehuels/syntree/pkg/document"
)

// NullStore is a store that never keeps anything.
// Useful when persistence is disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Get always reports the document as missing.
func (s *NullStore) Get(ctx context.Context, id string) (*document.Document, error) {
	return nil, notFound(id)
}

// Put validates doc and discards it.
func (s *NullStore) Put(ctx context.Context, doc *document.Document) error {
	return checkDoc(doc)
}

// Delete always reports the document as missing.
func (s *NullStore) Delete(ctx context.Context, id string) error {
	return notFound(id)
}

// List returns no IDs.
func (s *NullStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

var _ Store = (*NullStore)(nil)
