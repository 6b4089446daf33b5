// Package store persists tree documents.
//
// Every backend implements [Store] and keys documents by their ID, which
// must pass [errors.ValidateDocumentID]. A missing document is reported with
// the DOCUMENT_NOT_FOUND code and backend failures with STORE_ERROR.
//
//	s, err := store.Open(ctx, "redis://localhost:6379/0")
//	defer s.Close()
//	err = s.Put(ctx, doc)
//	doc, err = s.Get(ctx, doc.ID)
//
// [errors.ValidateDocumentID]: github.com/matzehuels/syntree/pkg/errors#ValidateDocumentID
package store

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/observability"
)

// Store reads and writes documents.
type Store interface {
	// Get returns the document stored under id.
	Get(ctx context.Context, id string) (*document.Document, error)
	// Put stores doc under doc.ID, replacing any previous version.
	Put(ctx context.Context, doc *document.Document) error
	// Delete removes the document stored under id.
	Delete(ctx context.Context, id string) error
	// List returns the stored IDs in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close releases the backend's resources.
	Close() error
}

// Open creates a store from a location string:
//
//	""  or "null:"                  NullStore
//	"redis://host:port/db"          RedisStore
//	"mongodb://host/db?collection=" MongoStore
//	"file:///dir" or a plain path   FileStore
func Open(ctx context.Context, location string) (Store, error) {
	switch {
	case location == "" || location == "null:":
		return NewNullStore(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		s, err := OpenRedis(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		s, err := OpenMongo(ctx, location)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := NewFileStore(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Backend returns the backend name of a location, as used in metrics.
func Backend(location string) string {
	switch {
	case location == "" || location == "null:":
		return backendNull
	case strings.HasPrefix(location, "redis"):
		return backendRedis
	case strings.HasPrefix(location, "mongodb"):
		return backendMongo
	default:
		return backendFile
	}
}

const (
	backendNull  = "null"
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
)

func notFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
}

func storeErr(err error, op, id string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStore, err, "%s %q", op, id)
}

func checkDoc(doc *document.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil document")
	}
	return errors.ValidateDocumentID(doc.ID)
}

func observeLoad(ctx context.Context, backend string, start time.Time, err error) {
	observability.Store().OnLoad(ctx, backend, time.Since(start), err)
}

func observeSave(ctx context.Context, backend string, size int, start time.Time, err error) {
	observability.Store().OnSave(ctx, backend, size, time.Since(start), err)
}
