package store

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
)

// Defaults for OpenMongo when the URL does not name a database or collection.
const (
	DefaultMongoDatabase   = "syntree"
	DefaultMongoCollection = "documents"
)

// MongoStore keeps documents in a MongoDB collection keyed by _id.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client
}

// OpenMongo connects to uri. The database is taken from the URI path and
// the collection from a "collection" query parameter.
func OpenMongo(ctx context.Context, uri string) (*MongoStore, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse mongo url")
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := u.Query().Get("collection")
	if coll == "" {
		coll = DefaultMongoCollection
	}
	q := u.Query()
	q.Del("collection")
	u.RawQuery = q.Encode()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(u.String()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	s := NewMongoStore(client.Database(db).Collection(coll))
	s.client = client
	return s, nil
}

// NewMongoStore creates a store over an existing collection. Close does not
// disconnect the collection's client.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Get decodes the document with _id id.
func (s *MongoStore) Get(ctx context.Context, id string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, backendMongo, start, err) }()

	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	doc = &document.Document{}
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr(err, "get", id)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Put upserts doc by its ID.
func (s *MongoStore) Put(ctx context.Context, doc *document.Document) (err error) {
	start := time.Now()
	size := 0
	defer func() { observeSave(ctx, backendMongo, size, start, err) }()

	if err := checkDoc(doc); err != nil {
		return err
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return storeErr(err, "encode", doc.ID)
	}
	size = len(data)

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, bson.Raw(data), options.Replace().SetUpsert(true))
	return storeErr(err, "put", doc.ID)
}

// Delete removes the document with _id id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err, "delete", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// List returns every _id in the collection in ascending order.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr(err, "list", s.coll.Name())
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeErr(err, "list", s.coll.Name())
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// Close disconnects the client opened by OpenMongo.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
