package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "syntree:doc:"

// noExpiry is the index score of documents without a TTL (2100-01-01).
const noExpiry = 4102444800

// RedisStore keeps msgpack-encoded documents in Redis. A sorted set indexes
// the stored IDs by expiry so List can drop expired entries lazily.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires documents ttl after their last Put. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// OpenRedis connects to the Redis server at url (redis://[:password@]host:port/db).
func OpenRedis(url string, opts ...RedisOption) (*RedisStore, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse redis url")
	}
	return NewRedisStore(backend.NewClient(o), opts...), nil
}

// NewRedisStore creates a store over an existing client.
func NewRedisStore(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) indexKey() string { return s.prefix + "index" }

// Get decodes the document stored under id.
func (s *RedisStore) Get(ctx context.Context, id string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, backendRedis, start, err) }()

	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == backend.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr(err, "get", id)
	}

	doc = &document.Document{}
	if err := msgpack.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %q", id)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.ID = id
	return doc, nil
}

// Put stores doc and indexes its ID in one pipeline.
func (s *RedisStore) Put(ctx context.Context, doc *document.Document) (err error) {
	start := time.Now()
	size := 0
	defer func() { observeSave(ctx, backendRedis, size, start, err) }()

	if err := checkDoc(doc); err != nil {
		return err
	}
	data, err := msgpack.Marshal(doc)
	if err != nil {
		return storeErr(err, "encode", doc.ID)
	}
	size = len(data)

	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(doc.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: doc.ID})
	_, err = pipe.Exec(ctx)
	return storeErr(err, "put", doc.ID)
}

// Delete removes the document and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr(err, "delete", id)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

// List prunes expired index entries and returns the remaining IDs.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, storeErr(err, "prune", s.indexKey())
	}
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, storeErr(err, "list", s.indexKey())
	}
	slices.Sort(ids)
	return ids, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
