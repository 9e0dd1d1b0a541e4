package marketfeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// upstream listings move slowly, five minutes matches the lifetime the
// dashboard previously used in-process
const cacheLifetime = time.Minute * 5

type responseCache struct {
	db *badger.DB
}

func newResponseCache(dir string) (*responseCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &responseCache{db: db}, nil
}

func (c *responseCache) close() error {
	return c.db.Close()
}

func (c *responseCache) get(ctx context.Context, key string) (Feed, bool) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return Feed{}, false
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return Feed{}, false
	}

	var feed Feed
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &feed)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cached feed")
		return Feed{}, false
	}
	return feed, true
}

func (c *responseCache) put(ctx context.Context, key string, feed Feed) {
	ctx, span := tracer.Start(ctx, "cache:put")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	encoded, err := json.Marshal(feed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode feed")
		return
	}

	err = c.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), encoded).WithTTL(cacheLifetime)
		return tx.SetEntry(entry)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write item to badger")
	}
}
