package store

import (
	"context"
	"errors"

	"lead-summarizer/internal/models"

	"github.com/couchbase/gocb/v2"
)

// ContentResult is satisfied by *gocb.GetResult.
type ContentResult interface {
	Content(valuePtr interface{}) error
}

// Collection is the slice of a couchbase collection the store needs.
type Collection interface {
	Get(ctx context.Context, key string) (ContentResult, error)
	Upsert(ctx context.Context, key string, value interface{}) error
}

type gocbCollection struct {
	c *gocb.Collection
}

// WrapCollection adapts a gocb collection to Collection.
func WrapCollection(c *gocb.Collection) Collection {
	return &gocbCollection{c: c}
}

func (g *gocbCollection) Get(ctx context.Context, key string) (ContentResult, error) {
	res, err := g.c.Get(key, &gocb.GetOptions{Context: ctx})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (g *gocbCollection) Upsert(ctx context.Context, key string, value interface{}) error {
	_, err := g.c.Upsert(key, value, &gocb.UpsertOptions{Context: ctx})
	return err
}

// Couchbase stores documents as JSON values in a single collection.
type Couchbase struct {
	collection Collection
	ping       func(ctx context.Context) error
}

func NewCouchbase(collection Collection, ping func(ctx context.Context) error) *Couchbase {
	return &Couchbase{collection: collection, ping: ping}
}

func (c *Couchbase) Get(ctx context.Context, key string) (models.Document, error) {
	res, err := c.collection.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var doc models.Document
	if err := res.Content(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, nil
}

func (c *Couchbase) Upsert(ctx context.Context, key string, doc models.Document) error {
	return c.collection.Upsert(ctx, key, doc)
}

func (c *Couchbase) Ping(ctx context.Context) error {
	if c.ping == nil {
		return nil
	}
	return c.ping(ctx)
}
