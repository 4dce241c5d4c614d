// Package store persists enriched lead documents by key.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lead-summarizer/internal/common/config"
	"lead-summarizer/internal/common/database"
	"lead-summarizer/internal/common/logger"
	"lead-summarizer/internal/common/metrics"
	"lead-summarizer/internal/models"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store is a key addressed document store with last-write-wins upserts.
type Store interface {
	Get(ctx context.Context, key string) (models.Document, error)
	Upsert(ctx context.Context, key string, doc models.Document) error
	Ping(ctx context.Context) error
}

// New connects the backend selected by cfg.Store.Backend. The returned closer
// releases the underlying connection.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, io.Closer, error) {
	var (
		s      Store
		closer io.Closer = nopCloser{}
	)

	switch cfg.Store.Backend {
	case config.BackendCouchbase:
		client, err := database.NewCouchbase(cfg.Database.Couchbase)
		if err != nil {
			return nil, nil, err
		}
		s = NewCouchbase(WrapCollection(client.Collection), client.Ping)
		closer = client
	case config.BackendElasticsearch:
		client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		s = NewElasticsearch(client.Client, cfg.Database.Elasticsearch.Index, cfg.Database.Elasticsearch.Refresh)
		closer = client
	case config.BackendRedis:
		client := database.NewRedis(cfg.Database.Redis)
		s = NewRedis(client.Client, cfg.Database.Redis.KeyPrefix)
		closer = client
	case config.BackendPostgres:
		client, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		pg := NewPostgres(client.DB, cfg.Database.Postgres.Table)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		s = pg
		closer = client
	case config.BackendMemory:
		s = NewMemory()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	log.Info("document store ready", map[string]interface{}{"backend": cfg.Store.Backend})
	return Instrument(s, cfg.Store.Backend), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type instrumented struct {
	next    Store
	backend string
}

// Instrument counts operations per backend and outcome.
func Instrument(next Store, backend string) Store {
	return &instrumented{next: next, backend: backend}
}

func (i *instrumented) Get(ctx context.Context, key string) (models.Document, error) {
	doc, err := i.next.Get(ctx, key)
	outcome := "hit"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "miss"
	case err != nil:
		outcome = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(i.backend, "get", outcome).Inc()
	return doc, err
}

func (i *instrumented) Upsert(ctx context.Context, key string, doc models.Document) error {
	err := i.next.Upsert(ctx, key, doc)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(i.backend, "upsert", outcome).Inc()
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

// decodeDocument keeps numbers as json.Number so stored values survive a
// read-modify-write unchanged.
func decodeDocument(data []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, nil
}
