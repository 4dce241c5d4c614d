package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"lead-summarizer/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Elasticsearch stores each document as the _source of an index entry whose
// id is the key.
type Elasticsearch struct {
	client  *elasticsearch.Client
	index   string
	refresh string
}

func NewElasticsearch(client *elasticsearch.Client, index, refresh string) *Elasticsearch {
	return &Elasticsearch{client: client, index: index, refresh: refresh}
}

type esGetResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

func (e *Elasticsearch) Get(ctx context.Context, key string) (models.Document, error) {
	res, err := e.client.Get(e.index, key, e.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch get error: %s: %s", res.Status(), body)
	}

	var out esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse elasticsearch response: %w", err)
	}
	if !out.Found {
		return nil, ErrNotFound
	}
	return decodeDocument(out.Source)
}

func (e *Elasticsearch) Upsert(ctx context.Context, key string, doc models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	opts := []func(*esapi.IndexRequest){
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(key),
	}
	if e.refresh != "" {
		opts = append(opts, e.client.Index.WithRefresh(e.refresh))
	}

	res, err := e.client.Index(e.index, bytes.NewReader(body), opts...)
	if err != nil {
		return fmt.Errorf("elasticsearch index failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch index error: %s: %s", res.Status(), body)
	}
	return nil
}

func (e *Elasticsearch) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}
