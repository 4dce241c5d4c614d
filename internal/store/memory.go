package store

import (
	"context"
	"encoding/json"
	"sync"

	"lead-summarizer/internal/models"
)

// Memory keeps encoded documents in process. Used by tests and the
// one-shot CLI.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) (models.Document, error) {
	m.mu.RLock()
	data, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeDocument(data)
}

func (m *Memory) Upsert(_ context.Context, key string, doc models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
