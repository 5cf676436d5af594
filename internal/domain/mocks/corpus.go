package mocks

import (
	"context"
	"sync"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// CorpusStore is a mock implementation of ports.CorpusStore with an
// injectable error.
type CorpusStore struct {
	mu   sync.Mutex
	Docs []entities.Document
	Err  error

	LoadCalls int
	SaveCalls int
}

// NewCorpusStore creates a new mock corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Load returns the stored corpus.
func (m *CorpusStore) Load(_ context.Context) ([]entities.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entities.Document(nil), m.Docs...), nil
}

// Save replaces the stored corpus.
func (m *CorpusStore) Save(_ context.Context, docs []entities.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.Err != nil {
		return m.Err
	}
	m.Docs = append([]entities.Document(nil), docs...)
	return nil
}
