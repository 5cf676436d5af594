package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// ExtractionCache is a mock implementation of ports.ExtractionCache with
// call counters.
type ExtractionCache struct {
	mu      sync.RWMutex
	entries map[string][]entities.EntityMention

	GetCalls int
	PutCalls int
}

// NewExtractionCache creates a new mock extraction cache.
func NewExtractionCache() *ExtractionCache {
	return &ExtractionCache{entries: make(map[string][]entities.EntityMention)}
}

// Get returns the cached mentions for a fingerprint.
func (m *ExtractionCache) Get(fingerprint string) ([]entities.EntityMention, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	mentions, ok := m.entries[fingerprint]
	return mentions, ok
}

// Put stores mentions for a fingerprint.
func (m *ExtractionCache) Put(fingerprint string, mentions []entities.EntityMention) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	m.entries[fingerprint] = mentions
}

// Clear removes every entry.
func (m *ExtractionCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]entities.EntityMention)
}

// Len returns the number of cached entries.
func (m *ExtractionCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// EnrichmentCache is a mock implementation of ports.EnrichmentCache with an
// injectable error.
type EnrichmentCache struct {
	mu      sync.RWMutex
	entries map[string]*entities.AuthorityEnrichment
	Err     error

	GetCalls int
	PutCalls int
}

// NewEnrichmentCache creates a new mock enrichment cache.
func NewEnrichmentCache() *EnrichmentCache {
	return &EnrichmentCache{entries: make(map[string]*entities.AuthorityEnrichment)}
}

// Get returns the cached enrichment for an external ID.
func (m *EnrichmentCache) Get(_ context.Context, externalID string) (*entities.AuthorityEnrichment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.Err != nil {
		return nil, false, m.Err
	}
	e, ok := m.entries[externalID]
	return e, ok, nil
}

// Put stores an enrichment under its external ID.
func (m *EnrichmentCache) Put(_ context.Context, enrichment *entities.AuthorityEnrichment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.Err != nil {
		return m.Err
	}
	m.entries[enrichment.ExternalID] = enrichment
	return nil
}

// Prune removes entries cached before the cutoff.
func (m *EnrichmentCache) Prune(_ context.Context, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for id, e := range m.entries {
		if e.CachedAt.Before(cutoff) {
			delete(m.entries, id)
		}
	}
	return nil
}

// Clear removes every entry.
func (m *EnrichmentCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.entries = make(map[string]*entities.AuthorityEnrichment)
	return nil
}

// Close is a no-op.
func (m *EnrichmentCache) Close() error {
	return nil
}

// Len returns the number of cached entries.
func (m *EnrichmentCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
