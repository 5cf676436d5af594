// Package memory provides in-memory cache implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// ExtractionCache implements ports.ExtractionCache with a mutex-guarded map.
// Entries are keyed by document fingerprint; a racing Put for the same
// fingerprint is last-writer-wins, which is harmless because extraction is
// deterministic and both writers hold identical results.
type ExtractionCache struct {
	mu      sync.RWMutex
	entries map[string][]entities.EntityMention
}

// NewExtractionCache creates an empty extraction cache.
func NewExtractionCache() *ExtractionCache {
	return &ExtractionCache{entries: make(map[string][]entities.EntityMention)}
}

// Get returns the cached mentions for a fingerprint.
func (c *ExtractionCache) Get(fingerprint string) ([]entities.EntityMention, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mentions, ok := c.entries[fingerprint]
	return mentions, ok
}

// Put stores mentions under a fingerprint.
func (c *ExtractionCache) Put(fingerprint string, mentions []entities.EntityMention) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = mentions
}

// Clear removes every entry.
func (c *ExtractionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]entities.EntityMention)
}

// Len returns the number of cached entries.
func (c *ExtractionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// EnrichmentCache implements ports.EnrichmentCache in memory, for use when no
// durable cache is configured. Entries are keyed by external knowledge-base
// ID.
type EnrichmentCache struct {
	mu      sync.RWMutex
	entries map[string]*entities.AuthorityEnrichment
}

// NewEnrichmentCache creates an empty enrichment cache.
func NewEnrichmentCache() *EnrichmentCache {
	return &EnrichmentCache{entries: make(map[string]*entities.AuthorityEnrichment)}
}

// Get returns the cached enrichment for an external ID.
func (c *EnrichmentCache) Get(_ context.Context, externalID string) (*entities.AuthorityEnrichment, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[externalID]
	if !ok {
		return nil, false, nil
	}
	out := *e
	return &out, true, nil
}

// Put stores an enrichment under its external ID.
func (c *EnrichmentCache) Put(_ context.Context, enrichment *entities.AuthorityEnrichment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := *enrichment
	c.entries[enrichment.ExternalID] = &stored
	return nil
}

// Prune removes entries cached before the cutoff.
func (c *EnrichmentCache) Prune(_ context.Context, cutoff time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if e.CachedAt.Before(cutoff) {
			delete(c.entries, id)
		}
	}
	return nil
}

// Clear removes every entry.
func (c *EnrichmentCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entities.AuthorityEnrichment)
	return nil
}

// Close is a no-op for the in-memory cache.
func (c *EnrichmentCache) Close() error {
	return nil
}
