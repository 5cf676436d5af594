package ports

import (
	"context"
	"time"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// ExtractionCache memoizes a document's extraction result by content
// fingerprint. Implementations must support concurrent readers and tolerate
// last-writer-wins on a key; extraction is deterministic, so racing writers
// store identical values.
type ExtractionCache interface {
	// Get returns the cached mentions for a fingerprint, if present.
	Get(fingerprint string) ([]entities.EntityMention, bool)

	// Put stores the mentions for a fingerprint.
	Put(fingerprint string, mentions []entities.EntityMention)

	// Clear removes every entry.
	Clear()
}

// EnrichmentCache stores authority enrichments keyed by external identifier,
// independent of local normalization, so synonyms resolving to the same
// external identity reuse one entry. Entries carry their own timestamp;
// freshness against the TTL is the caller's decision.
type EnrichmentCache interface {
	// Get returns the cached enrichment for an external ID, if present.
	Get(ctx context.Context, externalID string) (*entities.AuthorityEnrichment, bool, error)

	// Put stores an enrichment under its external ID.
	Put(ctx context.Context, enrichment *entities.AuthorityEnrichment) error

	// Prune removes entries cached before the cutoff.
	Prune(ctx context.Context, cutoff time.Time) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
