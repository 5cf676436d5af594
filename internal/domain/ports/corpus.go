package ports

import (
	"context"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// CorpusStore persists the document corpus between process runs. The graph
// itself is never persisted: a loaded corpus is enough to rebuild it lazily.
type CorpusStore interface {
	// Load returns the persisted corpus, or an empty slice when none exists.
	Load(ctx context.Context) ([]entities.Document, error)

	// Save replaces the persisted corpus.
	Save(ctx context.Context, docs []entities.Document) error
}
