package handlers

import (
	"context"
	"fmt"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// BuildHandler handles knowledge-graph builds. When a corpus store is
// supplied, every successful build or merge persists the corpus so later
// processes can rebuild the graph.
type BuildHandler struct {
	engine *services.Engine
	store  ports.CorpusStore // nil disables persistence
}

// NewBuildHandler creates a new build handler.
func NewBuildHandler(engine *services.Engine, store ports.CorpusStore) *BuildHandler {
	return &BuildHandler{
		engine: engine,
		store:  store,
	}
}

// BuildResult contains the outcome of a graph build.
type BuildResult struct {
	Report *entities.BuildReport
	Files  int
}

// Handle loads every document file under a path and rebuilds the graph from
// the full corpus.
func (h *BuildHandler) Handle(ctx context.Context, path string, recursive bool) (*BuildResult, error) {
	files, err := FindDocumentFiles(path, recursive)
	if err != nil {
		return nil, err
	}

	var docs []entities.Document
	for _, file := range files {
		loaded, err := LoadDocuments(file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents loaded from %s", path)
	}

	report, err := h.engine.RebuildGraph(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}

	if err := h.persist(ctx); err != nil {
		return nil, err
	}

	return &BuildResult{
		Report: report,
		Files:  len(files),
	}, nil
}

// HandleMerge folds the documents of one file into the existing graph without
// a full rebuild.
func (h *BuildHandler) HandleMerge(ctx context.Context, filePath string) (int, error) {
	docs, err := LoadDocuments(filePath)
	if err != nil {
		return 0, err
	}

	merged := 0
	for _, doc := range docs {
		if err := h.engine.MergeDocument(ctx, doc); err != nil {
			return merged, fmt.Errorf("merging document %s: %w", doc.ID, err)
		}
		merged++
	}

	if err := h.persist(ctx); err != nil {
		return merged, err
	}
	return merged, nil
}

// persist saves the engine's retained corpus when a store is configured.
func (h *BuildHandler) persist(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	if err := h.store.Save(ctx, h.engine.Corpus()); err != nil {
		return fmt.Errorf("persisting corpus: %w", err)
	}
	return nil
}
