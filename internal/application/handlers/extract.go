package handlers

import (
	"context"
	"fmt"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// ExtractHandler handles entity extraction from document files.
type ExtractHandler struct {
	engine *services.Engine
}

// NewExtractHandler creates a new extract handler.
func NewExtractHandler(engine *services.Engine) *ExtractHandler {
	return &ExtractHandler{
		engine: engine,
	}
}

// ExtractResult contains the extraction output for one document.
type ExtractResult struct {
	DocumentID string
	Title      string
	Mentions   []entities.EntityMention
}

// ExtractBatchResult contains the output of a multi-document extraction.
type ExtractBatchResult struct {
	Results  []ExtractResult
	Failures []entities.DocumentFailure
}

// Handle extracts entities from every document in a file.
func (h *ExtractHandler) Handle(ctx context.Context, filePath string) (*ExtractBatchResult, error) {
	docs, err := LoadDocuments(filePath)
	if err != nil {
		return nil, err
	}
	return h.extract(ctx, docs)
}

// HandlePath extracts entities from a file or every document file under a
// directory.
func (h *ExtractHandler) HandlePath(ctx context.Context, path string, recursive bool) (*ExtractBatchResult, error) {
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
	return h.extract(ctx, docs)
}

func (h *ExtractHandler) extract(ctx context.Context, docs []entities.Document) (*ExtractBatchResult, error) {
	mentionsByDoc, failures, err := h.engine.BatchExtract(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("extracting entities: %w", err)
	}

	result := &ExtractBatchResult{Failures: failures}
	for _, doc := range docs {
		mentions, ok := mentionsByDoc[doc.ID]
		if !ok {
			continue
		}
		result.Results = append(result.Results, ExtractResult{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Mentions:   mentions,
		})
	}
	return result, nil
}
