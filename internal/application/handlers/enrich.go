package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// EnrichHandler handles knowledge-base enrichment requests.
type EnrichHandler struct {
	engine *services.Engine
}

// NewEnrichHandler creates a new enrich handler.
func NewEnrichHandler(engine *services.Engine) *EnrichHandler {
	return &EnrichHandler{
		engine: engine,
	}
}

// EnrichResult contains the outcome of an enrichment request.
type EnrichResult struct {
	Enrichment  *entities.AuthorityEnrichment
	SeededEdges int
}

// Handle enriches a named entity and, when requested, seeds relation edges
// from the knowledge base into the graph. A nil enrichment is a valid
// outcome: the knowledge base had no usable answer.
func (h *EnrichHandler) Handle(ctx context.Context, name, typeName string, seedEdges bool) (*EnrichResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("entity name is required")
	}

	t := entities.TypePlace
	if typeName != "" {
		parsed, ok := entities.ParseMentionType(typeName)
		if !ok {
			return nil, fmt.Errorf("unknown entity type %q (valid: %s)", typeName, joinTypes())
		}
		t = parsed
	}

	enrichment := h.engine.EnrichEntity(ctx, name, t)
	result := &EnrichResult{Enrichment: enrichment}
	if enrichment != nil && seedEdges {
		result.SeededEdges = h.engine.SeedAuthorityEdges(ctx, enrichment)
	}
	return result, nil
}
