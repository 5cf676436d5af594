package handlers

import (
	"context"
	"fmt"

	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// ClearHandler handles cache clearing.
type ClearHandler struct {
	engine *services.Engine
}

// NewClearHandler creates a new clear handler.
func NewClearHandler(engine *services.Engine) *ClearHandler {
	return &ClearHandler{
		engine: engine,
	}
}

// Handle wipes the extraction and enrichment caches and drops the current
// graph, forcing full recomputation on the next access.
func (h *ClearHandler) Handle(ctx context.Context) error {
	if err := h.engine.ClearCache(ctx); err != nil {
		return fmt.Errorf("clearing caches: %w", err)
	}
	return nil
}
