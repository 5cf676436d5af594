package handlers

import (
	"context"
	"fmt"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// StatsHandler handles graph and pipeline statistics queries.
type StatsHandler struct {
	engine *services.Engine
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(engine *services.Engine) *StatsHandler {
	return &StatsHandler{
		engine: engine,
	}
}

// StatsResult combines graph and extraction statistics.
type StatsResult struct {
	Graph      entities.GraphStats
	Extraction services.ExtractionStats
}

// Handle returns the aggregate view of the graph and the extractor counters.
func (h *StatsHandler) Handle(ctx context.Context) (*StatsResult, error) {
	graphStats, err := h.engine.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing graph stats: %w", err)
	}

	return &StatsResult{
		Graph:      graphStats,
		Extraction: h.engine.ExtractionStats(),
	}, nil
}
