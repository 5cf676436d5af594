package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

// ExportHandler handles graph exports. The JSON snapshot is the graph's only
// durable representation; rebuilding from the corpus is always possible, so
// the export is for interchange rather than recovery.
type ExportHandler struct {
	engine *services.Engine
}

// NewExportHandler creates a new export handler.
func NewExportHandler(engine *services.Engine) *ExportHandler {
	return &ExportHandler{
		engine: engine,
	}
}

// Handle writes the graph snapshot as indented JSON.
func (h *ExportHandler) Handle(ctx context.Context, w io.Writer) (entities.GraphSnapshot, error) {
	snap, err := h.engine.Snapshot(ctx)
	if err != nil {
		return entities.GraphSnapshot{}, fmt.Errorf("snapshotting graph: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return entities.GraphSnapshot{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	return snap, nil
}
