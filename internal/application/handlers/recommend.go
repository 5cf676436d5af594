package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

const (
	// DefaultRecommendLimit is used when no limit is requested.
	DefaultRecommendLimit = 10
	// MaxRecommendLimit caps how many recommendations one query returns.
	MaxRecommendLimit = 50
)

// RecommendHandler handles recommendation queries.
type RecommendHandler struct {
	engine *services.Engine
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(engine *services.Engine) *RecommendHandler {
	return &RecommendHandler{
		engine: engine,
	}
}

// RecommendResult contains the result of a recommendation query.
type RecommendResult struct {
	Query           string
	Type            entities.MentionType
	Recommendations []services.Recommendation
}

// Handle ranks entities related to the named one. The type string is
// validated against the closed mention-type set; limits are clamped to
// [1, MaxRecommendLimit].
func (h *RecommendHandler) Handle(ctx context.Context, name, typeName string, limit int) (*RecommendResult, error) {
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

	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	if limit > MaxRecommendLimit {
		limit = MaxRecommendLimit
	}

	recs, err := h.engine.Recommend(ctx, name, t, limit)
	if err != nil {
		return nil, fmt.Errorf("recommending entities: %w", err)
	}

	return &RecommendResult{
		Query:           name,
		Type:            t,
		Recommendations: recs,
	}, nil
}

// joinTypes lists the valid mention types for error messages.
func joinTypes() string {
	names := make([]string, 0, len(entities.AllMentionTypes))
	for _, t := range entities.AllMentionTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
