package services

import (
	"sort"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// Recommendation is one ranked graph neighbor. The reported frequency,
// confidence, and counts are the neighbor's own, not the query entity's.
type Recommendation struct {
	Name                 string               `json:"name"`
	Type                 entities.MentionType `json:"type"`
	Frequency            int                  `json:"frequency"`
	Confidence           float64              `json:"confidence"`
	NeighborCount        int                  `json:"neighbor_count"`
	RelatedDocumentCount int                  `json:"related_document_count"`
}

// RecommendationService ranks a queried entity's graph neighbors.
type RecommendationService struct {
	resolver *Resolver
}

// NewRecommendationService creates a recommendation service.
func NewRecommendationService(resolver *Resolver) *RecommendationService {
	return &RecommendationService{resolver: resolver}
}

// Recommend resolves the query to a node and ranks its 1-hop neighbors by
// relationship strength, then neighbor frequency, then name. An entity absent
// from the graph is an expected outcome and yields an empty list, not an
// error. Non-positive limits yield an empty list; larger bounds are the
// caller's concern.
func (s *RecommendationService) Recommend(g *entities.KnowledgeGraph, name string, t entities.MentionType, limit int) []Recommendation {
	if g == nil || limit <= 0 {
		return []Recommendation{}
	}

	id := s.resolver.Resolve(t, name).String()
	node, ok := g.Entities[id]
	if !ok {
		return []Recommendation{}
	}

	type scored struct {
		neighbor *entities.GraphEntity
		strength int
	}
	ranked := make([]scored, 0, len(node.Neighbors))
	for neighborID := range node.Neighbors {
		neighbor, ok := g.Entities[neighborID]
		if !ok {
			continue
		}
		strength := 0
		if rel, ok := g.Relationships[entities.EdgeKey(id, neighborID)]; ok {
			strength = rel.Strength
		}
		ranked = append(ranked, scored{neighbor: neighbor, strength: strength})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].strength != ranked[j].strength {
			return ranked[i].strength > ranked[j].strength
		}
		if ranked[i].neighbor.Frequency != ranked[j].neighbor.Frequency {
			return ranked[i].neighbor.Frequency > ranked[j].neighbor.Frequency
		}
		return ranked[i].neighbor.Name < ranked[j].neighbor.Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Recommendation{
			Name:                 r.neighbor.Name,
			Type:                 r.neighbor.Type,
			Frequency:            r.neighbor.Frequency,
			Confidence:           r.neighbor.Confidence,
			NeighborCount:        len(r.neighbor.Neighbors),
			RelatedDocumentCount: len(r.neighbor.Documents),
		})
	}
	return out
}
