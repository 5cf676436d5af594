package services

import (
	"sort"
	"time"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// topEntityCount is how many entities the stats view ranks by frequency.
const topEntityCount = 10

// GraphBuilder folds per-document mention lists into a corpus-wide knowledge
// graph. Build produces a complete replacement graph off to the side; the
// engine swaps it in atomically so readers never observe a half-merged graph.
type GraphBuilder struct {
	now func() time.Time
}

// NewGraphBuilder creates a graph builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{now: time.Now}
}

// Build constructs a fresh graph from every document's mentions. Documents
// are folded in identifier order so repeated builds of the same corpus
// produce identical graphs.
func (b *GraphBuilder) Build(mentionsByDoc map[string][]entities.EntityMention) *entities.KnowledgeGraph {
	g := entities.NewKnowledgeGraph()

	docIDs := make([]string, 0, len(mentionsByDoc))
	for id := range mentionsByDoc {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	for _, docID := range docIDs {
		b.MergeDocument(g, docID, mentionsByDoc[docID])
	}
	return g
}

// MergeDocument folds one document's mentions into the graph: nodes are
// created on first sight or updated (frequency, max confidence, document
// set), and every unordered pair of co-occurring entities creates or
// strengthens exactly one canonical edge.
func (b *GraphBuilder) MergeDocument(g *entities.KnowledgeGraph, docID string, mentions []entities.EntityMention) {
	now := b.now()

	ids := make([]string, 0, len(mentions))
	byID := make(map[string]entities.EntityMention, len(mentions))
	for _, m := range mentions {
		id := m.Key().String()
		if _, seen := byID[id]; seen {
			continue
		}
		byID[id] = m
		ids = append(ids, id)

		node, ok := g.Entities[id]
		if !ok {
			node = &entities.GraphEntity{
				ID:        id,
				Name:      m.Name,
				Type:      m.Type,
				Neighbors: make(map[string]struct{}),
				Documents: make(map[string]struct{}),
			}
			g.Entities[id] = node
		}
		node.Frequency++
		if m.Confidence > node.Confidence {
			node.Confidence = m.Confidence
		}
		node.Documents[docID] = struct{}{}
		node.UpdatedAt = now
	}

	sort.Strings(ids)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			b.link(g, ids[i], ids[j], docID, byID[ids[i]].Context, byID[ids[j]].Context, now)
		}
	}

	g.UpdatedAt = now
}

// link creates or strengthens the canonical edge between two nodes sharing a
// document. Both endpoints' context windows are accumulated so the snippets
// describe the pair, not just one side.
func (b *GraphBuilder) link(g *entities.KnowledgeGraph, a, bID, docID, contextA, contextB string, now time.Time) {
	key := entities.EdgeKey(a, bID)
	rel, ok := g.Relationships[key]
	if !ok {
		src, dst := a, bID
		if dst < src {
			src, dst = dst, src
		}
		rel = &entities.Relationship{Source: src, Target: dst, Kind: entities.RelationCoOccurrence}
		g.Relationships[key] = rel
	}
	rel.Strength++
	rel.Documents = append(rel.Documents, docID)
	for _, c := range []string{contextA, contextB} {
		if c == "" || len(rel.Contexts) >= 5 {
			continue
		}
		if n := len(rel.Contexts); n > 0 && rel.Contexts[n-1] == c {
			continue
		}
		rel.Contexts = append(rel.Contexts, c)
	}

	g.Entities[a].Neighbors[bID] = struct{}{}
	g.Entities[bID].Neighbors[a] = struct{}{}
	g.Entities[a].UpdatedAt = now
	g.Entities[bID].UpdatedAt = now
}

// Stats computes the read-only aggregate view of a graph.
func (b *GraphBuilder) Stats(g *entities.KnowledgeGraph) entities.GraphStats {
	stats := entities.GraphStats{
		EntityCount:       len(g.Entities),
		RelationshipCount: len(g.Relationships),
		TypeBreakdown:     make(map[entities.MentionType]int),
		UpdatedAt:         g.UpdatedAt,
	}

	top := make([]*entities.GraphEntity, 0, len(g.Entities))
	for _, e := range g.Entities {
		stats.TypeBreakdown[e.Type]++
		top = append(top, e)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Frequency != top[j].Frequency {
			return top[i].Frequency > top[j].Frequency
		}
		return top[i].ID < top[j].ID
	})
	if len(top) > topEntityCount {
		top = top[:topEntityCount]
	}
	for _, e := range top {
		stats.TopEntities = append(stats.TopEntities, entities.EntityFrequency{
			Name:      e.Name,
			Type:      e.Type,
			Frequency: e.Frequency,
		})
	}
	return stats
}

// Snapshot produces the fully serializable export of a graph, with sets
// flattened to sorted slices.
func (b *GraphBuilder) Snapshot(g *entities.KnowledgeGraph) entities.GraphSnapshot {
	snap := entities.GraphSnapshot{
		Entities:      make([]entities.SnapshotEntity, 0, len(g.Entities)),
		Relationships: make([]entities.Relationship, 0, len(g.Relationships)),
		EntityCount:   len(g.Entities),
		RelationCount: len(g.Relationships),
		ExportedAt:    b.now(),
		UpdatedAt:     g.UpdatedAt,
	}

	for _, e := range g.Entities {
		snap.Entities = append(snap.Entities, entities.SnapshotEntity{
			ID:         e.ID,
			Name:       e.Name,
			Type:       e.Type,
			Frequency:  e.Frequency,
			Confidence: e.Confidence,
			Neighbors:  e.NeighborIDs(),
			Documents:  e.DocumentIDs(),
			Properties: e.Properties,
			UpdatedAt:  e.UpdatedAt,
		})
	}
	sort.Slice(snap.Entities, func(i, j int) bool {
		return snap.Entities[i].ID < snap.Entities[j].ID
	})

	for _, r := range g.Relationships {
		snap.Relationships = append(snap.Relationships, *r)
	}
	sort.Slice(snap.Relationships, func(i, j int) bool {
		if snap.Relationships[i].Source != snap.Relationships[j].Source {
			return snap.Relationships[i].Source < snap.Relationships[j].Source
		}
		return snap.Relationships[i].Target < snap.Relationships[j].Target
	})

	return snap
}
