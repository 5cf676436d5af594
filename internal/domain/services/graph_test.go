package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

func placeMention(name, normalized string, confidence float64) entities.EntityMention {
	return entities.EntityMention{
		Type:           entities.TypePlace,
		Name:           name,
		NormalizedName: normalized,
		Confidence:     confidence,
		Context:        name + " context",
	}
}

func TestGraphBuilder_MergeAcrossDocuments(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {placeMention("Tokyo", "tokyo", 0.9)},
		"doc-b": {placeMention("Tokyo", "tokyo", 0.7)},
	})

	require.Len(t, g.Entities, 1)
	tokyo := g.Entities["place:tokyo"]
	require.NotNil(t, tokyo)
	assert.Equal(t, 2, tokyo.Frequency)
	assert.Equal(t, 0.9, tokyo.Confidence, "confidence merges by maximum")
	assert.Equal(t, []string{"doc-a", "doc-b"}, tokyo.DocumentIDs())
	assert.Equal(t, "Tokyo", tokyo.Name)
}

func TestGraphBuilder_EdgeSymmetry(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {
			placeMention("Tokyo", "tokyo", 0.9),
			placeMention("Shibuya", "shibuya", 0.9),
		},
		"doc-b": {
			placeMention("Shibuya", "shibuya", 0.9),
			placeMention("Tokyo", "tokyo", 0.9),
		},
	})

	require.Len(t, g.Relationships, 1, "exactly one edge per unordered pair")
	rel := g.Relationships[entities.EdgeKey("place:tokyo", "place:shibuya")]
	require.NotNil(t, rel)
	assert.Equal(t, rel, g.Relationships[entities.EdgeKey("place:shibuya", "place:tokyo")],
		"edge is retrievable regardless of query order")
	assert.Equal(t, 2, rel.Strength, "strength equals the number of shared documents")
	assert.Equal(t, entities.RelationCoOccurrence, rel.Kind)
	assert.ElementsMatch(t, []string{"doc-a", "doc-b"}, rel.Documents)

	assert.Contains(t, g.Entities["place:tokyo"].Neighbors, "place:shibuya")
	assert.Contains(t, g.Entities["place:shibuya"].Neighbors, "place:tokyo")
}

func TestGraphBuilder_EdgeContextsCoverBothEndpoints(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {
			placeMention("Tokyo", "tokyo", 0.9),
			placeMention("Shibuya", "shibuya", 0.9),
		},
	})

	rel := g.Relationships[entities.EdgeKey("place:tokyo", "place:shibuya")]
	require.NotNil(t, rel)
	assert.Contains(t, rel.Contexts, "Shibuya context")
	assert.Contains(t, rel.Contexts, "Tokyo context")
}

func TestGraphBuilder_EdgeContextsCapped(t *testing.T) {
	b := NewGraphBuilder()
	g := entities.NewKnowledgeGraph()

	for i := 0; i < 4; i++ {
		docID := string(rune('a' + i))
		b.MergeDocument(g, docID, []entities.EntityMention{
			placeMention("Tokyo", "tokyo", 0.9),
			placeMention("Shibuya", "shibuya", 0.9),
		})
	}

	rel := g.Relationships[entities.EdgeKey("place:tokyo", "place:shibuya")]
	require.NotNil(t, rel)
	assert.Len(t, rel.Contexts, 5, "accumulated snippets stay bounded")
}

func TestGraphBuilder_EdgeEndpointsExist(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {
			placeMention("Tokyo", "tokyo", 0.9),
			placeMention("Kyoto", "kyoto", 0.9),
			{Type: entities.TypeFood, Name: "Ramen", NormalizedName: "ramen", Confidence: 0.85},
		},
	})

	for _, rel := range g.Relationships {
		assert.Contains(t, g.Entities, rel.Source)
		assert.Contains(t, g.Entities, rel.Target)
	}
	assert.Len(t, g.Relationships, 3, "three co-occurring entities form a triangle")
}

func TestGraphBuilder_DuplicateMentionsInOneDocument(t *testing.T) {
	b := NewGraphBuilder()

	// Defensive: building from a list that somehow carries the same key
	// twice still counts the document once.
	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {
			placeMention("Tokyo", "tokyo", 0.9),
			placeMention("TOKYO", "tokyo", 0.8),
		},
	})

	assert.Equal(t, 1, g.Entities["place:tokyo"].Frequency)
	assert.Empty(t, g.Relationships, "an entity never co-occurs with itself")
}

func TestGraphBuilder_BuildDeterministic(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := &GraphBuilder{now: func() time.Time { return fixed }}
	input := map[string][]entities.EntityMention{
		"doc-a": {placeMention("Tokyo", "tokyo", 0.9), placeMention("Shibuya", "shibuya", 0.9)},
		"doc-b": {placeMention("Tokyo", "tokyo", 0.9), placeMention("Kyoto", "kyoto", 0.9)},
		"doc-c": {placeMention("Kyoto", "kyoto", 0.9)},
	}

	first := b.Snapshot(b.Build(input))
	second := b.Snapshot(b.Build(input))
	assert.Equal(t, first.Entities, second.Entities)
	assert.Equal(t, first.Relationships, second.Relationships)
}

func TestGraphBuilder_Stats(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {
			placeMention("Tokyo", "tokyo", 0.9),
			{Type: entities.TypeFood, Name: "Ramen", NormalizedName: "ramen", Confidence: 0.85},
		},
		"doc-b": {placeMention("Tokyo", "tokyo", 0.9)},
	})

	stats := b.Stats(g)
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.RelationshipCount)
	assert.Equal(t, map[entities.MentionType]int{entities.TypePlace: 1, entities.TypeFood: 1}, stats.TypeBreakdown)
	require.NotEmpty(t, stats.TopEntities)
	assert.Equal(t, "Tokyo", stats.TopEntities[0].Name)
	assert.Equal(t, 2, stats.TopEntities[0].Frequency)
}

func TestGraphBuilder_SnapshotMatchesStats(t *testing.T) {
	b := NewGraphBuilder()

	g := b.Build(map[string][]entities.EntityMention{
		"doc-a": {placeMention("Tokyo", "tokyo", 0.9), placeMention("Shibuya", "shibuya", 0.9)},
		"doc-b": {placeMention("Tokyo", "tokyo", 0.9), placeMention("Kyoto", "kyoto", 0.9)},
	})

	stats := b.Stats(g)
	snap := b.Snapshot(g)

	assert.Equal(t, stats.EntityCount, len(snap.Entities))
	assert.Equal(t, stats.RelationshipCount, len(snap.Relationships))
	assert.Equal(t, stats.EntityCount, snap.EntityCount)
	assert.Equal(t, stats.RelationshipCount, snap.RelationCount)
}
