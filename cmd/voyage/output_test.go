package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
)

func TestPrintExtractResult(t *testing.T) {
	result := &handlers.ExtractBatchResult{
		Results: []handlers.ExtractResult{
			{
				DocumentID: "doc-a",
				Title:      "Three Days in Tokyo",
				Mentions: []entities.EntityMention{
					{
						Type:       entities.TypePlace,
						Name:       "Tokyo",
						Confidence: 0.9,
						Relevance:  0.85,
						Sentiment:  entities.SentimentPositive,
						Context:    "We wandered through Tokyo at night.",
					},
				},
			},
		},
		Failures: []entities.DocumentFailure{
			{DocumentID: "doc-b", Reason: "empty document"},
		},
	}

	var buf bytes.Buffer
	printExtractResult(&buf, result, false)
	out := buf.String()

	assert.Contains(t, out, "doc-a (Three Days in Tokyo): 1 mentions")
	assert.Contains(t, out, "Tokyo")
	assert.Contains(t, out, "conf=0.90")
	assert.Contains(t, out, "sentiment=positive")
	assert.Contains(t, out, "failed: doc-b (empty document)")
	assert.NotContains(t, out, "We wandered", "context stays hidden without verbose")
}

func TestPrintExtractResult_Verbose(t *testing.T) {
	result := &handlers.ExtractBatchResult{
		Results: []handlers.ExtractResult{
			{
				DocumentID: "doc-a",
				Mentions: []entities.EntityMention{
					{Type: entities.TypePlace, Name: "Tokyo", Context: "near the station"},
				},
			},
		},
	}

	var buf bytes.Buffer
	printExtractResult(&buf, result, true)
	assert.Contains(t, buf.String(), "near the station")
}

func TestPrintRecommendations(t *testing.T) {
	result := &handlers.RecommendResult{
		Query: "Tokyo",
		Type:  entities.TypePlace,
		Recommendations: []services.Recommendation{
			{Name: "Shibuya", Type: entities.TypePlace, Frequency: 2, RelatedDocumentCount: 2},
			{Name: "Kyoto", Type: entities.TypePlace, Frequency: 1, RelatedDocumentCount: 1},
		},
	}

	var buf bytes.Buffer
	printRecommendations(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Related to Tokyo (place):")
	assert.Contains(t, out, " 1. Shibuya")
	assert.Contains(t, out, " 2. Kyoto")
	assert.Contains(t, out, "seen 2 times in 2 documents")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	result := &handlers.RecommendResult{Query: "Atlantis", Type: entities.TypePlace}

	var buf bytes.Buffer
	printRecommendations(&buf, result)
	assert.Equal(t, "No recommendations for Atlantis (place)\n", buf.String())
}

func TestPrintStats(t *testing.T) {
	result := &handlers.StatsResult{
		Graph: entities.GraphStats{
			EntityCount:       3,
			RelationshipCount: 2,
			TypeBreakdown:     map[entities.MentionType]int{entities.TypePlace: 3},
			TopEntities: []entities.EntityFrequency{
				{Name: "Tokyo", Type: entities.TypePlace, Frequency: 2},
			},
		},
		Extraction: services.ExtractionStats{Extractions: 2, CacheHits: 1, CacheMisses: 2},
	}

	var buf bytes.Buffer
	printStats(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Entities:      3")
	assert.Contains(t, out, "Relationships: 2")
	assert.Contains(t, out, "place")
	assert.Contains(t, out, " 1. Tokyo")
	assert.Contains(t, out, "Extractions: 2 (1 cache hits, 2 misses)")
}
