package services

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/mocks"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	resolver := NewResolver()
	extractor, err := NewExtractor(resolver, NewGazetteer(resolver), mocks.NewExtractionCache(), ExtractorParams{})
	require.NoError(t, err)
	engine, err := NewEngine(EngineParams{
		Extractor:   extractor,
		Builder:     NewGraphBuilder(),
		Recommender: NewRecommendationService(resolver),
	})
	require.NoError(t, err)
	return engine
}

func newTestEngineWithKB(t *testing.T, kb *mocks.KBClient) (*Engine, *mocks.EnrichmentCache) {
	t.Helper()
	resolver := NewResolver()
	extractor, err := NewExtractor(resolver, NewGazetteer(resolver), mocks.NewExtractionCache(), ExtractorParams{})
	require.NoError(t, err)
	cache := mocks.NewEnrichmentCache()
	enricher, err := NewEnricher(kb, cache, resolver, log.New(io.Discard), EnricherParams{})
	require.NoError(t, err)
	engine, err := NewEngine(EngineParams{
		Extractor:       extractor,
		Builder:         NewGraphBuilder(),
		Recommender:     NewRecommendationService(resolver),
		Enricher:        enricher,
		EnrichmentCache: cache,
	})
	require.NoError(t, err)
	return engine, cache
}

func travelCorpus() []entities.Document {
	return []entities.Document{
		{
			ID:      "doc-a",
			Title:   "Three Days in Tokyo",
			Content: "We wandered through Shibuya at night and ate ramen near the station.",
		},
		{
			ID:      "doc-b",
			Title:   "Kyoto by Rail",
			Content: "The shinkansen from Tokyo to Kyoto takes about two hours.",
		},
	}
}

func TestNewEngine_RequiresCoreDeps(t *testing.T) {
	_, err := NewEngine(EngineParams{})
	assert.Error(t, err)
}

func TestEngine_RebuildGraph(t *testing.T) {
	engine := newTestEngine(t)

	report, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 2, report.Documents)
	assert.Empty(t, report.Failures)
	assert.Positive(t, report.Mentions)

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	tokyo := g.Entities["place:tokyo"]
	require.NotNil(t, tokyo)
	assert.Equal(t, 2, tokyo.Frequency)
	assert.ElementsMatch(t, []string{"doc-a", "doc-b"}, tokyo.DocumentIDs())
}

func TestEngine_GraphBeforeRebuild(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Graph(context.Background())
	assert.ErrorIs(t, err, ErrNoCorpus)

	recs, err := engine.Recommend(context.Background(), "Tokyo", entities.TypePlace, 10)
	require.NoError(t, err)
	assert.Empty(t, recs, "empty engine recommends nothing rather than failing")

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.EntityCount)
}

func TestEngine_Recommend(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	recs, err := engine.Recommend(context.Background(), "Tokyo", entities.TypePlace, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "Shibuya")
	assert.Contains(t, names, "Kyoto")
}

func TestEngine_MergeDocumentIncremental(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	before, err := engine.Graph(context.Background())
	require.NoError(t, err)
	beforeFreq := before.Entities["place:tokyo"].Frequency

	err = engine.MergeDocument(context.Background(), entities.Document{
		ID:      "doc-c",
		Title:   "Back to Tokyo",
		Content: "One more night in Tokyo before flying home.",
	})
	require.NoError(t, err)

	after, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, beforeFreq+1, after.Entities["place:tokyo"].Frequency)
	assert.Contains(t, after.Entities["place:tokyo"].Documents, "doc-c")

	assert.Equal(t, beforeFreq, before.Entities["place:tokyo"].Frequency,
		"readers holding the previous graph are unaffected")
}

func TestEngine_MergeDocumentUnchangedIsNoOp(t *testing.T) {
	engine := newTestEngine(t)
	doc := entities.Document{ID: "doc-a", Content: "We visited Tokyo and Shibuya."}

	require.NoError(t, engine.MergeDocument(context.Background(), doc))
	require.NoError(t, engine.MergeDocument(context.Background(), doc))

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	freqBefore := g.Entities["place:tokyo"].Frequency
	assert.Equal(t, 1, freqBefore, "re-merging an unchanged document does not double-count")
	assert.Len(t, engine.Corpus(), 1)

	// The merged graph must match what a rebuild of the retained corpus
	// produces.
	require.NoError(t, engine.ClearCache(context.Background()))
	rebuilt, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, freqBefore, rebuilt.Entities["place:tokyo"].Frequency)
	edge := rebuilt.Relationships[entities.EdgeKey("place:tokyo", "place:shibuya")]
	require.NotNil(t, edge)
	assert.Equal(t, 1, edge.Strength)
}

func TestEngine_MergeDocumentChangedContentReplaces(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.MergeDocument(context.Background(), entities.Document{
		ID: "doc-a", Content: "We visited Tokyo and Shibuya.",
	})
	require.NoError(t, err)

	err = engine.MergeDocument(context.Background(), entities.Document{
		ID: "doc-a", Content: "We visited Tokyo and Kyoto.",
	})
	require.NoError(t, err)

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, g.Entities["place:tokyo"].Frequency)
	assert.Contains(t, g.Entities, "place:kyoto")
	assert.NotContains(t, g.Entities, "place:shibuya",
		"the old revision's mentions are gone after replacement")
	assert.Len(t, engine.Corpus(), 1)
}

func TestEngine_LoadCorpusRebuildsLazily(t *testing.T) {
	engine := newTestEngine(t)

	engine.LoadCorpus(travelCorpus())

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, g.Entities["place:tokyo"].Frequency)
	assert.ElementsMatch(t, []string{"doc-a", "doc-b"}, g.Entities["place:tokyo"].DocumentIDs())
}

func TestEngine_MergeDocumentIntoEmptyEngine(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.MergeDocument(context.Background(), travelCorpus()[0])
	require.NoError(t, err)

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Contains(t, g.Entities, "place:shibuya")
}

func TestEngine_ClearCacheForcesRecompute(t *testing.T) {
	engine := newTestEngine(t)
	corpus := travelCorpus()
	_, err := engine.RebuildGraph(context.Background(), corpus)
	require.NoError(t, err)
	firstExtractions := engine.ExtractionStats().Extractions

	require.NoError(t, engine.ClearCache(context.Background()))

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Positive(t, stats.EntityCount, "graph is rebuilt from the retained corpus")

	assert.Equal(t, firstExtractions*2, engine.ExtractionStats().Extractions,
		"cleared cache forces re-extraction of the whole corpus")

	snap, err := engine.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.EntityCount, snap.EntityCount)
	assert.Equal(t, stats.RelationshipCount, snap.RelationCount)
}

func TestEngine_EnrichEntityAttachesToNode(t *testing.T) {
	kb := mocks.NewKBClient()
	kb.SearchResults = []ports.KBCandidate{{ID: "Q1490", Label: "Tokyo"}}
	kb.Records["Q1490"] = &ports.KBRecord{ID: "Q1490", Label: "Tokyo", SitelinkCount: 50}
	engine, _ := newTestEngineWithKB(t, kb)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	enrichment := engine.EnrichEntity(context.Background(), "Tokyo", entities.TypePlace)
	require.NotNil(t, enrichment)
	assert.Equal(t, "Q1490", enrichment.ExternalID)

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.Contains(t, g.Entities["place:tokyo"].Properties, "authority")
}

func TestEngine_EnrichEntityAbsentFromGraph(t *testing.T) {
	kb := mocks.NewKBClient()
	kb.SearchResults = []ports.KBCandidate{{ID: "Q84", Label: "London"}}
	kb.Records["Q84"] = &ports.KBRecord{ID: "Q84", Label: "London"}
	engine, _ := newTestEngineWithKB(t, kb)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	enrichment := engine.EnrichEntity(context.Background(), "London", entities.TypePlace)
	require.NotNil(t, enrichment, "enrichment succeeds even when the entity is not in the graph")

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, g.Entities, "place:london")
}

func TestEngine_EnrichEntityWithoutEnricher(t *testing.T) {
	engine := newTestEngine(t)
	assert.Nil(t, engine.EnrichEntity(context.Background(), "Tokyo", entities.TypePlace))
}

func TestEngine_SeedAuthorityEdges(t *testing.T) {
	kb := mocks.NewKBClient()
	kb.SearchResults = []ports.KBCandidate{{ID: "Q1490", Label: "Tokyo"}}
	kb.Records["Q1490"] = &ports.KBRecord{ID: "Q1490", Label: "Tokyo"}
	kb.Related["Q1490"] = []ports.KBRelation{
		{ID: "Q188070", Label: "Shibuya", Property: "has part"},
		{ID: "Q84", Label: "London", Property: "twinned administrative body"},
	}
	engine, _ := newTestEngineWithKB(t, kb)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	enrichment := engine.EnrichEntity(context.Background(), "Tokyo", entities.TypePlace)
	require.NotNil(t, enrichment)

	touched := engine.SeedAuthorityEdges(context.Background(), enrichment)
	assert.Equal(t, 1, touched, "only labels matching graph nodes seed edges")

	g, err := engine.Graph(context.Background())
	require.NoError(t, err)
	edge := g.Relationships[entities.EdgeKey("place:tokyo", "place:shibuya")]
	require.NotNil(t, edge)
	assert.Equal(t, entities.RelationPartOf, edge.Kind, "co-occurrence edges are upgraded in place")
}

func TestEngine_SeedAuthorityEdgesNilEnrichment(t *testing.T) {
	engine, _ := newTestEngineWithKB(t, mocks.NewKBClient())
	assert.Zero(t, engine.SeedAuthorityEdges(context.Background(), nil))
}

func TestEngine_ClearCacheClearsEnrichmentCache(t *testing.T) {
	kb := mocks.NewKBClient()
	kb.SearchResults = []ports.KBCandidate{{ID: "Q1490", Label: "Tokyo"}}
	kb.Records["Q1490"] = &ports.KBRecord{ID: "Q1490", Label: "Tokyo"}
	engine, cache := newTestEngineWithKB(t, kb)
	_, err := engine.RebuildGraph(context.Background(), travelCorpus())
	require.NoError(t, err)

	require.NotNil(t, engine.EnrichEntity(context.Background(), "Tokyo", entities.TypePlace))
	require.Equal(t, 1, cache.Len())

	require.NoError(t, engine.ClearCache(context.Background()))
	assert.Zero(t, cache.Len())
}

func TestEngine_Close(t *testing.T) {
	engine, _ := newTestEngineWithKB(t, mocks.NewKBClient())
	assert.NoError(t, engine.Close())

	assert.NoError(t, newTestEngine(t).Close())
}
