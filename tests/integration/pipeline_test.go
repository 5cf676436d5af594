// Package integration exercises the full extraction-to-recommendation
// pipeline with real services and a durable enrichment cache.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/mocks"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/cache/memory"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/cache/sqlitecache"
)

// newPipeline builds an engine from real components: gazetteer extraction,
// in-memory extraction cache, sqlite enrichment cache, and a canned
// knowledge-base client.
func newPipeline(t *testing.T, kb ports.KnowledgeBaseClient) *services.Engine {
	t.Helper()
	resolver := services.NewResolver()
	extractor, err := services.NewExtractor(resolver, services.NewGazetteer(resolver), memory.NewExtractionCache(), services.ExtractorParams{})
	require.NoError(t, err)

	params := services.EngineParams{
		Extractor:   extractor,
		Builder:     services.NewGraphBuilder(),
		Recommender: services.NewRecommendationService(resolver),
	}

	if kb != nil {
		cache, err := sqlitecache.New(filepath.Join(t.TempDir(), "enrichment.db"))
		require.NoError(t, err)
		require.NoError(t, cache.EnsureSchema(context.Background()))

		enricher, err := services.NewEnricher(kb, cache, resolver, log.New(io.Discard), services.EnricherParams{})
		require.NoError(t, err)
		params.Enricher = enricher
		params.EnrichmentCache = cache
	}

	engine, err := services.NewEngine(params)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func travelCorpus() []entities.Document {
	return []entities.Document{
		{
			ID:      "doc-a",
			Title:   "Three Days in Tokyo",
			Content: "We wandered through Shibuya at night and ate delicious ramen near the station.",
			Tags:    []string{"japan"},
		},
		{
			ID:      "doc-b",
			Title:   "Kyoto by Rail",
			Content: "The shinkansen from Tokyo to Kyoto takes about two hours.",
		},
	}
}

func TestPipeline_BuildAndRecommend(t *testing.T) {
	engine := newPipeline(t, nil)
	ctx := context.Background()

	report, err := engine.RebuildGraph(ctx, travelCorpus())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Empty(t, report.Failures)

	g, err := engine.Graph(ctx)
	require.NoError(t, err)

	tokyo := g.Entities["place:tokyo"]
	require.NotNil(t, tokyo, "Tokyo appears in both documents")
	assert.Equal(t, 2, tokyo.Frequency)
	assert.ElementsMatch(t, []string{"doc-a", "doc-b"}, tokyo.DocumentIDs())

	shibuya := g.Entities["place:shibuya"]
	require.NotNil(t, shibuya)
	assert.Equal(t, 1, shibuya.Frequency)

	kyoto := g.Entities["place:kyoto"]
	require.NotNil(t, kyoto)
	assert.Equal(t, 1, kyoto.Frequency)

	edge := g.Relationships[entities.EdgeKey("place:tokyo", "place:kyoto")]
	require.NotNil(t, edge)
	assert.Equal(t, 1, edge.Strength)

	recs, err := engine.Recommend(ctx, "Tokyo", entities.TypePlace, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "Shibuya")
	assert.Contains(t, names, "Kyoto")
}

func TestPipeline_TiedNeighborsOrderByName(t *testing.T) {
	engine := newPipeline(t, nil)
	ctx := context.Background()

	_, err := engine.RebuildGraph(ctx, []entities.Document{
		{ID: "doc-a", Content: "We visited Tokyo and Shibuya."},
		{ID: "doc-b", Content: "Tokyo is famous for Kyoto day trips."},
	})
	require.NoError(t, err)

	recs, err := engine.Recommend(ctx, "Tokyo", entities.TypePlace, 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Both neighbors share one document with Tokyo and appear once in the
	// corpus, so the tie resolves alphabetically.
	assert.Equal(t, "Kyoto", recs[0].Name)
	assert.Equal(t, "Shibuya", recs[1].Name)
	assert.Equal(t, 1, recs[0].Frequency)
	assert.Equal(t, 1, recs[1].Frequency)
}

func TestPipeline_SentimentAndTags(t *testing.T) {
	engine := newPipeline(t, nil)

	mentions := engine.ExtractEntities(travelCorpus()[0])
	require.NotEmpty(t, mentions)

	var ramen *entities.EntityMention
	for i := range mentions {
		if mentions[i].NormalizedName == "ramen" {
			ramen = &mentions[i]
			break
		}
	}
	require.NotNil(t, ramen)
	assert.Equal(t, entities.TypeFood, ramen.Type)
	assert.Equal(t, entities.SentimentPositive, ramen.Sentiment)
}

func TestPipeline_ExportMatchesStats(t *testing.T) {
	engine := newPipeline(t, nil)
	ctx := context.Background()

	_, err := engine.RebuildGraph(ctx, travelCorpus())
	require.NoError(t, err)

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	snap, err := handlers.NewExportHandler(engine).Handle(ctx, &buf)
	require.NoError(t, err)

	assert.Equal(t, stats.EntityCount, snap.EntityCount)
	assert.Equal(t, stats.RelationshipCount, snap.RelationCount)

	var decoded entities.GraphSnapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Entities, stats.EntityCount)
	assert.Len(t, decoded.Relationships, stats.RelationshipCount)

	ids := make(map[string]bool, len(decoded.Entities))
	for _, e := range decoded.Entities {
		ids[e.ID] = true
	}
	for _, rel := range decoded.Relationships {
		assert.True(t, ids[rel.Source], "edge source %s exists", rel.Source)
		assert.True(t, ids[rel.Target], "edge target %s exists", rel.Target)
	}
}

func TestPipeline_ClearForcesRecompute(t *testing.T) {
	engine := newPipeline(t, nil)
	ctx := context.Background()

	_, err := engine.RebuildGraph(ctx, travelCorpus())
	require.NoError(t, err)
	first := engine.ExtractionStats().Extractions

	require.NoError(t, engine.ClearCache(ctx))

	g, err := engine.Graph(ctx)
	require.NoError(t, err)
	assert.NotNil(t, g.Entities["place:tokyo"])
	assert.Equal(t, first*2, engine.ExtractionStats().Extractions)
}

func TestPipeline_EnrichmentSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kb := mocks.NewKBClient()
	kb.SearchResults = []ports.KBCandidate{{ID: "Q1490", Label: "Tokyo"}}
	kb.Records["Q1490"] = &ports.KBRecord{
		ID:             "Q1490",
		Label:          "Tokyo",
		Description:    "capital of Japan",
		SitelinkCount:  50,
		StatementCount: 100,
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "enrichment.db")

	// First process: enrich and cache.
	cache, err := sqlitecache.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, cache.EnsureSchema(ctx))

	resolver := services.NewResolver()
	enricher, err := services.NewEnricher(kb, cache, resolver, log.New(io.Discard), services.EnricherParams{})
	require.NoError(t, err)

	enrichment := enricher.Enhance(ctx, "Tokyo", entities.TypePlace)
	require.NotNil(t, enrichment)
	require.NoError(t, cache.Close())

	// Second process: same database, fresh client; the record fetch is
	// served from the durable cache.
	reopened, err := sqlitecache.New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	getCallsBefore := kb.GetCalls
	enricher2, err := services.NewEnricher(kb, reopened, resolver, log.New(io.Discard), services.EnricherParams{})
	require.NoError(t, err)

	again := enricher2.Enhance(ctx, "Tokyo", entities.TypePlace)
	require.NotNil(t, again)
	assert.Equal(t, enrichment.AuthorityScore, again.AuthorityScore)
	assert.Equal(t, getCallsBefore, kb.GetCalls, "cached enrichment skips the record fetch")
}
