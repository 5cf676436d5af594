package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

// ErrNoCorpus is returned when a graph read needs a rebuild but no corpus has
// been supplied yet.
var ErrNoCorpus = errors.New("no corpus loaded")

// Engine is the process-wide entity engine: constructed once, long-lived,
// reset only via explicit clear or rebuild calls. All dependencies are
// injected; there is no global state. Rebuilds are a single logical writer:
// the replacement graph is fully constructed off to the side and swapped in
// atomically, so concurrent recommendation and stats readers never observe a
// partially merged graph.
type Engine struct {
	extractor   *Extractor
	builder     *GraphBuilder
	recommender *RecommendationService
	enricher    *Enricher // nil when enrichment is disabled

	graph atomic.Pointer[entities.KnowledgeGraph]

	// writeMu serializes rebuilds, merges, and enrichment attachment.
	// It is held only around the merge/swap step, never around extraction.
	writeMu sync.Mutex
	corpus  []entities.Document

	enrichmentCache ports.EnrichmentCache
}

// EngineParams carries the engine's injected dependencies.
type EngineParams struct {
	Extractor       *Extractor
	Builder         *GraphBuilder
	Recommender     *RecommendationService
	Enricher        *Enricher
	EnrichmentCache ports.EnrichmentCache
}

// NewEngine creates the engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Extractor == nil || params.Builder == nil || params.Recommender == nil {
		return nil, errors.New("extractor, builder, and recommender are required")
	}
	return &Engine{
		extractor:       params.Extractor,
		builder:         params.Builder,
		recommender:     params.Recommender,
		enricher:        params.Enricher,
		enrichmentCache: params.EnrichmentCache,
	}, nil
}

// ExtractEntities extracts one document, cache-aware.
func (e *Engine) ExtractEntities(doc entities.Document) []entities.EntityMention {
	return e.extractor.ExtractEntities(doc)
}

// BatchExtract extracts a document set concurrently.
func (e *Engine) BatchExtract(ctx context.Context, docs []entities.Document) (map[string][]entities.EntityMention, []entities.DocumentFailure, error) {
	return e.extractor.BatchExtract(ctx, docs)
}

// RebuildGraph extracts the given corpus and swaps in a complete replacement
// graph. The corpus is retained so a later ClearCache can force full
// recomputation on next access.
func (e *Engine) RebuildGraph(ctx context.Context, docs []entities.Document) (*entities.BuildReport, error) {
	report := &entities.BuildReport{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}

	mentionsByDoc, failures, err := e.extractor.BatchExtract(ctx, docs)
	if err != nil {
		return nil, err
	}
	report.Failures = failures
	report.Documents = len(mentionsByDoc)
	for _, mentions := range mentionsByDoc {
		report.Mentions += len(mentions)
	}

	graph := e.builder.Build(mentionsByDoc)

	e.writeMu.Lock()
	e.corpus = append([]entities.Document(nil), docs...)
	e.graph.Store(graph)
	e.writeMu.Unlock()

	report.FinishedAt = time.Now()
	return report, nil
}

// MergeDocument folds one document into the current graph incrementally.
// Extraction runs outside the exclusive section; only the merge and swap are
// serialized, on a clone, so concurrent readers keep the previous graph.
// Merging is idempotent per document: an unchanged document is a no-op, and a
// changed one replaces its corpus entry and triggers a full rebuild, so the
// graph always equals what a rebuild of the retained corpus would produce.
func (e *Engine) MergeDocument(ctx context.Context, doc entities.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mentions := e.extractor.ExtractEntities(doc)

	e.writeMu.Lock()

	idx := -1
	for i := range e.corpus {
		if e.corpus[i].ID == doc.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if Fingerprint(e.corpus[idx]) == Fingerprint(doc) {
			e.writeMu.Unlock()
			return nil
		}
		e.corpus[idx] = doc
		corpus := append([]entities.Document(nil), e.corpus...)
		e.writeMu.Unlock()
		_, err := e.RebuildGraph(ctx, corpus)
		return err
	}
	defer e.writeMu.Unlock()

	current := e.graph.Load()
	var next *entities.KnowledgeGraph
	if current == nil {
		next = entities.NewKnowledgeGraph()
	} else {
		next = current.Clone()
	}
	e.builder.MergeDocument(next, doc.ID, mentions)
	e.corpus = append(e.corpus, doc)
	e.graph.Store(next)
	return nil
}

// LoadCorpus seeds the retained corpus without building a graph; the first
// graph read rebuilds lazily. Used to restore persisted state at startup.
func (e *Engine) LoadCorpus(docs []entities.Document) {
	e.writeMu.Lock()
	e.corpus = append([]entities.Document(nil), docs...)
	e.graph.Store(nil)
	e.writeMu.Unlock()
}

// Corpus returns a copy of the retained corpus.
func (e *Engine) Corpus() []entities.Document {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return append([]entities.Document(nil), e.corpus...)
}

// Graph returns the current graph, rebuilding lazily from the retained corpus
// when a clear has dropped it. Readers always get a complete graph.
func (e *Engine) Graph(ctx context.Context) (*entities.KnowledgeGraph, error) {
	if g := e.graph.Load(); g != nil {
		return g, nil
	}

	e.writeMu.Lock()
	corpus := append([]entities.Document(nil), e.corpus...)
	e.writeMu.Unlock()
	if len(corpus) == 0 {
		return nil, ErrNoCorpus
	}

	if _, err := e.RebuildGraph(ctx, corpus); err != nil {
		return nil, err
	}
	return e.graph.Load(), nil
}

// Recommend ranks the 1-hop neighbors of a queried entity. An unknown entity
// yields an empty list. The engine guards only non-positive limits; callers
// clamp upper bounds.
func (e *Engine) Recommend(ctx context.Context, name string, t entities.MentionType, limit int) ([]Recommendation, error) {
	g, err := e.Graph(ctx)
	if errors.Is(err, ErrNoCorpus) {
		return []Recommendation{}, nil
	}
	if err != nil {
		return nil, err
	}
	return e.recommender.Recommend(g, name, t, limit), nil
}

// Stats returns the aggregate graph view.
func (e *Engine) Stats(ctx context.Context) (entities.GraphStats, error) {
	g, err := e.Graph(ctx)
	if errors.Is(err, ErrNoCorpus) {
		return e.builder.Stats(entities.NewKnowledgeGraph()), nil
	}
	if err != nil {
		return entities.GraphStats{}, err
	}
	return e.builder.Stats(g), nil
}

// Snapshot returns the serializable export of the graph, its only durable
// representation.
func (e *Engine) Snapshot(ctx context.Context) (entities.GraphSnapshot, error) {
	g, err := e.Graph(ctx)
	if errors.Is(err, ErrNoCorpus) {
		return e.builder.Snapshot(entities.NewKnowledgeGraph()), nil
	}
	if err != nil {
		return entities.GraphSnapshot{}, err
	}
	return e.builder.Snapshot(g), nil
}

// ExtractionStats returns extractor counters.
func (e *Engine) ExtractionStats() ExtractionStats {
	return e.extractor.Stats()
}

// ClearCache wipes the extraction cache and drops the graph together, forcing
// full recomputation on the next extraction or stats access. Idempotent and
// safe to call at any time.
func (e *Engine) ClearCache(ctx context.Context) error {
	e.writeMu.Lock()
	e.extractor.ClearCache()
	e.graph.Store(nil)
	e.writeMu.Unlock()

	if e.enrichmentCache != nil {
		if err := e.enrichmentCache.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EnrichEntity resolves an entity against the external knowledge base and,
// when the entity exists in the graph, attaches the result to its property
// bag. Enrichment failures degrade to nil and never disturb the graph.
func (e *Engine) EnrichEntity(ctx context.Context, name string, t entities.MentionType) *entities.AuthorityEnrichment {
	if e.enricher == nil {
		return nil
	}
	enrichment := e.enricher.Enhance(ctx, name, t)
	if enrichment == nil {
		return nil
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	current := e.graph.Load()
	if current == nil {
		return enrichment
	}
	id := enrichment.EntityKey.String()
	if _, ok := current.Entities[id]; !ok {
		return enrichment
	}
	next := current.Clone()
	AttachToNode(next.Entities[id], enrichment)
	e.graph.Store(next)
	return enrichment
}

// SeedAuthorityEdges asks the knowledge base for entities related to an
// enriched node and upgrades matching co-occurrence edges to richer kinds
// (or creates them) between nodes already present in the graph. Returns how
// many edges were touched.
func (e *Engine) SeedAuthorityEdges(ctx context.Context, enrichment *entities.AuthorityEnrichment) int {
	if e.enricher == nil || enrichment == nil {
		return 0
	}
	related := e.enricher.FindRelated(ctx, enrichment.ExternalID)
	if len(related) == 0 {
		return 0
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	current := e.graph.Load()
	if current == nil {
		return 0
	}

	sourceID := enrichment.EntityKey.String()
	if _, ok := current.Entities[sourceID]; !ok {
		return 0
	}

	next := current.Clone()
	touched := 0
	for _, rel := range related {
		targetID := e.matchNode(next, rel.Label)
		if targetID == "" || targetID == sourceID {
			continue
		}
		key := entities.EdgeKey(sourceID, targetID)
		edge, ok := next.Relationships[key]
		if !ok {
			src, dst := sourceID, targetID
			if dst < src {
				src, dst = dst, src
			}
			edge = &entities.Relationship{Source: src, Target: dst, Strength: 1}
			next.Relationships[key] = edge
			next.Entities[sourceID].Neighbors[targetID] = struct{}{}
			next.Entities[targetID].Neighbors[sourceID] = struct{}{}
		}
		edge.Kind = RelationKindFor(rel.Property)
		touched++
	}
	if touched == 0 {
		return 0
	}
	e.graph.Store(next)
	return touched
}

// matchNode finds a graph node whose normalized name matches a KB label,
// regardless of type.
func (e *Engine) matchNode(g *entities.KnowledgeGraph, label string) string {
	norm := e.recommender.resolver.Normalize(label)
	if norm == "" {
		return ""
	}
	for _, t := range entities.AllMentionTypes {
		id := entities.ResolvedKey{Type: t, NormalizedName: norm}.String()
		if _, ok := g.Entities[id]; ok {
			return id
		}
	}
	return ""
}

// Close releases engine resources.
func (e *Engine) Close() error {
	if e.enrichmentCache != nil {
		return e.enrichmentCache.Close()
	}
	return nil
}
