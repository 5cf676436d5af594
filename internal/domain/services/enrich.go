package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

const (
	// DefaultEnrichmentTTL is how long cached enrichments stay fresh.
	DefaultEnrichmentTTL = 24 * time.Hour
	// DefaultKBTimeout bounds each knowledge-base call.
	DefaultKBTimeout = 10 * time.Second
	// maxRelatedEntities caps related-entity lookups.
	maxRelatedEntities = 20
	// searchLimit is how many candidates one label search requests.
	searchLimit = 5
)

// Match-confidence scale for candidate selection.
const (
	matchExact       = 1.0
	matchAlias       = 0.95
	matchSubstring   = 0.8
	matchDescription = 0.6
	matchFallback    = 0.3
)

// EnricherParams tunes the enrichment service. Zero values take defaults.
type EnricherParams struct {
	TTL     time.Duration
	Timeout time.Duration
}

// Enricher resolves entities against an external knowledge base and attaches
// authority scores. It is an isolated failure domain: network and parsing
// failures degrade to "no enrichment available" and are never propagated into
// the extraction or graph pipeline.
type Enricher struct {
	kb       ports.KnowledgeBaseClient
	cache    ports.EnrichmentCache
	resolver *Resolver
	ttl      time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewEnricher creates an enrichment service. Invalid static configuration
// fails here rather than at call time.
func NewEnricher(kb ports.KnowledgeBaseClient, cache ports.EnrichmentCache, resolver *Resolver, logger *log.Logger, params EnricherParams) (*Enricher, error) {
	if params.TTL == 0 {
		params.TTL = DefaultEnrichmentTTL
	}
	if params.TTL < 0 {
		return nil, fmt.Errorf("enrichment ttl must be positive, got %v", params.TTL)
	}
	if params.Timeout == 0 {
		params.Timeout = DefaultKBTimeout
	}
	if params.Timeout < 0 {
		return nil, fmt.Errorf("kb timeout must be positive, got %v", params.Timeout)
	}
	return &Enricher{
		kb:       kb,
		cache:    cache,
		resolver: resolver,
		ttl:      params.TTL,
		timeout:  params.Timeout,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Enhance resolves a named entity against the knowledge base. It returns nil
// when the search produced no candidates or when any call failed; failures
// are logged and swallowed so callers never block or break on enrichment.
func (e *Enricher) Enhance(ctx context.Context, name string, t entities.MentionType) *entities.AuthorityEnrichment {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	key := e.resolver.Resolve(t, name)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	candidates, err := e.kb.Search(ctx, name, searchLimit)
	if err != nil {
		e.logger.Warn("knowledge base search failed", "name", name, "err", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	best, confidence := e.pickCandidate(name, candidates)

	// The cache is keyed by external ID, independent of local
	// normalization, so synonyms of one external identity share an entry.
	if cached, ok, err := e.cache.Get(ctx, best.ID); err == nil && ok && !cached.Expired(e.now(), e.ttl) {
		out := *cached
		out.EntityKey = key
		out.MatchConfidence = confidence
		return &out
	}

	record, err := e.kb.GetByID(ctx, best.ID)
	if err != nil || record == nil {
		e.logger.Warn("knowledge base record fetch failed", "id", best.ID, "err", err)
		return nil
	}

	enrichment := &entities.AuthorityEnrichment{
		EntityKey:       key,
		ExternalID:      record.ID,
		Label:           record.Label,
		Description:     record.Description,
		Aliases:         record.Aliases,
		StatementCount:  record.StatementCount,
		SitelinkCount:   record.SitelinkCount,
		ReferenceCount:  record.ReferenceCount,
		AuthorityScore:  authorityScore(record),
		MatchConfidence: confidence,
		CachedAt:        e.now(),
	}

	if err := e.cache.Put(ctx, enrichment); err != nil {
		e.logger.Warn("enrichment cache write failed", "id", record.ID, "err", err)
	}
	return enrichment
}

// FindRelated returns up to twenty entities connected to an external ID in
// either direction, excluding the entity itself. Failures degrade to nil.
func (e *Enricher) FindRelated(ctx context.Context, externalID string) []ports.KBRelation {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	related, err := e.kb.GetRelated(ctx, externalID, maxRelatedEntities)
	if err != nil {
		e.logger.Warn("knowledge base related lookup failed", "id", externalID, "err", err)
		return nil
	}

	out := make([]ports.KBRelation, 0, len(related))
	for _, r := range related {
		if r.ID == externalID {
			continue
		}
		out = append(out, r)
		if len(out) == maxRelatedEntities {
			break
		}
	}
	return out
}

// AttachToNode writes an enrichment into a node's open property bag. The
// node/edge model itself never depends on enrichment data.
func AttachToNode(node *entities.GraphEntity, enrichment *entities.AuthorityEnrichment) {
	if node == nil || enrichment == nil {
		return
	}
	if node.Properties == nil {
		node.Properties = make(map[string]any)
	}
	node.Properties["authority"] = map[string]any{
		"external_id":      enrichment.ExternalID,
		"label":            enrichment.Label,
		"description":      enrichment.Description,
		"authority_score":  enrichment.AuthorityScore,
		"match_confidence": enrichment.MatchConfidence,
	}
}

// RelationKindFor maps a knowledge-base relation label to an edge kind.
func RelationKindFor(property string) entities.RelationKind {
	switch strings.ToLower(strings.TrimSpace(property)) {
	case "located in", "located in the administrative territorial entity", "country", "continent":
		return entities.RelationLocatedIn
	case "part of", "has part", "capital of", "capital":
		return entities.RelationPartOf
	case "":
		return entities.RelationMentionedWith
	default:
		return entities.RelationRelatedTo
	}
}

// pickCandidate selects the best search hit on the string-match confidence
// scale. A candidate is always returned when the search produced results; the
// confidence communicates reliability rather than gating the result.
func (e *Enricher) pickCandidate(name string, candidates []ports.KBCandidate) (ports.KBCandidate, float64) {
	norm := e.resolver.Normalize(name)
	best := candidates[0]
	bestScore := 0.0

	for _, c := range candidates {
		score := matchFallback
		label := e.resolver.Normalize(c.Label)
		switch {
		case label == norm:
			score = matchExact
		case aliasMatches(e.resolver, norm, c.Aliases):
			score = matchAlias
		case label != "" && (strings.Contains(label, norm) || strings.Contains(norm, label)):
			score = matchSubstring
		case strings.Contains(e.resolver.Normalize(c.Description), norm) && norm != "":
			score = matchDescription
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}

func aliasMatches(r *Resolver, norm string, aliases []string) bool {
	for _, a := range aliases {
		if r.Normalize(a) == norm {
			return true
		}
	}
	return false
}

// authorityScore derives a [0,1] authority measure from a weighted, saturated
// combination of sitelink, statement, and reference counts.
func authorityScore(record *ports.KBRecord) float64 {
	score := 0.4*saturate(record.SitelinkCount, 50) +
		0.4*saturate(record.StatementCount, 100) +
		0.2*saturate(record.ReferenceCount, 50)
	if score > 1 {
		score = 1
	}
	return score
}

func saturate(n, ceiling int) float64 {
	if n <= 0 {
		return 0
	}
	if n >= ceiling {
		return 1
	}
	return float64(n) / float64(ceiling)
}
