package entities

import "time"

// AuthorityEnrichment is the result of resolving an entity against an
// external knowledge base. It lives only in a node's property bag and in the
// enrichment cache; the graph's node/edge model does not depend on it.
type AuthorityEnrichment struct {
	EntityKey       ResolvedKey `json:"entity_key"`
	ExternalID      string      `json:"external_id"`
	Label           string      `json:"label"`
	Description     string      `json:"description,omitempty"`
	Aliases         []string    `json:"aliases,omitempty"`
	StatementCount  int         `json:"statement_count"`
	SitelinkCount   int         `json:"sitelink_count"`
	ReferenceCount  int         `json:"reference_count"`
	AuthorityScore  float64     `json:"authority_score"`
	MatchConfidence float64     `json:"match_confidence"`
	CachedAt        time.Time   `json:"cached_at"`
}

// Expired reports whether the cached entry is older than ttl at the given
// instant.
func (e *AuthorityEnrichment) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) >= ttl
}
