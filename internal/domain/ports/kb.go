// Package ports defines interfaces for external service communication.
package ports

import "context"

// KBCandidate is one search hit from the external knowledge base.
type KBCandidate struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

// KBRecord is the full knowledge-base record for an entity.
type KBRecord struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Description    string   `json:"description,omitempty"`
	Aliases        []string `json:"aliases,omitempty"`
	StatementCount int      `json:"statement_count"`
	SitelinkCount  int      `json:"sitelink_count"`
	ReferenceCount int      `json:"reference_count"`
}

// KBRelation is one entity connected to another in the knowledge base,
// in either direction.
type KBRelation struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Property string `json:"property,omitempty"` // relation label, e.g. "part of"
}

// KnowledgeBaseClient is the narrow interface to an external knowledge base.
// Any service exposing label search, record lookup, and related-entity lookup
// can back it; enrichment results never leak into the graph's node/edge
// model, so implementations are swappable.
type KnowledgeBaseClient interface {
	// Search returns candidate entities matching a label. Zero results is
	// a normal outcome, not an error.
	Search(ctx context.Context, label string, limit int) ([]KBCandidate, error)

	// GetByID fetches the full record for an external identifier.
	GetByID(ctx context.Context, id string) (*KBRecord, error)

	// GetRelated returns entities connected to id in either direction,
	// excluding id itself.
	GetRelated(ctx context.Context, id string, limit int) ([]KBRelation, error)
}
