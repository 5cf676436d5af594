package entities

import (
	"sort"
	"time"
)

// RelationKind is the kind of connection between two graph entities.
// Co-occurrence is the default produced by graph building; the richer kinds
// are populated by authority enrichment.
type RelationKind string

const (
	RelationCoOccurrence  RelationKind = "co_occurrence"
	RelationLocatedIn     RelationKind = "located_in"
	RelationPartOf        RelationKind = "part_of"
	RelationRelatedTo     RelationKind = "related_to"
	RelationMentionedWith RelationKind = "mentioned_with"
)

// GraphEntity is the deduplicated, corpus-wide identity that one or more
// mentions resolve to. Nodes are never deleted except by a full rebuild or an
// explicit clear.
type GraphEntity struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"` // first-seen surface form
	Type       MentionType         `json:"type"`
	Frequency  int                 `json:"frequency"`
	Confidence float64             `json:"confidence"`
	Neighbors  map[string]struct{} `json:"-"`
	Documents  map[string]struct{} `json:"-"`
	Properties map[string]any      `json:"properties,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// NeighborIDs returns the neighbor set as a sorted slice.
func (e *GraphEntity) NeighborIDs() []string {
	return sortedKeys(e.Neighbors)
}

// DocumentIDs returns the related document set as a sorted slice.
func (e *GraphEntity) DocumentIDs() []string {
	return sortedKeys(e.Documents)
}

// Relationship is an undirected edge between two graph entities. The endpoint
// pair is canonicalized so there is exactly one edge per unordered pair, and
// strength accumulates monotonically with each additional shared document.
type Relationship struct {
	Source    string       `json:"source"`
	Target    string       `json:"target"`
	Kind      RelationKind `json:"kind"`
	Strength  int          `json:"strength"`
	Contexts  []string     `json:"contexts,omitempty"`
	Documents []string     `json:"documents,omitempty"`
}

// EdgeKey returns the canonical map key for an unordered endpoint pair.
// Endpoints are ordered so (a,b) and (b,a) address the same edge.
func EdgeKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// KnowledgeGraph aggregates all nodes and edges built from a corpus.
// Invariant: every edge's endpoints exist as nodes.
type KnowledgeGraph struct {
	Entities      map[string]*GraphEntity  `json:"entities"`
	Relationships map[string]*Relationship `json:"relationships"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// NewKnowledgeGraph returns an empty graph.
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{
		Entities:      make(map[string]*GraphEntity),
		Relationships: make(map[string]*Relationship),
	}
}

// Clone returns a deep copy of the graph. Incremental merges mutate a clone
// and swap it in so readers of the previous graph are never disturbed.
func (g *KnowledgeGraph) Clone() *KnowledgeGraph {
	out := &KnowledgeGraph{
		Entities:      make(map[string]*GraphEntity, len(g.Entities)),
		Relationships: make(map[string]*Relationship, len(g.Relationships)),
		UpdatedAt:     g.UpdatedAt,
	}
	for id, e := range g.Entities {
		ce := *e
		ce.Neighbors = copySet(e.Neighbors)
		ce.Documents = copySet(e.Documents)
		if e.Properties != nil {
			ce.Properties = make(map[string]any, len(e.Properties))
			for k, v := range e.Properties {
				ce.Properties[k] = v
			}
		}
		out.Entities[id] = &ce
	}
	for key, r := range g.Relationships {
		cr := *r
		cr.Contexts = append([]string(nil), r.Contexts...)
		cr.Documents = append([]string(nil), r.Documents...)
		out.Relationships[key] = &cr
	}
	return out
}

// EntityFrequency pairs an entity with its corpus frequency for stats views.
type EntityFrequency struct {
	Name      string      `json:"name"`
	Type      MentionType `json:"type"`
	Frequency int         `json:"frequency"`
}

// GraphStats is a read-only aggregate view of the graph.
type GraphStats struct {
	EntityCount       int                 `json:"entity_count"`
	RelationshipCount int                 `json:"relationship_count"`
	TopEntities       []EntityFrequency   `json:"top_entities"`
	TypeBreakdown     map[MentionType]int `json:"type_breakdown"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// SnapshotEntity is the serializable form of a graph node.
type SnapshotEntity struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       MentionType    `json:"type"`
	Frequency  int            `json:"frequency"`
	Confidence float64        `json:"confidence"`
	Neighbors  []string       `json:"neighbors,omitempty"`
	Documents  []string       `json:"documents,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// GraphSnapshot is the fully serializable export of the graph, its only
// durable representation.
type GraphSnapshot struct {
	Entities      []SnapshotEntity `json:"entities"`
	Relationships []Relationship   `json:"relationships"`
	EntityCount   int              `json:"entity_count"`
	RelationCount int              `json:"relationship_count"`
	ExportedAt    time.Time        `json:"exported_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// DocumentFailure records one document that failed during a batch run.
type DocumentFailure struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// BuildReport summarizes one corpus-wide build. Per-document failures never
// abort the build; they are reported here instead.
type BuildReport struct {
	ID         string            `json:"id"`
	Documents  int               `json:"documents"`
	Mentions   int               `json:"mentions"`
	Failures   []DocumentFailure `json:"failures,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

func copySet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
