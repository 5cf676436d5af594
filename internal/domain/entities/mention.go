package entities

import "strings"

// MentionType categorizes an entity mention. The set is closed; switches over
// it should handle every value.
type MentionType string

const (
	TypePerson       MentionType = "person"
	TypePlace        MentionType = "place"
	TypeOrganization MentionType = "organization"
	TypeEvent        MentionType = "event"
	TypeThing        MentionType = "thing"
	TypeActivity     MentionType = "activity"
	TypeCultural     MentionType = "cultural"
	TypeFood         MentionType = "food"
	TypeTransport    MentionType = "transport"
)

// AllMentionTypes lists every mention type, in a stable order.
var AllMentionTypes = []MentionType{
	TypePerson,
	TypePlace,
	TypeOrganization,
	TypeEvent,
	TypeThing,
	TypeActivity,
	TypeCultural,
	TypeFood,
	TypeTransport,
}

// ParseMentionType maps a free-form string to a MentionType. Unknown values
// map to TypeThing with ok=false; the function never fails.
func ParseMentionType(s string) (MentionType, bool) {
	t := MentionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMentionTypes {
		if t == known {
			return known, true
		}
	}
	return TypeThing, false
}

// Sentiment is the tone of the text surrounding a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// EntityMention is one detected entity within a single document. Mentions are
// immutable once produced and owned by that document's extraction result.
type EntityMention struct {
	Type           MentionType `json:"type"`
	Name           string      `json:"name"`
	NormalizedName string      `json:"normalized_name"`
	Confidence     float64     `json:"confidence"`
	Context        string      `json:"context,omitempty"`
	Category       string      `json:"category,omitempty"`
	Sentiment      Sentiment   `json:"sentiment,omitempty"`
	Relevance      float64     `json:"relevance,omitempty"`
}

// Key returns the resolved identity of the mention. Two mentions merge into
// one graph node if and only if their keys are equal.
func (m EntityMention) Key() ResolvedKey {
	return ResolvedKey{Type: m.Type, NormalizedName: m.NormalizedName}
}

// ResolvedKey is the stable identity of an entity across documents.
type ResolvedKey struct {
	Type           MentionType `json:"type"`
	NormalizedName string      `json:"normalized_name"`
}

// String renders the key in the "type:name" form used as a graph node ID.
func (k ResolvedKey) String() string {
	return string(k.Type) + ":" + k.NormalizedName
}
