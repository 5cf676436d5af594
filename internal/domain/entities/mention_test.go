package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMentionType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected MentionType
		ok       bool
	}{
		{
			name:     "place is valid",
			input:    "place",
			expected: TypePlace,
			ok:       true,
		},
		{
			name:     "uppercase is folded",
			input:    "Place",
			expected: TypePlace,
			ok:       true,
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  food ",
			expected: TypeFood,
			ok:       true,
		},
		{
			name:     "unknown maps to thing",
			input:    "vehicle",
			expected: TypeThing,
			ok:       false,
		},
		{
			name:     "empty maps to thing",
			input:    "",
			expected: TypeThing,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMentionType(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolvedKey_String(t *testing.T) {
	key := ResolvedKey{Type: TypePlace, NormalizedName: "tokyo"}
	assert.Equal(t, "place:tokyo", key.String())
}

func TestEntityMention_Key(t *testing.T) {
	a := EntityMention{Type: TypePlace, Name: "Tokyo", NormalizedName: "tokyo"}
	b := EntityMention{Type: TypePlace, Name: "TOKYO", NormalizedName: "tokyo"}
	c := EntityMention{Type: TypeFood, Name: "Tokyo", NormalizedName: "tokyo"}

	assert.Equal(t, a.Key(), b.Key(), "same type and normalized name must share identity")
	assert.NotEqual(t, a.Key(), c.Key(), "different types must not merge")
}

func TestEdgeKey_Canonical(t *testing.T) {
	assert.Equal(t, EdgeKey("place:tokyo", "place:shibuya"), EdgeKey("place:shibuya", "place:tokyo"))
	assert.Equal(t, "place:shibuya|place:tokyo", EdgeKey("place:tokyo", "place:shibuya"))
}

func TestKnowledgeGraph_Clone(t *testing.T) {
	g := NewKnowledgeGraph()
	g.Entities["place:tokyo"] = &GraphEntity{
		ID:        "place:tokyo",
		Name:      "Tokyo",
		Type:      TypePlace,
		Frequency: 2,
		Neighbors: map[string]struct{}{"place:kyoto": {}},
		Documents: map[string]struct{}{"doc-1": {}},
	}
	g.Relationships[EdgeKey("place:tokyo", "place:kyoto")] = &Relationship{
		Source:    "place:kyoto",
		Target:    "place:tokyo",
		Kind:      RelationCoOccurrence,
		Strength:  1,
		Documents: []string{"doc-1"},
	}

	c := g.Clone()
	c.Entities["place:tokyo"].Frequency = 99
	c.Entities["place:tokyo"].Neighbors["place:osaka"] = struct{}{}
	c.Relationships[EdgeKey("place:tokyo", "place:kyoto")].Strength = 99

	assert.Equal(t, 2, g.Entities["place:tokyo"].Frequency)
	assert.Len(t, g.Entities["place:tokyo"].Neighbors, 1)
	assert.Equal(t, 1, g.Relationships[EdgeKey("place:tokyo", "place:kyoto")].Strength)
}
