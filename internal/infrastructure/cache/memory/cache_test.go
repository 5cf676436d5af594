package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

func TestExtractionCache(t *testing.T) {
	c := NewExtractionCache()

	_, ok := c.Get("fp-1")
	assert.False(t, ok)

	mentions := []entities.EntityMention{
		{Type: entities.TypePlace, Name: "Tokyo", NormalizedName: "tokyo", Confidence: 0.9},
	}
	c.Put("fp-1", mentions)

	got, ok := c.Get("fp-1")
	require.True(t, ok)
	assert.Equal(t, mentions, got)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	_, ok = c.Get("fp-1")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestEnrichmentCache(t *testing.T) {
	ctx := context.Background()
	c := NewEnrichmentCache()

	_, ok, err := c.Get(ctx, "Q1490")
	require.NoError(t, err)
	assert.False(t, ok)

	enrichment := &entities.AuthorityEnrichment{
		ExternalID:     "Q1490",
		Label:          "Tokyo",
		AuthorityScore: 0.9,
		CachedAt:       time.Now(),
	}
	require.NoError(t, c.Put(ctx, enrichment))

	got, ok, err := c.Get(ctx, "Q1490")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Tokyo", got.Label)

	got.Label = "mutated"
	again, _, err := c.Get(ctx, "Q1490")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", again.Label, "callers get copies, not the stored entry")

	require.NoError(t, c.Clear(ctx))
	_, ok, err = c.Get(ctx, "Q1490")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnrichmentCache_Prune(t *testing.T) {
	ctx := context.Background()
	c := NewEnrichmentCache()
	now := time.Now()

	require.NoError(t, c.Put(ctx, &entities.AuthorityEnrichment{ExternalID: "Q-old", CachedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, c.Put(ctx, &entities.AuthorityEnrichment{ExternalID: "Q-fresh", CachedAt: now}))

	require.NoError(t, c.Prune(ctx, now.Add(-24*time.Hour)))

	_, ok, err := c.Get(ctx, "Q-old")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "Q-fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
