// Package mocks provides hand-written mock implementations of ports for
// tests.
package mocks

import (
	"context"

	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

// KBClient is a mock implementation of ports.KnowledgeBaseClient.
type KBClient struct {
	SearchResults []ports.KBCandidate
	Records       map[string]*ports.KBRecord
	Related       map[string][]ports.KBRelation
	Err           error

	SearchCalls  int
	GetCalls     int
	RelatedCalls int
}

// NewKBClient creates a new mock knowledge-base client.
func NewKBClient() *KBClient {
	return &KBClient{
		Records: make(map[string]*ports.KBRecord),
		Related: make(map[string][]ports.KBRelation),
	}
}

// Search returns the configured candidates.
func (m *KBClient) Search(_ context.Context, _ string, limit int) ([]ports.KBCandidate, error) {
	m.SearchCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.SearchResults) > limit {
		return m.SearchResults[:limit], nil
	}
	return m.SearchResults, nil
}

// GetByID returns the configured record for an ID.
func (m *KBClient) GetByID(_ context.Context, id string) (*ports.KBRecord, error) {
	m.GetCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records[id], nil
}

// GetRelated returns the configured relations for an ID.
func (m *KBClient) GetRelated(_ context.Context, id string, limit int) ([]ports.KBRelation, error) {
	m.RelatedCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	related := m.Related[id]
	if len(related) > limit {
		return related[:limit], nil
	}
	return related, nil
}
