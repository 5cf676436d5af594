// Package wikidata provides a Wikidata implementation of the
// KnowledgeBaseClient interface over the public MediaWiki API.
package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

// DefaultEndpoint is the public Wikidata API base URL.
const DefaultEndpoint = "https://www.wikidata.org/w/api.php"

// userAgent identifies this client per the Wikimedia API etiquette.
const userAgent = "voyage-core (https://github.com/voyagegraph/voyage-core)"

// relationProperties maps the Wikidata property IDs we follow to human
// relation labels. Every other claim is ignored.
var relationProperties = map[string]string{
	"P17":   "country",
	"P30":   "continent",
	"P36":   "capital",
	"P131":  "located in",
	"P276":  "located in",
	"P361":  "part of",
	"P527":  "has part",
	"P1376": "capital of",
}

// Client implements ports.KnowledgeBaseClient against the Wikidata API.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// New creates a Wikidata client. An empty endpoint selects the public API.
func New(endpoint string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}, nil
}

type searchResponse struct {
	Search []struct {
		ID          string   `json:"id"`
		Label       string   `json:"label"`
		Description string   `json:"description"`
		Aliases     []string `json:"aliases"`
	} `json:"search"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// Search finds candidate entities for a label.
func (c *Client) Search(ctx context.Context, label string, limit int) ([]ports.KBCandidate, error) {
	if strings.TrimSpace(label) == "" {
		return nil, errors.New("search label is required")
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {label},
		"language": {"en"},
		"format":   {"json"},
		"limit":    {fmt.Sprint(limit)},
	}

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("searching entities: %s: %s", resp.Error.Code, resp.Error.Info)
	}

	candidates := make([]ports.KBCandidate, 0, len(resp.Search))
	for _, hit := range resp.Search {
		candidates = append(candidates, ports.KBCandidate{
			ID:          hit.ID,
			Label:       hit.Label,
			Description: hit.Description,
			Aliases:     hit.Aliases,
		})
	}
	return candidates, nil
}

type entitiesResponse struct {
	Entities map[string]wbEntity `json:"entities"`
	Error    *apiError           `json:"error"`
}

type wbEntity struct {
	ID           string                    `json:"id"`
	Missing      *string                   `json:"missing"`
	Labels       map[string]wbText         `json:"labels"`
	Descriptions map[string]wbText         `json:"descriptions"`
	Aliases      map[string][]wbText       `json:"aliases"`
	Claims       map[string][]wbClaim      `json:"claims"`
	Sitelinks    map[string]map[string]any `json:"sitelinks"`
}

type wbText struct {
	Value string `json:"value"`
}

type wbClaim struct {
	Mainsnak struct {
		Datavalue struct {
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
	References []json.RawMessage `json:"references"`
}

// entityIDValue is the datavalue payload of an entity-valued claim.
type entityIDValue struct {
	ID string `json:"id"`
}

// GetByID fetches a full entity record.
func (c *Client) GetByID(ctx context.Context, id string) (*ports.KBRecord, error) {
	entity, err := c.fetchEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	record := &ports.KBRecord{
		ID:            entity.ID,
		Label:         entity.Labels["en"].Value,
		Description:   entity.Descriptions["en"].Value,
		SitelinkCount: len(entity.Sitelinks),
	}
	for _, alias := range entity.Aliases["en"] {
		record.Aliases = append(record.Aliases, alias.Value)
	}
	for _, claims := range entity.Claims {
		record.StatementCount += len(claims)
		for _, claim := range claims {
			record.ReferenceCount += len(claim.References)
		}
	}
	return record, nil
}

// GetRelated follows the relation properties of an entity's claims and
// resolves the target labels in one batched call.
func (c *Client) GetRelated(ctx context.Context, id string, limit int) ([]ports.KBRelation, error) {
	if limit <= 0 {
		limit = 20
	}

	entity, err := c.fetchEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	// Collect target IDs per relation property, deduplicated.
	propertyByTarget := make(map[string]string)
	var targets []string
	for property, claims := range entity.Claims {
		label, ok := relationProperties[property]
		if !ok {
			continue
		}
		for _, claim := range claims {
			var value entityIDValue
			if err := json.Unmarshal(claim.Mainsnak.Datavalue.Value, &value); err != nil || value.ID == "" {
				continue
			}
			if _, seen := propertyByTarget[value.ID]; seen {
				continue
			}
			propertyByTarget[value.ID] = label
			targets = append(targets, value.ID)
		}
	}
	sort.Strings(targets)
	if len(targets) > limit {
		targets = targets[:limit]
	}
	if len(targets) == 0 {
		return []ports.KBRelation{}, nil
	}

	labels, err := c.fetchLabels(ctx, targets)
	if err != nil {
		return nil, err
	}

	relations := make([]ports.KBRelation, 0, len(targets))
	for _, target := range targets {
		relations = append(relations, ports.KBRelation{
			ID:       target,
			Label:    labels[target],
			Property: propertyByTarget[target],
		})
	}
	return relations, nil
}

// fetchEntity retrieves one entity with claims and sitelinks.
func (c *Client) fetchEntity(ctx context.Context, id string) (*wbEntity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("entity id is required")
	}

	params := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {id},
		"props":     {"labels|descriptions|aliases|claims|sitelinks"},
		"languages": {"en"},
		"format":    {"json"},
	}

	var resp entitiesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("fetching entity %s: %w", id, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("fetching entity %s: %s: %s", id, resp.Error.Code, resp.Error.Info)
	}

	entity, ok := resp.Entities[id]
	if !ok || entity.Missing != nil {
		return nil, fmt.Errorf("entity not found: %s", id)
	}
	return &entity, nil
}

// fetchLabels resolves English labels for a batch of entity IDs.
func (c *Client) fetchLabels(ctx context.Context, ids []string) (map[string]string, error) {
	params := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {strings.Join(ids, "|")},
		"props":     {"labels"},
		"languages": {"en"},
		"format":    {"json"},
	}

	var resp entitiesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("fetching labels: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("fetching labels: %s: %s", resp.Error.Code, resp.Error.Info)
	}

	labels := make(map[string]string, len(resp.Entities))
	for id, entity := range resp.Entities {
		labels[id] = entity.Labels["en"].Value
	}
	return labels, nil
}

// get performs one API request and decodes the JSON response.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
