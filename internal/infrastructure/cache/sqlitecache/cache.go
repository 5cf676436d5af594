// Package sqlitecache provides a SQLite implementation of the EnrichmentCache
// interface, so knowledge-base lookups survive process restarts.
package sqlitecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// Cache implements ports.EnrichmentCache using SQLite.
type Cache struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the cache database at the given path.
func New(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (c *Cache) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Knowledge-base enrichments, keyed by external identifier
	CREATE TABLE IF NOT EXISTS enrichments (
		external_id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		label TEXT NOT NULL,
		description TEXT,
		aliases TEXT,
		statement_count INTEGER NOT NULL DEFAULT 0,
		sitelink_count INTEGER NOT NULL DEFAULT 0,
		reference_count INTEGER NOT NULL DEFAULT 0,
		authority_score REAL NOT NULL DEFAULT 0,
		match_confidence REAL NOT NULL DEFAULT 0,
		cached_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_enrichments_cached ON enrichments(cached_at);
	CREATE INDEX IF NOT EXISTS idx_enrichments_name ON enrichments(entity_type, normalized_name);
	`

	_, err := c.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Get returns the cached enrichment for an external ID. A missing entry is
// not an error.
func (c *Cache) Get(ctx context.Context, externalID string) (*entities.AuthorityEnrichment, bool, error) {
	query := `
		SELECT external_id, entity_type, normalized_name, label, description, aliases,
		       statement_count, sitelink_count, reference_count,
		       authority_score, match_confidence, cached_at
		FROM enrichments
		WHERE external_id = ?
	`
	row := c.db.QueryRowContext(ctx, query, externalID)

	var e entities.AuthorityEnrichment
	var entityType string
	var description, aliases sql.NullString

	err := row.Scan(
		&e.ExternalID,
		&entityType,
		&e.EntityKey.NormalizedName,
		&e.Label,
		&description,
		&aliases,
		&e.StatementCount,
		&e.SitelinkCount,
		&e.ReferenceCount,
		&e.AuthorityScore,
		&e.MatchConfidence,
		&e.CachedAt,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scanning enrichment: %w", err)
	}

	e.EntityKey.Type, _ = entities.ParseMentionType(entityType)
	e.Description = description.String
	if aliases.Valid && aliases.String != "" {
		if err := json.Unmarshal([]byte(aliases.String), &e.Aliases); err != nil {
			return nil, false, fmt.Errorf("unmarshaling aliases: %w", err)
		}
	}
	return &e, true, nil
}

// Put saves or updates an enrichment under its external ID.
func (c *Cache) Put(ctx context.Context, enrichment *entities.AuthorityEnrichment) error {
	var aliases sql.NullString
	if len(enrichment.Aliases) > 0 {
		data, err := json.Marshal(enrichment.Aliases)
		if err != nil {
			return fmt.Errorf("marshaling aliases: %w", err)
		}
		aliases = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO enrichments (external_id, entity_type, normalized_name, label, description, aliases,
			statement_count, sitelink_count, reference_count,
			authority_score, match_confidence, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			entity_type = excluded.entity_type,
			normalized_name = excluded.normalized_name,
			label = excluded.label,
			description = excluded.description,
			aliases = excluded.aliases,
			statement_count = excluded.statement_count,
			sitelink_count = excluded.sitelink_count,
			reference_count = excluded.reference_count,
			authority_score = excluded.authority_score,
			match_confidence = excluded.match_confidence,
			cached_at = excluded.cached_at
	`
	_, err := c.db.ExecContext(ctx, query,
		enrichment.ExternalID,
		string(enrichment.EntityKey.Type),
		enrichment.EntityKey.NormalizedName,
		enrichment.Label,
		enrichment.Description,
		aliases,
		enrichment.StatementCount,
		enrichment.SitelinkCount,
		enrichment.ReferenceCount,
		enrichment.AuthorityScore,
		enrichment.MatchConfidence,
		enrichment.CachedAt,
	)
	if err != nil {
		return fmt.Errorf("saving enrichment: %w", err)
	}
	return nil
}

// Prune removes entries cached before the cutoff.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM enrichments WHERE cached_at < ?`
	if _, err := c.db.ExecContext(ctx, query, cutoff); err != nil {
		return fmt.Errorf("pruning enrichments: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM enrichments`); err != nil {
		return fmt.Errorf("clearing enrichments: %w", err)
	}
	return nil
}

// Count returns the number of cached enrichments.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrichments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting enrichments: %w", err)
	}
	return count, nil
}
