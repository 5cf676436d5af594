// Package corpus persists the document corpus as a JSON file so the graph
// can be rebuilt across process runs.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// Store is a file-backed implementation of ports.CorpusStore.
type Store struct {
	path string
}

// NewStore creates a store writing to the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus path is required")
	}
	return &Store{path: path}, nil
}

// Load reads the persisted corpus. A missing file is an empty corpus, not an
// error.
func (s *Store) Load(ctx context.Context) ([]entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var docs []entities.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing corpus file: %w", err)
	}
	return docs, nil
}

// Save replaces the persisted corpus. The file is written to a temporary
// sibling and renamed so readers never see a partial write.
func (s *Store) Save(ctx context.Context, docs []entities.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling corpus: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing corpus file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing corpus file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
