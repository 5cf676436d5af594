// Package handlers wires CLI commands to the domain engine.
package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/parsers"
)

// reSlug matches characters that aren't allowed in derived document IDs.
var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// LoadDocuments reads and parses one document file. Documents without an
// explicit ID get a deterministic one derived from the file name, so repeated
// loads of the same file hit the extraction cache.
func LoadDocuments(filePath string) ([]entities.Document, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	parser := parsers.ForFile(absPath)
	if parser == nil {
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(absPath))
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raws, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", absPath, err)
	}

	docs := make([]entities.Document, 0, len(raws))
	for _, raw := range raws {
		doc := entities.Document{
			ID:         raw.ID,
			Title:      raw.Title,
			Excerpt:    raw.Excerpt,
			Content:    raw.Content,
			Tags:       raw.Tags,
			SourcePath: absPath,
		}
		if doc.ID == "" {
			doc.ID = deriveID(absPath, raw.LineNum, len(raws))
		}
		if doc.IsEmpty() {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// deriveID builds a stable document ID from a file name. Multi-document files
// append the position so siblings stay distinct.
func deriveID(path string, position, total int) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slug := strings.Trim(reSlug.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		slug = "doc"
	}
	if total > 1 {
		return fmt.Sprintf("%s-%d", slug, position)
	}
	return slug
}

// FindDocumentFiles finds all parseable document files under a path. A file
// path returns itself; a directory is walked, optionally recursively.
func FindDocumentFiles(path string, recursive bool) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing path: %w", err)
	}
	if !info.IsDir() {
		return []string{absPath}, nil
	}

	var files []string
	walkFn := func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && p != absPath {
				return filepath.SkipDir
			}
			return nil
		}
		if parsers.ForFile(p) != nil {
			files = append(files, p)
		}
		return nil
	}
	if err := filepath.Walk(absPath, walkFn); err != nil {
		return nil, fmt.Errorf("walking %s: %w", absPath, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no document files found in %s", absPath)
	}
	return files, nil
}
