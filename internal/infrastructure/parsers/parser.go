// Package parsers provides parsers for importing documents from various
// formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawDocument represents a document parsed from an external source before
// validation.
type RawDocument struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
	LineNum    int      `json:"-"` // Position in source file (set by parser)
}

// Parser defines the interface for parsing documents from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawDocument, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "markdown".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "markdown", "md":
		return &MarkdownParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".md", ".markdown":
		return &MarkdownParser{}
	default:
		return nil
	}
}
