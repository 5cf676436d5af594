package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses documents from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed documents.
func (p *JSONParser) Parse(r io.Reader) ([]RawDocument, error) {
	var docs []RawDocument

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&docs); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set positions (array index + 1, 1-indexed)
	for i := range docs {
		docs[i].LineNum = i + 1
	}

	return docs, nil
}
