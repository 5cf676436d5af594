// Package entities contains core domain data structures.
package entities

// Document is one article-like input to extraction: identifier, title,
// excerpt, body content, and declared tags.
type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	SourcePath string   `json:"source_path,omitempty"`
}

// IsEmpty reports whether the document carries no extractable text at all.
func (d Document) IsEmpty() bool {
	return d.Title == "" && d.Excerpt == "" && d.Content == "" && len(d.Tags) == 0
}
