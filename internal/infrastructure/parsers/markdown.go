package parsers

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterDelim separates YAML front matter from the document body.
const frontMatterDelim = "---"

// MarkdownParser parses one document from a Markdown file with optional YAML
// front matter. The front matter supplies ID, title, excerpt, and tags; the
// remainder of the file becomes the document body.
type MarkdownParser struct{}

type frontMatter struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
}

// Parse reads Markdown from the reader and returns the parsed document.
func (p *MarkdownParser) Parse(r io.Reader) ([]RawDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markdown: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	doc := RawDocument{LineNum: 1}

	if matter, body, ok := splitFrontMatter(text); ok {
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(matter), &fm); err != nil {
			return nil, fmt.Errorf("parsing front matter: %w", err)
		}
		doc.ID = fm.ID
		doc.Title = fm.Title
		doc.Excerpt = fm.Excerpt
		doc.Tags = fm.Tags
		text = body
	}

	doc.Content = strings.TrimSpace(text)

	// Fall back to the first heading when the front matter has no title.
	if doc.Title == "" {
		doc.Title, doc.Content = extractHeading(doc.Content)
	}

	return []RawDocument{doc}, nil
}

// splitFrontMatter separates a leading front matter block from the body. The
// block must start on the first line and be closed by a matching delimiter.
func splitFrontMatter(text string) (matter, body string, ok bool) {
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return "", text, false
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return "", text, false
	}
	matter = rest[:end]
	body = rest[end+len(frontMatterDelim)+1:]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return matter, body, true
}

// extractHeading promotes a leading "# Title" line to the document title.
func extractHeading(content string) (title, rest string) {
	if !strings.HasPrefix(content, "# ") {
		return "", content
	}
	line, remainder, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), strings.TrimSpace(remainder)
}
