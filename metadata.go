package bookworks

import (
	"strings"

	"github.com/alnah/go-bookworks/internal/yamlutil"
)

// Metadata carries document-level fields used for publishing. The
// omitempty tags keep synthesized front matter down to the fields a
// source actually provides.
type Metadata struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Date   string `yaml:"date,omitempty"`
}

// frontMatterDelimiter opens and closes a YAML front matter block.
const frontMatterDelimiter = "---"

// ExtractMetadata returns a document's metadata and its content with any
// YAML front matter removed. The title comes from front matter, then the
// first level-1 heading, then UntitledDocument. Malformed front matter
// is left in place and contributes nothing.
func ExtractMetadata(content string) (Metadata, string) {
	meta, body := parseFrontMatter(content)
	if meta.Title == "" {
		meta.Title = DocumentTitle(body)
	}
	return meta, body
}

// parseFrontMatter splits a leading YAML front matter block from the
// content. When no well-formed block is present the input comes back
// unchanged with zero metadata.
func parseFrontMatter(content string) (Metadata, string) {
	var meta Metadata

	normalized := normalizeNewlines(content)
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return meta, content
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return meta, content
	}

	block := strings.Join(lines[1:closing], "\n")
	if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil {
		return Metadata{}, content
	}

	return meta, strings.Join(lines[closing+1:], "\n")
}
