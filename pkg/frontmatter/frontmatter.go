// Package frontmatter parses command and skill definition files: an
// optional YAML front-matter block followed by a markdown body. Parsing
// never fails; malformed front-matter degrades to "no metadata" and the
// whole file becomes the body, so a bad definition file is still usable.
package frontmatter

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Document is a parsed definition file.
type Document struct {
	Metadata    map[string]interface{}
	Body        string
	Description string
}

// Parse extracts metadata and a body from raw definition file text.
//
// With a well-formed front-matter block the metadata comes from YAML and
// the body is everything after the closing delimiter. Without one (or
// with a malformed one) a legacy layout is recognized instead: the first
// `# ` heading becomes the description, a `## Prompt`/`## Template`
// section marks the body, and a `## Metadata`/`## Variables` section
// holds key: value pairs. The body always ends up non-empty, falling
// back to the full raw text.
func Parse(content string) *Document {
	doc := &Document{Metadata: map[string]interface{}{}}

	// goldmark-meta accepts an unterminated block when its content is
	// valid YAML, so the closing delimiter is checked independently: no
	// terminator means no front-matter, whatever the YAML looks like.
	rest := content
	if strings.HasPrefix(content, "---") {
		if stripped, ok := stripFrontmatter(content); ok {
			if md, ok := parseYAMLMeta(content); ok {
				doc.Metadata = md
				rest = stripped
			}
		}
	}

	// A frontmatter description wins over anything inferred from the body
	if d, ok := doc.Metadata["description"].(string); ok {
		doc.Description = strings.TrimSpace(d)
	}

	parseSections(rest, doc)

	if strings.TrimSpace(doc.Body) == "" {
		doc.Body = fallbackBody(rest)
	}
	if strings.TrimSpace(doc.Body) == "" {
		doc.Body = content
	}

	return doc
}

// parseYAMLMeta runs goldmark with the meta extension over the content
// and returns the front-matter mapping. ok is false when the block is
// absent or unparsable.
func parseYAMLMeta(content string) (map[string]interface{}, bool) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), io.Discard, parser.WithContext(pctx)); err != nil {
		return nil, false
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, false
	}

	out := make(map[string]interface{}, len(metaData))
	for k, v := range metaData {
		out[k] = v
	}
	return out, true
}

// stripFrontmatter removes the leading YAML block. ok is false when
// the closing delimiter is missing, meaning there was no front-matter
// to strip.
func stripFrontmatter(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n"), true
		}
	}
	return content, false
}

// parseSections scans the body text for the legacy heading layout,
// filling in description, prompt body, and section metadata.
func parseSections(content string, doc *Document) {
	var body bytes.Buffer

	inPrompt := false
	inMetadata := false

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimRight(line, " \t")

		if strings.HasPrefix(line, "# ") && doc.Description == "" && !inPrompt {
			doc.Description = strings.TrimSpace(line[2:])
			continue
		}

		if strings.HasPrefix(line, "## ") {
			section := strings.ToLower(strings.TrimSpace(line[3:]))
			inPrompt = containsAny(section, "prompt", "template", "content")
			inMetadata = containsAny(section, "metadata", "variables", "config", "settings")
			continue
		}

		switch {
		case inPrompt:
			if strings.TrimSpace(line) != "" {
				if body.Len() > 0 {
					body.WriteByte('\n')
				}
				body.WriteString(line)
			}
		case inMetadata:
			if key, value, ok := strings.Cut(line, ":"); ok && !strings.HasPrefix(strings.TrimSpace(line), "#") {
				k := strings.TrimSpace(key)
				if k != "" {
					doc.Metadata[k] = strings.TrimSpace(value)
				}
			}
		default:
			if doc.Description == "" && strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
				doc.Description = strings.TrimSpace(line)
			}
		}
	}

	doc.Body = body.String()
}

// fallbackBody returns the content with legacy metadata sections filtered
// out, used when no explicit prompt section was found.
func fallbackBody(content string) string {
	var clean []string
	skip := false

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			section := strings.ToLower(strings.TrimSpace(line[3:]))
			skip = containsAny(section, "metadata", "variables", "config", "settings")
			if !skip {
				clean = append(clean, line)
			}
		case skip:
			// drop metadata lines
		default:
			clean = append(clean, line)
		}
	}

	return strings.TrimSpace(strings.Join(clean, "\n"))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
