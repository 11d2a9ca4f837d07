package rule

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// header mirrors the YAML frontmatter block of a rule document.
type header struct {
	Description string   `yaml:"description"`
	Globs       globList `yaml:"globs"`
	AlwaysApply bool     `yaml:"alwaysApply"`
	Category    string   `yaml:"category"`
	Version     string   `yaml:"version"`
}

// globList accepts both YAML forms seen in the wild:
//
//	globs: "*.css, src/**/*.js"
//	globs:
//	  - "*.css"
//	  - "src/**/*.js"
type globList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *globList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*g = splitGlobs(s)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*g = out
		return nil
	default:
		return fmt.Errorf("globs must be a string or a list, got %v", node.Kind)
	}
}

func splitGlobs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const delimiter = "---"

// Parse builds a Document from raw file content.
//
// The content must begin with a frontmatter block:
//
//	---
//	description: Layout conventions
//	globs: "*.css"
//	alwaysApply: false
//	---
//	<opaque body>
//
// The header is the only part that is interpreted; the body is carried
// through byte-for-byte. Returns KindMalformedDocument when the opening
// delimiter is absent, the block is unclosed, or the YAML does not parse.
func Parse(filename string, content []byte, source Source) (Document, error) {
	id := NormalizeIdentifier(filename)

	text := string(content)
	if !strings.HasPrefix(text, delimiter) {
		return Document{}, NewMalformedError(id, "missing frontmatter header", nil)
	}

	yamlText, body, err := splitFrontmatter(text)
	if err != nil {
		return Document{}, NewMalformedError(id, err.Error(), nil)
	}

	var h header
	if err := yaml.Unmarshal([]byte(yamlText), &h); err != nil {
		return Document{}, NewMalformedError(id, "invalid YAML header", err)
	}

	return Document{
		Identifier:  id,
		Priority:    ParsePriority(id),
		Description: h.Description,
		Scopes:      h.Globs,
		AlwaysApply: h.AlwaysApply,
		Category:    h.Category,
		Version:     h.Version,
		Body:        body,
		Source:      source,
		ContentHash: HashContent(content),
	}, nil
}

// splitFrontmatter separates the YAML block from the body.
// Returns the YAML text (without delimiters) and the body with leading
// newlines trimmed.
func splitFrontmatter(content string) (yamlText, body string, err error) {
	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		return "", "", fmt.Errorf("unclosed frontmatter header")
	}

	yamlText = content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}
	return yamlText, body, nil
}
