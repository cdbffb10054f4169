package vault

import (
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"vaultsearch/internal/adapter/analyzer"
)

// Note is one parsed vault document: YAML frontmatter split off, tags
// collected from both frontmatter and inline #hashtags.
type Note struct {
	Title string
	Kind  string
	Tags  []string
	Body  string
}

type frontmatter struct {
	Title string   `yaml:"title"`
	Type  string   `yaml:"type"`
	Tags  []string `yaml:"tags"`
}

// ParseNote extracts metadata from a raw document. Files without
// frontmatter fall back to the filename as title. Parsing never fails: a
// malformed frontmatter block is treated as body text.
func ParseNote(path, raw string) Note {
	note := Note{
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Kind:  "note",
		Body:  raw,
	}

	if body, fm, ok := splitFrontmatter(raw); ok {
		note.Body = body
		if fm.Title != "" {
			note.Title = fm.Title
		}
		if fm.Type != "" {
			note.Kind = fm.Type
		}
		note.Tags = append(note.Tags, fm.Tags...)
	}

	note.Tags = mergeTags(note.Tags, analyzer.ExtractHashtags(note.Body))
	return note
}

// splitFrontmatter separates a leading "---" YAML block from the body.
func splitFrontmatter(raw string) (body string, fm frontmatter, ok bool) {
	if !strings.HasPrefix(raw, "---\n") && raw != "---" {
		return "", frontmatter{}, false
	}

	rest := strings.TrimPrefix(raw, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", frontmatter{}, false
	}

	block := rest[:end]
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return "", frontmatter{}, false
	}
	return body, fm, true
}

// mergeTags lowercases, deduplicates and sorts tags from all sources.
func mergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	sort.Strings(merged)
	return merged
}
