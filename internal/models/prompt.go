package models

import (
	"strings"
	"unicode"
)

// PromptMetadata is the header-derived record for one prompt file
type PromptMetadata struct {
	// Name is the normalized identity, equal to the file stem
	Name string `json:"name"`
	// DisplayName is the header's name field, for presentation only
	DisplayName string   `json:"display_name"`
	Tags        []string `json:"tags"`
	// FilePath is relative to the prompts directory, slash separated
	FilePath string `json:"file_path"`
}

// Title returns the display name, falling back to the normalized name
func (p PromptMetadata) Title() string {
	if p.DisplayName != "" {
		return cleanString(p.DisplayName)
	}
	return p.Name
}

// HasTag reports whether the prompt carries tag exactly
func (p PromptMetadata) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagList joins the tags the way listings show them: "code, review"
func (p PromptMetadata) TagList() string {
	return strings.Join(p.Tags, ", ")
}

// Normalize turns a display name into the identity used for file names:
// trimmed, lower-cased, and every run of whitespace replaced by a single "-".
func Normalize(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), unicode.IsSpace)
	return strings.Join(fields, "-")
}

// CleanTags drops empty entries and duplicates while keeping first-seen order
func CleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

// NormalizeTag is applied to tags typed by the user
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
