package models

import (
	"fmt"
	"strings"
)

// SearchKind selects which part of a prompt a store search matches against
type SearchKind string

const (
	SearchName    SearchKind = "name"
	SearchTag     SearchKind = "tag"
	SearchContent SearchKind = "content"
	// SearchAll matches name, tags or body
	SearchAll SearchKind = "all"
)

// ParseSearchKind parses a --kind flag value
func ParseSearchKind(s string) (SearchKind, error) {
	switch SearchKind(strings.ToLower(strings.TrimSpace(s))) {
	case SearchName:
		return SearchName, nil
	case SearchTag:
		return SearchTag, nil
	case SearchContent:
		return SearchContent, nil
	case SearchAll, "":
		return SearchAll, nil
	default:
		return "", fmt.Errorf("unknown search kind %q (want name, tag, content or all)", s)
	}
}

// ContainsFold reports whether needle occurs in haystack ignoring case
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// MatchesName is the interactive search rule: substring of the display name
func (p PromptMetadata) MatchesName(query string) bool {
	return ContainsFold(p.DisplayName, query)
}

// MatchesTag reports whether any tag contains query ignoring case
func (p PromptMetadata) MatchesTag(query string) bool {
	for _, tag := range p.Tags {
		if ContainsFold(tag, query) {
			return true
		}
	}
	return false
}
