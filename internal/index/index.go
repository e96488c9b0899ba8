// Package index keeps the in-memory view of the prompt library that the
// interactive surface navigates: every record, the subset that passes the
// current tag filter and search query, and the selected entry.
package index

import (
	"sort"

	"github.com/dpshade/promptshelf/internal/models"
)

// Index holds All, the derived Visible list and the selection.
type Index struct {
	all       []models.PromptMetadata
	visible   []models.PromptMetadata
	selected  int
	tagFilter string
	query     string
}

// New returns an index over records
func New(records []models.PromptMetadata) *Index {
	idx := &Index{selected: -1}
	idx.SetAll(records)
	return idx
}

// SetAll replaces every record, for example after a rescan. The selection
// follows the previously selected prompt when it is still visible.
func (idx *Index) SetAll(records []models.PromptMetadata) {
	all := make([]models.PromptMetadata, len(records))
	copy(all, records)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	idx.all = all
	idx.recompute()
}

// All returns every record in name order
func (idx *Index) All() []models.PromptMetadata {
	return idx.all
}

// Visible returns the records passing the tag filter and the search query
func (idx *Index) Visible() []models.PromptMetadata {
	return idx.visible
}

// Len returns the number of visible records
func (idx *Index) Len() int {
	return len(idx.visible)
}

// Selected returns the selected record, if any
func (idx *Index) Selected() (models.PromptMetadata, bool) {
	if idx.selected < 0 || idx.selected >= len(idx.visible) {
		return models.PromptMetadata{}, false
	}
	return idx.visible[idx.selected], true
}

// SelectedIndex returns the position of the selection in Visible, or -1
func (idx *Index) SelectedIndex() int {
	return idx.selected
}

// Next moves the selection down, stopping at the last record
func (idx *Index) Next() {
	if idx.selected >= 0 && idx.selected < len(idx.visible)-1 {
		idx.selected++
	}
}

// Previous moves the selection up, stopping at the first record
func (idx *Index) Previous() {
	if idx.selected > 0 {
		idx.selected--
	}
}

// Select moves the selection to the visible record named name
func (idx *Index) Select(name string) bool {
	name = models.Normalize(name)
	for i, p := range idx.visible {
		if p.Name == name {
			idx.selected = i
			return true
		}
	}
	return false
}

// SetTagFilter restricts Visible to records carrying tag exactly
func (idx *Index) SetTagFilter(tag string) {
	idx.tagFilter = tag
	idx.recompute()
}

// ClearTagFilter removes the tag restriction
func (idx *Index) ClearTagFilter() {
	idx.SetTagFilter("")
}

// TagFilter returns the active tag filter, empty when none
func (idx *Index) TagFilter() string {
	return idx.tagFilter
}

// SetQuery sets the search query. An empty query matches everything.
func (idx *Index) SetQuery(query string) {
	idx.query = query
	idx.recompute()
}

// Query returns the active search query
func (idx *Index) Query() string {
	return idx.query
}

// Tags returns the distinct tags across all records, sorted
func (idx *Index) Tags() []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range idx.all {
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func (idx *Index) matches(p models.PromptMetadata) bool {
	if idx.tagFilter != "" && !p.HasTag(idx.tagFilter) {
		return false
	}
	if idx.query != "" && !p.MatchesName(idx.query) {
		return false
	}
	return true
}

// recompute rebuilds Visible and re-anchors the selection: the same record if
// it survived, otherwise the nearest earlier survivor, otherwise the first.
func (idx *Index) recompute() {
	previous, hadSelection := idx.Selected()

	visible := make([]models.PromptMetadata, 0, len(idx.all))
	for _, p := range idx.all {
		if idx.matches(p) {
			visible = append(visible, p)
		}
	}
	idx.visible = visible

	if len(visible) == 0 {
		idx.selected = -1
		return
	}
	if !hadSelection {
		idx.selected = 0
		return
	}

	idx.selected = 0
	for i, p := range visible {
		if p.Name == previous.Name {
			idx.selected = i
			return
		}
		if p.Name < previous.Name {
			idx.selected = i
		}
	}
}
