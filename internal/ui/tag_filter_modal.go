package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TagFilterAction is what the tag-filter dialog asks the application to do
type TagFilterAction int

const (
	TagFilterNone TagFilterAction = iota
	// TagFilterSelect filters by Tag and closes the dialog
	TagFilterSelect
	// TagFilterClear removes the filter and closes the dialog
	TagFilterClear
	// TagFilterDismiss closes the dialog without changes
	TagFilterDismiss
)

// TagFilterResult is the outcome of one key press
type TagFilterResult struct {
	Action TagFilterAction
	Tag    string
}

// TagFilterModal lets the user pick one of the library's tags
type TagFilterModal struct {
	tags   []string
	cursor int
}

// NewTagFilterModal lists tags with the cursor on current, if present
func NewTagFilterModal(tags []string, current string) *TagFilterModal {
	m := &TagFilterModal{tags: tags}
	for i, tag := range tags {
		if tag == current {
			m.cursor = i
			break
		}
	}
	return m
}

// Cursor returns the highlighted position
func (m *TagFilterModal) Cursor() int {
	return m.cursor
}

// HandleKey processes one key press
func (m *TagFilterModal) HandleKey(msg tea.KeyMsg) TagFilterResult {
	switch {
	case key.Matches(msg, keyEsc):
		return TagFilterResult{Action: TagFilterDismiss}
	case key.Matches(msg, keyListUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keyListDown):
		if m.cursor < len(m.tags)-1 {
			m.cursor++
		}
	case key.Matches(msg, keyEnter):
		if len(m.tags) == 0 {
			return TagFilterResult{Action: TagFilterDismiss}
		}
		return TagFilterResult{Action: TagFilterSelect, Tag: m.tags[m.cursor]}
	case key.Matches(msg, keyClear):
		return TagFilterResult{Action: TagFilterClear}
	}
	return TagFilterResult{}
}

// View renders the dialog. current is the active filter.
func (m *TagFilterModal) View(theme Theme, current string) string {
	var content []string
	content = append(content, theme.Title.Render("Filter by tag"))
	content = append(content, "")

	if len(m.tags) == 0 {
		content = append(content, theme.TextMuted.Render("No tags in the library"))
	}
	for i, tag := range m.tags {
		label := tag
		if tag == current {
			label += " ✓"
		}
		content = append(content, CreateOption(theme, label, i == m.cursor))
	}

	content = append(content, "")
	content = append(content, CreateHelp(theme, "↑/↓ move • enter apply • c clear • esc close"))
	return theme.Modal.Render(strings.Join(content, "\n"))
}
