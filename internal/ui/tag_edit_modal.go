package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dpshade/promptshelf/internal/models"
)

// TagEditState is the sub-state of the tag-edit dialog
type TagEditState int

const (
	TagEditViewing TagEditState = iota
	TagEditAdding
	TagEditRemoving
)

// TagEditAction is what the tag-edit dialog asks the application to do
type TagEditAction int

const (
	TagEditNone TagEditAction = iota
	TagEditAdd
	TagEditRemove
	TagEditDismiss
)

// TagEditResult is the outcome of one key press
type TagEditResult struct {
	Action TagEditAction
	Tag    string
}

// TagEditModal edits the tags of one prompt. The prompt's current tags are
// passed in on every call so the dialog never shows a stale list.
type TagEditModal struct {
	// Target is the name of the prompt being edited. It does not follow the
	// list selection.
	Target string

	title   string
	library []string
	state   TagEditState
	input   textinput.Model
	cursor  int
}

// NewTagEditModal creates the dialog for the prompt named target, shown as
// title. library holds every tag in use and feeds completion.
func NewTagEditModal(title, target string, library []string) *TagEditModal {
	input := textinput.New()
	input.Placeholder = "new tag"
	input.Prompt = "+ "
	input.CharLimit = 64
	input.Width = 30

	return &TagEditModal{
		Target:  target,
		title:   title,
		library: library,
		input:   input,
	}
}

// State returns the current sub-state
func (m *TagEditModal) State() TagEditState {
	return m.state
}

// Buffer returns the text typed so far in the adding state
func (m *TagEditModal) Buffer() string {
	return m.input.Value()
}

// Cursor returns the highlighted tag in the removing state
func (m *TagEditModal) Cursor() int {
	return m.cursor
}

// Suggestions returns library tags not yet on the prompt that fuzzily match
// the buffer, best first
func (m *TagEditModal) Suggestions(current []string) []string {
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t] = true
	}
	var candidates []string
	for _, t := range m.library {
		if !have[t] {
			candidates = append(candidates, t)
		}
	}

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return candidates
	}

	matches := fuzzy.Find(query, candidates)
	suggestions := make([]string, 0, len(matches))
	for _, match := range matches {
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}

// HandleKey processes one key press against the prompt's current tags
func (m *TagEditModal) HandleKey(msg tea.KeyMsg, current []string) TagEditResult {
	switch m.state {
	case TagEditViewing:
		return m.handleViewing(msg, current)
	case TagEditAdding:
		return m.handleAdding(msg, current)
	case TagEditRemoving:
		return m.handleRemoving(msg, current)
	}
	return TagEditResult{}
}

func (m *TagEditModal) handleViewing(msg tea.KeyMsg, current []string) TagEditResult {
	switch {
	case key.Matches(msg, keyEsc):
		return TagEditResult{Action: TagEditDismiss}
	case key.Matches(msg, keyAddTag):
		m.state = TagEditAdding
		m.input.SetValue("")
		m.input.Focus()
	case key.Matches(msg, keyRemoveTag):
		if len(current) > 0 {
			m.state = TagEditRemoving
			m.cursor = 0
		}
	}
	return TagEditResult{}
}

func (m *TagEditModal) handleAdding(msg tea.KeyMsg, current []string) TagEditResult {
	switch {
	case key.Matches(msg, keyEsc):
		m.backToViewing()
		return TagEditResult{}
	case key.Matches(msg, keyEnter):
		tag := models.NormalizeTag(m.input.Value())
		m.backToViewing()
		if tag == "" {
			return TagEditResult{}
		}
		return TagEditResult{Action: TagEditAdd, Tag: tag}
	case key.Matches(msg, keyComplete):
		if suggestions := m.Suggestions(current); len(suggestions) > 0 {
			m.input.SetValue(suggestions[0])
			m.input.CursorEnd()
		}
		return TagEditResult{}
	}

	m.input, _ = m.input.Update(msg)
	return TagEditResult{}
}

func (m *TagEditModal) handleRemoving(msg tea.KeyMsg, current []string) TagEditResult {
	// Tags may have changed underneath us
	if m.cursor >= len(current) {
		m.cursor = len(current) - 1
	}

	switch {
	case key.Matches(msg, keyEsc):
		m.backToViewing()
	case key.Matches(msg, keyListUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keyListDown):
		if m.cursor < len(current)-1 {
			m.cursor++
		}
	case key.Matches(msg, keyEnter):
		m.backToViewing()
		if m.cursor >= 0 && m.cursor < len(current) {
			return TagEditResult{Action: TagEditRemove, Tag: current[m.cursor]}
		}
	}
	return TagEditResult{}
}

func (m *TagEditModal) backToViewing() {
	m.state = TagEditViewing
	m.input.SetValue("")
	m.input.Blur()
}

// View renders the dialog for the prompt's current tags
func (m *TagEditModal) View(theme Theme, current []string) string {
	var content []string
	content = append(content, theme.Title.Render("Tags: "+m.title))
	content = append(content, "")

	if len(current) == 0 {
		content = append(content, theme.TextMuted.Render("No tags"))
	}
	for i, tag := range current {
		if m.state == TagEditRemoving {
			content = append(content, CreateOption(theme, tag, i == m.cursor))
		} else {
			content = append(content, "  "+theme.Tag.Render(tag))
		}
	}
	content = append(content, "")

	switch m.state {
	case TagEditViewing:
		content = append(content, CreateHelp(theme, "a add • r remove • esc close"))
	case TagEditAdding:
		content = append(content, m.input.View())
		if suggestions := m.Suggestions(current); len(suggestions) > 0 {
			if len(suggestions) > 5 {
				suggestions = suggestions[:5]
			}
			content = append(content, theme.TextDim.Render("  "+strings.Join(suggestions, "  ")))
		}
		content = append(content, "")
		content = append(content, CreateHelp(theme, "enter add • tab complete • esc cancel"))
	case TagEditRemoving:
		content = append(content, CreateHelp(theme, "↑/↓ move • enter remove • esc cancel"))
	}

	return theme.Modal.Render(strings.Join(content, "\n"))
}
